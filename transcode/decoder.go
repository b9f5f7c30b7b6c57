package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/mapdata/logging"
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64      `json:"-"` // mono samples
	SampleRate int            `json:"sample_rate"`
	Channels   int            `json:"channels"`
	Duration   time.Duration  `json:"duration"`
	Metadata   *AudioMetadata `json:"metadata,omitempty"`
}

// AudioMetadata holds detected audio properties from FFprobe
type AudioMetadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"`
	Bitrate    int     `json:"bitrate"`
	Format     string  `json:"format"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	SampleRate      int           `json:"sample_rate"`      // 0 keeps the file's native rate
	ResampleQuality string        `json:"resample_quality"` // "fast", "medium", "high"
	MaxDuration     time.Duration `json:"max_duration"`
	FFmpegPath      string        `json:"ffmpeg_path"`  // Path to ffmpeg binary
	FFprobePath     string        `json:"ffprobe_path"` // Path to ffprobe binary
	Timeout         time.Duration `json:"timeout"`      // per ffmpeg/ffprobe invocation
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		SampleRate:      0,
		ResampleQuality: "medium",
		FFmpegPath:      "ffmpeg",  // Assume in PATH
		FFprobePath:     "ffprobe", // Assume in PATH
		Timeout:         2 * time.Minute,
	}
}

// Validate checks the configuration without touching the binaries
func (c *DecoderConfig) Validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("sample rate must not be negative: %d", c.SampleRate)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %v", c.Timeout)
	}
	if c.FFmpegPath == "" || c.FFprobePath == "" {
		return fmt.Errorf("ffmpeg and ffprobe paths are required")
	}
	switch c.ResampleQuality {
	case "", "fast", "medium", "high":
	default:
		return fmt.Errorf("unknown resample quality %q", c.ResampleQuality)
	}
	return nil
}

// Decoder handles audio decoding using FFmpeg
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeFile decodes an audio file to mono float64 PCM at the configured rate, or the
// file's own rate when none is configured
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := logging.WithContext(ctx).WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	logger.Debug("Starting audio file decode")

	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("audio file unavailable: %w", err)
	}

	metadata, err := d.probeAudioFile(ctx, filename)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
		"input_bitrate":     metadata.Bitrate,
	})

	return d.decodeFileWithFFmpeg(ctx, filename, metadata, logger)
}

// probeAudioFile uses ffprobe to get audio information from a file
func (d *Decoder) probeAudioFile(ctx context.Context, filename string) (*AudioMetadata, error) {
	args := []string{
		"-v", "quiet", // Suppress verbose output
		"-print_format", "json", // JSON output
		"-show_streams",          // Show stream info
		"-select_streams", "a:0", // First audio stream only
		filename,
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	output, err := exec.CommandContext(ctx, d.config.FFprobePath, args...).Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseFFprobeOutput(output)
}

// parseFFprobeOutput parses ffprobe JSON to extract audio metadata
func parseFFprobeOutput(jsonData []byte) (*AudioMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType     string `json:"codec_type"`
			CodecName     string `json:"codec_name"`
			SampleRate    string `json:"sample_rate"`
			Channels      int    `json:"channels"`
			Duration      string `json:"duration"`
			BitRate       string `json:"bit_rate"`
			CodecLongName string `json:"codec_long_name"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}

	// the sample rate drives tick alignment, so there is no fallback
	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %q", stream.SampleRate)
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	bitrate, err := strconv.Atoi(stream.BitRate)
	if err != nil {
		bitrate = 0
	}

	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	return &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
		Bitrate:    bitrate,
		Format:     stream.CodecLongName,
	}, nil
}

// decodeFileWithFFmpeg performs the actual audio decoding from a file
func (d *Decoder) decodeFileWithFFmpeg(ctx context.Context, filename string, metadata *AudioMetadata, logger logging.Logger) (*AudioData, error) {
	outputRate := d.outputRate(metadata)

	args := append([]string{"-i", filename}, d.buildFFmpegArgs(metadata, outputRate)...)
	args = append(args, "pipe:1")

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	startTime := time.Now()
	output, err := exec.CommandContext(ctx, d.config.FFmpegPath, args...).Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			logger.Error(err, "Ffmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded")
	}

	duration := time.Duration(len(samples)) * time.Second / time.Duration(outputRate)

	logger.Debug("FFmpeg decode completed successfully", logging.Fields{
		"output_samples":     len(samples),
		"output_sample_rate": outputRate,
		"output_duration":    duration.Seconds(),
		"decode_time":        time.Since(startTime).Seconds(),
	})

	return &AudioData{
		PCM:        samples,
		SampleRate: outputRate,
		Channels:   1,
		Duration:   duration,
		Metadata:   metadata,
	}, nil
}

func (d *Decoder) outputRate(metadata *AudioMetadata) int {
	if d.config.SampleRate > 0 {
		return d.config.SampleRate
	}
	return metadata.SampleRate
}

// buildFFmpegArgs builds the output arguments: mono f64le at outputRate
func (d *Decoder) buildFFmpegArgs(metadata *AudioMetadata, outputRate int) []string {
	args := []string{
		"-vn",
		"-f", "f64le", // Output raw float64 little-endian
		"-ac", "1",
		"-ar", strconv.Itoa(outputRate),
	}

	if metadata.SampleRate != outputRate {
		switch d.config.ResampleQuality {
		case "fast":
			args = append(args, "-af", "aresample=resampler=soxr:precision=16")
		case "medium":
			args = append(args, "-af", "aresample=resampler=soxr:precision=20")
		case "high":
			args = append(args, "-af", "aresample=resampler=soxr:precision=28")
		}
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	// Suppress ffmpeg output
	return append(args, "-v", "error")
}

func (d *Decoder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.config.Timeout > 0 {
		return context.WithTimeout(ctx, d.config.Timeout)
	}
	return context.WithCancel(ctx)
}

// bytesToFloat64 converts raw float64 bytes to []float64
func bytesToFloat64(data []byte) []float64 {
	// Trim to multiple of 8 bytes
	data = data[:len(data)-(len(data)%8)]
	if len(data) == 0 {
		return nil
	}

	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}

// CheckAvailability checks that ffmpeg and ffprobe can be started
func (d *Decoder) CheckAvailability(ctx context.Context) error {
	if err := exec.CommandContext(ctx, d.config.FFmpegPath, "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", d.config.FFmpegPath, err)
	}
	if err := exec.CommandContext(ctx, d.config.FFprobePath, "-version").Run(); err != nil {
		return fmt.Errorf("ffprobe not found at %s: %w", d.config.FFprobePath, err)
	}
	return nil
}
