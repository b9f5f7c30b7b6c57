package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/RyanBlaney/mapdata/beatmap"
	"github.com/RyanBlaney/mapdata/features"
	"github.com/RyanBlaney/mapdata/logging"
	"github.com/RyanBlaney/mapdata/transcode"
)

// Config holds all runtime configuration. Sources apply in order: Default, Load (file),
// ApplyEnv, then command-line flags.
type Config struct {
	Divisor     int     `json:"divisor"`      // ticks per beat
	MapList     string  `json:"map_list"`     // one beatmap path per line
	OutputDir   string  `json:"output_dir"`   // <index>.npz files land here
	Workers     int     `json:"workers"`      // beatmaps processed at once; 0 or 1 is sequential
	EmptyRadius float64 `json:"empty_radius"` // ms
	LogLevel    string  `json:"log_level"`

	// FreqHighDivisor sets the spectral band's upper edge to sampleRate/FreqHighDivisor.
	// 0 leaves Spectral.FreqHigh as configured.
	FreqHighDivisor int `json:"freq_high_divisor"`

	Spectral  *features.Config         `json:"spectral"`
	Converter *beatmap.ConverterConfig `json:"converter"`
	Decoder   *transcode.DecoderConfig `json:"decoder"`
}

// Default returns the reference configuration
func Default() *Config {
	return &Config{
		Divisor:         4,
		MapList:         "maplist.txt",
		OutputDir:       "mapdata",
		Workers:         1,
		EmptyRadius:     5000,
		LogLevel:        "info",
		FreqHighDivisor: 4,
		Spectral:        features.DefaultConfig(),
		Converter:       beatmap.DefaultConverterConfig(),
		Decoder:         transcode.DefaultDecoderConfig(),
	}
}

// Load reads a JSON file over the defaults. Fields missing from the file keep their default
// values; an empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from MAPDATA_* environment variables. Unset or unparsable
// variables leave the current value.
func (c *Config) ApplyEnv() *Config {
	c.Divisor = envInt("MAPDATA_DIVISOR", c.Divisor)
	c.MapList = envStr("MAPDATA_MAP_LIST", c.MapList)
	c.OutputDir = envStr("MAPDATA_OUTPUT_DIR", c.OutputDir)
	c.Workers = envInt("MAPDATA_WORKERS", c.Workers)
	c.EmptyRadius = envFloat("MAPDATA_EMPTY_RADIUS", c.EmptyRadius)
	c.LogLevel = envStr("MAPDATA_LOG_LEVEL", c.LogLevel)
	c.FreqHighDivisor = envInt("MAPDATA_FREQ_HIGH_DIVISOR", c.FreqHighDivisor)

	// a section nulled by the config file is left for Validate to report
	if c.Spectral != nil {
		c.Spectral.FFTSize = envInt("MAPDATA_FFT_SIZE", c.Spectral.FFTSize)
		c.Spectral.Window = envStr("MAPDATA_WINDOW", c.Spectral.Window)
		c.Spectral.ZeroStd = features.ZeroStdPolicy(envStr("MAPDATA_ZERO_STD", string(c.Spectral.ZeroStd)))
	}

	if c.Converter != nil {
		c.Converter.NodePath = envStr("MAPDATA_NODE_PATH", c.Converter.NodePath)
		c.Converter.Script = envStr("MAPDATA_LOADER_SCRIPT", c.Converter.Script)
	}

	if c.Decoder != nil {
		c.Decoder.FFmpegPath = envStr("MAPDATA_FFMPEG_PATH", c.Decoder.FFmpegPath)
		c.Decoder.FFprobePath = envStr("MAPDATA_FFPROBE_PATH", c.Decoder.FFprobePath)
		c.Decoder.SampleRate = envInt("MAPDATA_SAMPLE_RATE", c.Decoder.SampleRate)
	}

	return c
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	if c.Divisor < 1 {
		return fmt.Errorf("divisor must be at least 1: %d", c.Divisor)
	}
	if c.MapList == "" {
		return fmt.Errorf("map list path is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	}
	if !(c.EmptyRadius > 0) {
		return fmt.Errorf("empty radius must be positive: %v", c.EmptyRadius)
	}
	if c.FreqHighDivisor < 0 {
		return fmt.Errorf("freq high divisor must not be negative: %d", c.FreqHighDivisor)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Spectral == nil || c.Converter == nil || c.Decoder == nil {
		return fmt.Errorf("spectral, converter and decoder sections are required")
	}
	if err := c.Spectral.Validate(); err != nil {
		return fmt.Errorf("spectral: %w", err)
	}
	if err := c.Decoder.Validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	return nil
}

// SpectralFor returns the spectral settings for audio at sampleRate
func (c *Config) SpectralFor(sampleRate int) *features.Config {
	spectral := *c.Spectral
	spectral.Offsets = append([]float64(nil), c.Spectral.Offsets...)
	if c.FreqHighDivisor > 0 {
		spectral.FreqHigh = sampleRate / c.FreqHighDivisor
	}
	return &spectral
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
