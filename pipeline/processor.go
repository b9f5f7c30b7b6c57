package pipeline

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/mapdata/beatmap"
	"github.com/RyanBlaney/mapdata/config"
	"github.com/RyanBlaney/mapdata/dataset"
	"github.com/RyanBlaney/mapdata/features"
	"github.com/RyanBlaney/mapdata/hitsound"
	"github.com/RyanBlaney/mapdata/logging"
	"github.com/RyanBlaney/mapdata/notes"
	"github.com/RyanBlaney/mapdata/timing"
	"github.com/RyanBlaney/mapdata/transcode"
)

// AudioDecoder decodes a beatmap's audio track to mono PCM
type AudioDecoder interface {
	DecodeFile(ctx context.Context, path string) (*transcode.AudioData, error)
}

// Arrays is everything extracted from one beatmap for a training archive
type Arrays struct {
	Beatmap    *beatmap.Beatmap
	Grid       *timing.Grid
	Notes      *notes.Result
	Lst        [][notes.RowWidth]float64
	Flow       [][notes.FlowWidth]float64
	Wav        *features.Tensor
	Hitsounds  *hitsound.Table
	SampleRate int
}

// TesterArrays is the inference input of one beatmap: every grid tick, no note rows
type TesterArrays struct {
	Grid       *timing.Grid
	Wav        *features.Tensor
	Extra      [2][]float64
	SampleRate int
}

// Processor turns single beatmaps into dataset arrays
type Processor struct {
	config    *config.Config
	converter beatmap.Converter
	decoder   AudioDecoder
	logger    logging.Logger
}

// NewProcessor creates a processor. Nil converter or decoder fall back to the node/JSON
// converter and the ffmpeg decoder built from cfg.
func NewProcessor(cfg *config.Config, converter beatmap.Converter, decoder AudioDecoder) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	if converter == nil {
		converter = beatmap.NewAutoConverter(cfg.Converter)
	}
	if decoder == nil {
		decoder = transcode.NewDecoder(cfg.Decoder)
	}
	return &Processor{
		config:    cfg,
		converter: converter,
		decoder:   decoder,
		logger: logging.WithFields(logging.Fields{
			"component": "map_processor",
		}),
	}
}

// loadMap converts path and resolves its tick grid over the map's length
func (p *Processor) loadMap(ctx context.Context, path string) (*beatmap.Beatmap, *timing.Grid, error) {
	bm, err := p.converter.Convert(ctx, path)
	if err != nil {
		return nil, nil, asIOError("convert", path, err)
	}

	grid, err := timing.Resolve(bm.Timing.Uninherited, bm.Timing.All, bm.Duration(), p.config.Divisor)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve ticks: %w", err)
	}
	return bm, grid, nil
}

// decode reads and peak normalizes the audio of bm
func (p *Processor) decode(ctx context.Context, bm *beatmap.Beatmap) (*transcode.AudioData, []float64, error) {
	audioPath := bm.AudioPath()
	audio, err := p.decoder.DecodeFile(ctx, audioPath)
	if err != nil {
		return nil, nil, asIOError("decode audio", audioPath, err)
	}
	samples, err := features.NormalizeWaveform(audio.PCM)
	if err != nil {
		return nil, nil, err
	}
	return audio, samples, nil
}

func (p *Processor) noteOptions() notes.Options {
	return notes.Options{
		Divisor:     p.config.Divisor,
		EmptyRadius: p.config.EmptyRadius,
	}
}

// Timestamps returns the tick times that carry note rows, without touching the audio
func (p *Processor) Timestamps(ctx context.Context, path string) ([]float64, error) {
	bm, grid, err := p.loadMap(ctx, path)
	if err != nil {
		return nil, err
	}
	res, err := notes.Extract(bm, grid, p.noteOptions())
	if err != nil {
		return nil, err
	}
	return res.Timestamps(), nil
}

// Process extracts note rows, flow events, spectral features and hitsounds from one beatmap
func (p *Processor) Process(ctx context.Context, path string) (*Arrays, error) {
	logger := p.logger.WithContext(ctx).WithFields(logging.Fields{
		"function": "Process",
		"path":     path,
	})

	bm, grid, err := p.loadMap(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := notes.Extract(bm, grid, p.noteOptions())
	if err != nil {
		return nil, err
	}

	audio, samples, err := p.decode(ctx, bm)
	if err != nil {
		return nil, err
	}

	wav, err := features.Extract(res.Timestamps(), samples, audio.SampleRate, p.config.SpectralFor(audio.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("spectral extraction failed: %w", err)
	}

	hs, err := hitsound.Extract(bm, p.config.Divisor)
	if err != nil {
		return nil, err
	}

	logger.Debug("Beatmap processed", logging.Fields{
		"grid_ticks":  grid.Len(),
		"rows":        len(res.Rows),
		"flows":       len(res.Flows),
		"sample_rate": audio.SampleRate,
	})

	return &Arrays{
		Beatmap:    bm,
		Grid:       grid,
		Notes:      res,
		Lst:        notes.Encode(res.Rows),
		Flow:       notes.EncodeFlows(res.Flows),
		Wav:        wav,
		Hitsounds:  hs,
		SampleRate: audio.SampleRate,
	}, nil
}

// Save writes arrays as a training archive
func (p *Processor) Save(arrays *Arrays, filename string) error {
	return asIOError("save", filename, dataset.Save(filename, arrays.Lst, arrays.Wav, arrays.Flow, arrays.Hitsounds))
}

// Tester builds the inference input of one beatmap. The grid covers the whole audio track
// rather than the map's objects.
func (p *Processor) Tester(ctx context.Context, path string) (*TesterArrays, error) {
	bm, err := p.converter.Convert(ctx, path)
	if err != nil {
		return nil, asIOError("convert", path, err)
	}

	audio, samples, err := p.decode(ctx, bm)
	if err != nil {
		return nil, err
	}

	// Resolve pads by timing.Padding, so the grid stops at the end of the audio
	trackLength := float64(len(samples))/float64(audio.SampleRate)*1000 - timing.Padding
	grid, err := timing.Resolve(bm.Timing.Uninherited, bm.Timing.All, trackLength, p.config.Divisor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticks: %w", err)
	}

	wav, err := features.Extract(grid.Timestamps, samples, audio.SampleRate, p.config.SpectralFor(audio.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("spectral extraction failed: %w", err)
	}

	return &TesterArrays{
		Grid:       grid,
		Wav:        wav,
		Extra:      dataset.TesterExtra(grid.TickLengths, grid.SliderLengths),
		SampleRate: audio.SampleRate,
	}, nil
}

// SaveTester writes arrays as an inference archive
func (p *Processor) SaveTester(arrays *TesterArrays, filename string) error {
	g := arrays.Grid
	return asIOError("save", filename, dataset.SaveTester(filename, g.Ticks, g.Timestamps, arrays.Wav, arrays.Extra))
}
