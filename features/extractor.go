package features

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/RyanBlaney/mapdata/algorithms/common"
	"github.com/RyanBlaney/mapdata/algorithms/spectral"
	"github.com/RyanBlaney/mapdata/algorithms/windowing"
	"github.com/RyanBlaney/mapdata/logging"
)

// Extractor computes spectra sampled around each tick timestamp
type Extractor struct {
	config *Config
	logger logging.Logger
}

// NewExtractor creates an extractor; nil config means DefaultConfig
func NewExtractor(config *Config) *Extractor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Extractor{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "spectral_extractor",
		}),
	}
}

// Extract is shorthand for NewExtractor(config).Extract
func Extract(timestamps, samples []float64, sampleRate int, config *Config) (*Tensor, error) {
	return NewExtractor(config).Extract(timestamps, samples, sampleRate)
}

// Extract builds the [ticks, offsets, 2, bins] tensor for timestamps (ms) over samples, which
// must already be peak normalized. Each offset f samples the audio at t + f*interval, where
// interval is the distance to the next timestamp (the last interval repeats). The result is
// z-scored over the tick axis for every (offset, channel, bin).
func (e *Extractor) Extract(timestamps, samples []float64, sampleRate int) (*Tensor, error) {
	logger := e.logger.WithFields(logging.Fields{
		"function":    "Extract",
		"ticks":       len(timestamps),
		"samples":     len(samples),
		"sample_rate": sampleRate,
	})

	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spectral config: %w", err)
	}
	if len(timestamps) < 2 {
		return nil, &NumericError{Op: "spectral extraction", Reason: fmt.Sprintf("need at least 2 timestamps, got %d", len(timestamps))}
	}
	if len(samples) == 0 {
		return nil, &NumericError{Op: "spectral extraction", Reason: "no samples"}
	}

	lo, hi, err := e.config.BinRange(sampleRate)
	if err != nil {
		return nil, err
	}

	intervals := make([]float64, len(timestamps))
	for i := 0; i < len(timestamps)-1; i++ {
		intervals[i] = timestamps[i+1] - timestamps[i]
	}
	intervals[len(intervals)-1] = intervals[len(intervals)-2]

	tensor := NewTensor(len(timestamps), len(e.config.Offsets), hi-lo)

	logger.Debug("Extracting tick spectra", logging.Fields{
		"offsets":  len(e.config.Offsets),
		"fft_size": e.config.FFTSize,
		"bin_low":  lo,
		"bin_high": hi,
	})

	if err := e.fill(tensor, timestamps, intervals, samples, sampleRate, lo, hi); err != nil {
		logger.Error(err, "Spectral extraction failed")
		return nil, err
	}

	if err := e.normalize(tensor); err != nil {
		return nil, err
	}

	return tensor, nil
}

// fill computes every (tick, offset) spectrum with a bounded worker pool. Workers write
// disjoint regions of the tensor, so the result does not depend on scheduling.
func (e *Extractor) fill(tensor *Tensor, timestamps, intervals, samples []float64, sampleRate, lo, hi int) error {
	size := e.config.FFTSize
	bins := hi - lo
	numWorkers := e.workerCount(len(timestamps))

	jobs := make(chan int, len(timestamps))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			window, err := windowing.New(e.config.Window, size)
			if err == nil && window.GetType() == "rectangular" {
				window = nil
			}
			var analyzer *spectral.FrameAnalyzer
			if err == nil {
				analyzer, err = spectral.NewFrameAnalyzer(size, window)
			}
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}

			for tick := range jobs {
				for o, fraction := range e.config.Offsets {
					frame := sliceAt(timestamps[tick]+intervals[tick]*fraction, samples, sampleRate, size)

					magStart := tensor.Index(tick, o, ChannelMagnitude, 0)
					phaseStart := tensor.Index(tick, o, ChannelPhase, 0)
					err := analyzer.Analyze(frame, lo, hi,
						tensor.Data[magStart:magStart+bins],
						tensor.Data[phaseStart:phaseStart+bins])
					if err != nil {
						errOnce.Do(func() { firstErr = fmt.Errorf("tick %d offset %v: %w", tick, fraction, err) })
					}
				}
			}
		}()
	}

	for tick := range timestamps {
		jobs <- tick
	}
	close(jobs)
	wg.Wait()

	return firstErr
}

// sliceAt returns the fftSize samples around ms. The time is clamped to
// [0, len(samples)-fftSize] before conversion, and the window is clipped to the signal;
// Analyze zero pads whatever is missing at the end.
func sliceAt(ms float64, samples []float64, sampleRate, fftSize int) []float64 {
	ms = common.Clamp(ms, 0, float64(len(samples)-fftSize))
	index := int(math.Floor(ms / 1000 * float64(sampleRate)))

	start := max(0, index-fftSize/2)
	end := min(len(samples), index+fftSize-fftSize/2)
	if start >= end {
		return nil
	}
	return samples[start:end]
}

// normalize z-scores every (offset, channel, bin) column across ticks
func (e *Extractor) normalize(tensor *Tensor) error {
	ticks, offsets, channels, bins := tensor.Shape[0], tensor.Shape[1], tensor.Shape[2], tensor.Shape[3]
	column := make([]float64, ticks)

	for o := range offsets {
		for c := range channels {
			for b := range bins {
				for n := range ticks {
					column[n] = tensor.At(n, o, c, b)
				}

				_, std := common.ZScoreInPlace(column)
				switch {
				case math.IsNaN(std) || math.IsInf(std, 0):
					return &NumericError{
						Op:     "z-score normalization",
						Reason: fmt.Sprintf("non-finite values at offset %d channel %d bin %d", o, c, b),
					}
				case std == 0:
					if e.config.ZeroStd != ZeroStdCenter {
						return &NumericError{
							Op:     "z-score normalization",
							Reason: fmt.Sprintf("zero standard deviation at offset %d channel %d bin %d", o, c, b),
						}
					}
					common.CenterInPlace(column)
				}

				for n := range ticks {
					tensor.Data[tensor.Index(n, o, c, b)] = column[n]
				}
			}
		}
	}
	return nil
}

// workerCount mirrors the STFT worker sizing: small jobs stay small
func (e *Extractor) workerCount(ticks int) int {
	if e.config.Workers > 0 {
		return min(e.config.Workers, ticks)
	}

	numCPU := runtime.NumCPU()
	switch {
	case ticks < 100:
		return max(1, min(numCPU/2, ticks))
	case ticks < 1000:
		return min(numCPU, 8)
	default:
		return numCPU
	}
}
