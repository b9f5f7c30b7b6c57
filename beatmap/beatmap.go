package beatmap

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"slices"

	"github.com/RyanBlaney/mapdata/timing"
)

// Hit object type bits as written in the .osu format
const (
	TypeCircle   = 1
	TypeSlider   = 2
	TypeNewCombo = 4
	TypeSpinner  = 8
)

// Hitsound addition bits
const (
	HitsoundNormal  = 1
	HitsoundWhistle = 2
	HitsoundFinish  = 4
	HitsoundClap    = 8
)

// Beatmap is the converter's JSON view of one .osu file
type Beatmap struct {
	General    General     `json:"general"`
	Difficulty Difficulty  `json:"diff"`
	Timing     Timing      `json:"timing"`
	Objects    []HitObject `json:"obj"`

	// Path of the source .osu file, set by the converter
	Path string `json:"-"`
}

type General struct {
	AudioFilename string `json:"AudioFilename"`
	Mode          int    `json:"Mode"`
}

type Difficulty struct {
	SliderMultiplier float64 `json:"SliderMultiplier"`
}

// Timing holds the uninherited sections and every section
type Timing struct {
	Uninherited []timing.Section `json:"uts"`
	All         []timing.Section `json:"ts"`
}

// HitObject is one circle, slider or spinner
type HitObject struct {
	Time      float64     `json:"time"`
	Type      int         `json:"type"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Hitsounds int         `json:"hitsounds"`
	EndTime   float64     `json:"endTime,omitempty"` // sliders and spinners
	Slider    *SliderData `json:"sliderData,omitempty"`
}

// SliderData carries the slider path summary
type SliderData struct {
	Repeats     int        `json:"repeats"` // number of slides, 1 for no repeat
	PixelLength float64    `json:"pixelLength"`
	EndPosition [2]float64 `json:"endPosition"`
}

func (o HitObject) IsCircle() bool  { return o.Type&TypeCircle != 0 }
func (o HitObject) IsSlider() bool  { return o.Type&TypeSlider != 0 }
func (o HitObject) IsSpinner() bool { return o.Type&TypeSpinner != 0 }

// EndPosition returns where the cursor leaves the object
func (o HitObject) EndPosition() (float64, float64) {
	if o.IsSlider() && o.Slider != nil {
		// an even number of slides ends back at the head
		if o.Slider.Repeats > 1 && o.Slider.Repeats%2 == 0 {
			return o.X, o.Y
		}
		return o.Slider.EndPosition[0], o.Slider.EndPosition[1]
	}
	return o.X, o.Y
}

// Decode parses converter JSON
func Decode(data []byte) (*Beatmap, error) {
	var bm Beatmap
	if err := json.Unmarshal(data, &bm); err != nil {
		return nil, fmt.Errorf("failed to decode beatmap json: %w", err)
	}
	if len(bm.Timing.All) == 0 {
		bm.Timing.All = slices.Clone(bm.Timing.Uninherited)
	}
	return &bm, nil
}

// AudioPath resolves the audio file against the beatmap's directory
func (b *Beatmap) AudioPath() string {
	if filepath.IsAbs(b.General.AudioFilename) {
		return b.General.AudioFilename
	}
	return filepath.Join(filepath.Dir(b.Path), b.General.AudioFilename)
}

// sectionAt returns the uninherited section governing ms
func (b *Beatmap) sectionAt(ms float64) (timing.Section, bool) {
	return SectionAt(b.Timing.Uninherited, ms)
}

// SectionAt returns the latest section starting at or before ms, or the first one
// when ms precedes every section
func SectionAt(sections []timing.Section, ms float64) (timing.Section, bool) {
	if len(sections) == 0 {
		return timing.Section{}, false
	}
	found := sections[0]
	for _, s := range sections[1:] {
		if s.Start > ms {
			break
		}
		found = s
	}
	return found, true
}

// velocityAt returns the slider velocity multiplier in effect at ms
func (b *Beatmap) velocityAt(ms float64) float64 {
	v := 1.0
	for _, s := range b.Timing.All {
		if s.Start > ms {
			break
		}
		v = s.Velocity()
	}
	return v
}

// EndTime returns when the object finishes. Sliders without a converter supplied end time
// are derived from their pixel length.
func (b *Beatmap) EndTime(o HitObject) float64 {
	if o.EndTime > o.Time {
		return o.EndTime
	}
	if !o.IsSlider() || o.Slider == nil {
		return o.Time
	}

	section, ok := b.sectionAt(o.Time)
	multiplier := b.Difficulty.SliderMultiplier
	if !ok || multiplier <= 0 {
		return o.Time
	}
	repeats := max(o.Slider.Repeats, 1)
	pixelsPerBeat := 100 * multiplier * b.velocityAt(o.Time)
	duration := o.Slider.PixelLength * float64(repeats) / pixelsPerBeat * section.TickLength
	if math.IsNaN(duration) || duration < 0 {
		return o.Time
	}
	return o.Time + duration
}

// Duration returns the end of the last object, the map length used for the tick grid
func (b *Beatmap) Duration() float64 {
	end := 0.0
	for _, o := range b.Objects {
		end = max(end, b.EndTime(o))
	}
	return end
}

// SortedObjects returns the objects ordered by start time, keeping file order for ties
func (b *Beatmap) SortedObjects() []HitObject {
	objs := slices.Clone(b.Objects)
	slices.SortStableFunc(objs, func(x, y HitObject) int {
		switch {
		case x.Time < y.Time:
			return -1
		case x.Time > y.Time:
			return 1
		}
		return 0
	})
	return objs
}
