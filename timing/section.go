package timing

import "fmt"

// Padding is the length of the grid past the end of the track
const Padding = 3000.0

// DefaultMeter is used when a section carries no meter
const DefaultMeter = 4

// Section is one timing point of a beatmap.
// Uninherited sections set the beat length; inherited ones only change slider velocity.
type Section struct {
	Start          float64 `json:"beginTime"`
	TickLength     float64 `json:"tickLength"` // ms per beat, uninherited only
	Inherited      bool    `json:"isInherited"`
	SliderVelocity float64 `json:"sliderVelocity"` // multiplier, 1 for uninherited
	Meter          int     `json:"whiteLines"`     // beats per measure
}

// Velocity returns the slider velocity multiplier, treating an unset value as 1
func (s Section) Velocity() float64 {
	if s.SliderVelocity <= 0 {
		return 1
	}
	return s.SliderVelocity
}

// Beats returns the meter, treating an unset value as DefaultMeter
func (s Section) Beats() int {
	if s.Meter <= 0 {
		return DefaultMeter
	}
	return s.Meter
}

// MalformedError reports timing sections that cannot produce a tick grid
type MalformedError struct {
	Section int
	Reason  string
}

func (e *MalformedError) Error() string {
	if e.Section < 0 {
		return fmt.Sprintf("malformed timing: %s", e.Reason)
	}
	return fmt.Sprintf("malformed timing section %d: %s", e.Section, e.Reason)
}
