package features

// Channels stored per bin
const (
	ChannelMagnitude = 0
	ChannelPhase     = 1
	NumChannels      = 2
)

// Tensor is the spectral feature block of one beatmap, shape [ticks, offsets, channels, bins]
// stored row-major in Data
type Tensor struct {
	Data  []float64
	Shape [4]int
}

// NewTensor allocates a zeroed tensor
func NewTensor(ticks, offsets, bins int) *Tensor {
	return &Tensor{
		Data:  make([]float64, ticks*offsets*NumChannels*bins),
		Shape: [4]int{ticks, offsets, NumChannels, bins},
	}
}

// Index returns the flat position of (tick, offset, channel, bin)
func (t *Tensor) Index(tick, offset, channel, bin int) int {
	return ((tick*t.Shape[1]+offset)*t.Shape[2]+channel)*t.Shape[3] + bin
}

// At returns one element
func (t *Tensor) At(tick, offset, channel, bin int) float64 {
	return t.Data[t.Index(tick, offset, channel, bin)]
}

// Ticks returns the length of the tick axis
func (t *Tensor) Ticks() int {
	return t.Shape[0]
}

// Bins returns the length of the frequency axis
func (t *Tensor) Bins() int {
	return t.Shape[3]
}

// Dims returns the shape as a slice, for serialization
func (t *Tensor) Dims() []int {
	return t.Shape[:]
}
