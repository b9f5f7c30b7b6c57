package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/kshedden/gonpy"
	"golang.org/x/exp/constraints"
)

// Element types of .npy members
const (
	DescrFloat32 = "<f4"
	DescrFloat64 = "<f8"
	DescrInt64   = "<i8"
)

// Array is one decoded .npy member. Values are widened to float64 whatever the stored type.
type Array struct {
	Descr string
	Shape []int
	Data  []float64
}

// Len returns the number of elements implied by the shape
func (a *Array) Len() int {
	return shapeSize(a.Shape)
}

// Rows reshapes a 2-D array into its rows
func (a *Array) Rows() ([][]float64, error) {
	if len(a.Shape) != 2 {
		return nil, fmt.Errorf("array has %d dimensions, want 2", len(a.Shape))
	}
	rows := make([][]float64, a.Shape[0])
	for i := range rows {
		rows[i] = a.Data[i*a.Shape[1] : (i+1)*a.Shape[1]]
	}
	return rows, nil
}

// entryWriter lets gonpy close a zip entry without closing the archive
type entryWriter struct {
	io.Writer
}

func (entryWriter) Close() error { return nil }

// writeNpy writes one C-order .npy stream of float64 or int64 elements
func writeNpy[T float64 | int64](w io.Writer, shape []int, data []T) error {
	if n := shapeSize(shape); n != len(data) {
		return fmt.Errorf("shape %v holds %d elements, got %d", shape, n, len(data))
	}

	npy, err := gonpy.NewWriter(entryWriter{w})
	if err != nil {
		return fmt.Errorf("failed to start npy stream: %w", err)
	}
	npy.Shape = append([]int{}, shape...)

	switch v := any(data).(type) {
	case []float64:
		err = npy.WriteFloat64(v)
	case []int64:
		err = npy.WriteInt64(v)
	}
	if err != nil {
		return fmt.Errorf("failed to write npy payload: %w", err)
	}
	return nil
}

// readNpy decodes a C-order .npy stream of <f4, <f8 or <i8 elements
func readNpy(r io.Reader) (*Array, error) {
	npy, err := gonpy.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read npy header: %w", err)
	}
	if npy.ColumnMajor {
		return nil, fmt.Errorf("only C-order npy arrays are supported")
	}

	arr := &Array{
		Descr: "<" + strings.TrimLeft(npy.Dtype, "<>|="),
		Shape: append([]int{}, npy.Shape...),
	}
	switch arr.Descr {
	case DescrFloat64:
		arr.Data, err = npy.GetFloat64()
	case DescrFloat32:
		var raw []float32
		if raw, err = npy.GetFloat32(); err == nil {
			arr.Data = widen(raw)
		}
	case DescrInt64:
		var raw []int64
		if raw, err = npy.GetInt64(); err == nil {
			arr.Data = widen(raw)
		}
	default:
		return nil, fmt.Errorf("unsupported npy dtype %q", npy.Dtype)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read npy payload: %w", err)
	}
	if arr.Data == nil {
		arr.Data = []float64{}
	}

	return arr, nil
}

// widen converts stored elements to float64
func widen[T constraints.Float | constraints.Integer](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func shapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
