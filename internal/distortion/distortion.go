package distortion

import (
	"errors"
	"fmt"
	"math"

	stego "github.com/yyyoichi/stego_zero"
	"gonum.org/v1/gonum/floats"
)

var ErrShapeMismatch = errors.New("images differ in shape")

// Report describes how much hiding changed one image.
type Report struct {
	Name    string
	Bytes   int
	Changed int
	// MaxDiff is the largest absolute byte difference. LSB embedding keeps it at most 1.
	MaxDiff float64
	MSE     float64
	// PSNR in dB, +Inf for identical images.
	PSNR float64
}

// Measure compares original against hidden byte by byte.
func Measure(name string, original, hidden []byte) (Report, error) {
	if len(original) != len(hidden) {
		return Report{}, fmt.Errorf("%w: %s has %d bytes, want %d", ErrShapeMismatch, name, len(hidden), len(original))
	}
	r := Report{Name: name, Bytes: len(original)}
	if r.Bytes == 0 {
		r.PSNR = math.Inf(1)
		return r, nil
	}
	a, b := toFloats(original), toFloats(hidden)
	diff := make([]float64, len(a))
	floats.SubTo(diff, b, a)

	r.Changed = floats.Count(func(v float64) bool { return v != 0 }, diff)
	r.MaxDiff = floats.Norm(diff, math.Inf(1))
	l2 := floats.Norm(diff, 2)
	r.MSE = l2 * l2 / float64(r.Bytes)
	if r.MSE == 0 {
		r.PSNR = math.Inf(1)
	} else {
		r.PSNR = 10 * math.Log10(255*255/r.MSE)
	}
	return r, nil
}

// Compare measures each hidden image against the original of the same name.
func Compare(originals, hidden []stego.Image) ([]Report, error) {
	byName := make(map[string]stego.Image, len(originals))
	for _, img := range originals {
		byName[img.Name] = img
	}
	reports := make([]Report, 0, len(hidden))
	for _, h := range hidden {
		o, ok := byName[h.Name]
		if !ok {
			return nil, fmt.Errorf("no original for %s", h.Name)
		}
		if o.Shape() != h.Shape() {
			return nil, fmt.Errorf("%w: %s %v != %v", ErrShapeMismatch, h.Name, h.Shape(), o.Shape())
		}
		r, err := Measure(h.Name, o.Pix, h.Pix)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func toFloats(b []byte) []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		out[i] = float64(v)
	}
	return out
}
