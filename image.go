package stego

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var ErrUnsupportedChannels = errors.New("unsupported channel count")

// Image is a decoded raster flattened to bytes in row-major,
// channel-interleaved order.
type Image struct {
	// Name identifies the image, usually its file name.
	Name                    string
	Height, Width, Channels int
	Pix                     []byte
}

// NewImage converts src to a 3 channel RGB Image. Alpha is dropped.
func NewImage(name string, src image.Image) Image {
	bounds := src.Bounds()
	img := Image{
		Name:     name,
		Height:   bounds.Dy(),
		Width:    bounds.Dx(),
		Channels: 3,
	}
	img.Pix = make([]byte, img.Height*img.Width*img.Channels)
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			img.Pix[idx] = c.R
			img.Pix[idx+1] = c.G
			img.Pix[idx+2] = c.B
			idx += 3
		}
	}
	return img
}

// Len returns the number of flattened bytes, which is also the number of
// bits the image can carry.
func (i Image) Len() int {
	return len(i.Pix)
}

// Shape returns height, width and channel count.
func (i Image) Shape() [3]int {
	return [3]int{i.Height, i.Width, i.Channels}
}

func (i Image) Clone() Image {
	pix := make([]byte, len(i.Pix))
	copy(pix, i.Pix)
	i.Pix = pix
	return i
}

// Build converts the image back to an image.Image. Supported channel
// counts are 1 (gray), 2 (gray and alpha), 3 (RGB) and 4 (RGBA).
func (i Image) Build() (image.Image, error) {
	if i.Channels < 1 || i.Channels > 4 {
		return nil, fmt.Errorf("%w: %s has %d", ErrUnsupportedChannels, i.Name, i.Channels)
	}
	if want := i.Height * i.Width * i.Channels; len(i.Pix) != want {
		return nil, fmt.Errorf("%s has %d bytes, want %d for shape %v", i.Name, len(i.Pix), want, i.Shape())
	}
	rect := image.Rect(0, 0, i.Width, i.Height)
	switch i.Channels {
	case 1:
		dist := image.NewGray(rect)
		for y := range i.Height {
			copy(dist.Pix[y*dist.Stride:], i.Pix[y*i.Width:(y+1)*i.Width])
		}
		return dist, nil
	case 4:
		dist := image.NewNRGBA(rect)
		for y := range i.Height {
			copy(dist.Pix[y*dist.Stride:], i.Pix[y*i.Width*4:(y+1)*i.Width*4])
		}
		return dist, nil
	}
	dist := image.NewNRGBA(rect)
	idx := 0
	for y := range i.Height {
		row := dist.Pix[y*dist.Stride:]
		for x := range i.Width {
			if i.Channels == 2 {
				row[x*4] = i.Pix[idx]
				row[x*4+1] = i.Pix[idx]
				row[x*4+2] = i.Pix[idx]
				row[x*4+3] = i.Pix[idx+1]
			} else {
				row[x*4] = i.Pix[idx]
				row[x*4+1] = i.Pix[idx+1]
				row[x*4+2] = i.Pix[idx+2]
				row[x*4+3] = 0xff
			}
			idx += i.Channels
		}
	}
	return dist, nil
}

func carriers(images []Image) [][]byte {
	out := make([][]byte, len(images))
	for i := range images {
		out[i] = images[i].Pix
	}
	return out
}
