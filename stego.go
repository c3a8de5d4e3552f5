package stego

import (
	"github.com/yyyoichi/stego_zero/internal/bitconv"
	"github.com/yyyoichi/stego_zero/internal/ecc"
	"github.com/yyyoichi/stego_zero/internal/lsb"
)

var (
	ErrInsufficientCapacity = lsb.ErrInsufficientCapacity
	ErrEmptyImageSet        = lsb.ErrEmptyImageSet
	ErrSentinelNotFound     = lsb.ErrSentinelNotFound
	ErrEmptySentinel        = lsb.ErrEmptySentinel
	ErrMalformedBitCount    = bitconv.ErrMalformedBitCount
)

// CapacityError carries the shortfall in bytes and the percentage of the
// message that would fit. It matches ErrInsufficientCapacity with errors.Is.
type CapacityError = lsb.CapacityError

// DefaultSentinel marks the end of the hidden message.
var DefaultSentinel = []byte("<END>")

// Hide hides payload in images with the specified options.
// This is a convenience function that creates a Stego instance and calls its Hide method.
func Hide(images []Image, payload []byte, opts ...Option) ([]Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Hide(images, payload)
}

// Read recovers a payload from images with the specified options.
// This is a convenience function that creates a Stego instance and calls its Read method.
func Read(images []Image, opts ...Option) ([]byte, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Read(images)
}

type Stego struct {
	sentinel []byte
	codec    ecc.Codec
}

// New initializes a Stego. Without options it uses DefaultSentinel and no
// error correction.
func New(opts ...Option) (*Stego, error) {
	s := new(Stego)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Sentinel returns the terminator appended after the payload.
func (s *Stego) Sentinel() []byte {
	return append([]byte(nil), s.sentinel...)
}

// MessageBits returns the number of carrier bits needed to hide a payload
// of payloadLen bytes.
func (s *Stego) MessageBits(payloadLen int) int {
	return s.codec.EncodedLen((payloadLen + len(s.sentinel)) * 8)
}

// Check reports whether images can carry a payload of payloadLen bytes.
// The error is a *CapacityError when they cannot.
func (s *Stego) Check(images []Image, payloadLen int) error {
	return lsb.Enable(lsb.TotalBits(carriers(images)), s.MessageBits(payloadLen))
}

// Hide hides payload in the LSBs of images, in order.
//
// Process:
//  1. Checks the capacity of the whole set before touching anything.
//  2. Appends the sentinel to payload and expands it to bits, MSB first.
//  3. Replaces the LSB of each image byte with the next bit until none remain.
//
// Only the images that received at least one bit are returned, in input
// order, with their shape and name unchanged. images is not modified.
func (s *Stego) Hide(images []Image, payload []byte) ([]Image, error) {
	if len(images) == 0 {
		return nil, ErrEmptyImageSet
	}
	if err := s.Check(images, len(payload)); err != nil {
		return nil, err
	}
	message := make([]byte, 0, len(payload)+len(s.sentinel))
	message = append(message, payload...)
	message = append(message, s.sentinel...)
	bits := s.codec.Encode(bitconv.Pack(message))

	embedded, err := lsb.Embed(carriers(images), bits)
	if err != nil {
		return nil, err
	}
	out := make([]Image, len(embedded))
	for i, e := range embedded {
		out[i] = images[e.Index]
		out[i].Pix = e.Pix
	}
	return out, nil
}

// Read recovers the payload hidden in images. images must be the same
// images, in the same order, as returned by Hide. It fails with
// ErrSentinelNotFound rather than returning a partial payload.
func (s *Stego) Read(images []Image) ([]byte, error) {
	return lsb.Extract(carriers(images), s.sentinel, s.codec)
}

func (s *Stego) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.sentinel == nil {
		s.sentinel = DefaultSentinel
	}
	if s.codec == nil {
		s.codec = ecc.Plain{}
	}
	return nil
}
