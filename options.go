package stego

import (
	"github.com/yyyoichi/stego_zero/internal/ecc"
)

type Option func(*Stego) error

// WithSentinel sets the byte sequence appended after the payload to mark
// its end. The same sentinel must be used to read the payload back.
// A payload that contains the sentinel is cut at its first occurrence.
func WithSentinel(sentinel []byte) Option {
	return func(s *Stego) error {
		if len(sentinel) == 0 {
			return ErrEmptySentinel
		}
		s.sentinel = append([]byte(nil), sentinel...)
		return nil
	}
}

// WithGolay protects the message with the Golay(23,12) code.
// It needs 23 carrier bytes for every 12 message bits and corrects up to
// 3 flipped LSBs in each of those 23 bytes. Hide and Read must agree on this option.
func WithGolay() Option {
	return func(s *Stego) error {
		s.codec = ecc.Golay{}
		return nil
	}
}
