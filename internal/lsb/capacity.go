package lsb

import (
	"errors"
	"fmt"
	"math"
)

var ErrInsufficientCapacity = errors.New("images are too small to hide the message")

// CapacityError reports how far a carrier set is from fitting a message.
type CapacityError struct {
	TotalBits   int
	MessageBits int
	// ShortfallBytes is ceil((MessageBits-TotalBits)/8).
	ShortfallBytes int
	// Percent is the share of the message that fits, rounded to 2 decimals.
	Percent float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: you need %d bytes more, %.2f%% of the message fits",
		ErrInsufficientCapacity, e.ShortfallBytes, e.Percent)
}

func (e *CapacityError) Unwrap() error {
	return ErrInsufficientCapacity
}

// Enable checks that totalBits carrier bits can hold messageBits bits.
// It has no side effects and must run before any carrier byte is changed.
func Enable(totalBits, messageBits int) error {
	if totalBits >= messageBits {
		return nil
	}
	shortfall := messageBits - totalBits
	pct := float64(totalBits) / float64(messageBits) * 100
	return &CapacityError{
		TotalBits:      totalBits,
		MessageBits:    messageBits,
		ShortfallBytes: (shortfall + 7) / 8,
		Percent:        math.Round(pct*100) / 100,
	}
}

// TotalBits returns the number of LSBs available across carriers.
// One bit per byte is usable, so this is the total byte count.
func TotalBits(carriers [][]byte) int {
	var total int
	for _, c := range carriers {
		total += len(c)
	}
	return total
}
