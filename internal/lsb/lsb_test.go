package lsb

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/stego_zero/internal/bitconv"
	"github.com/yyyoichi/stego_zero/internal/ecc"
)

var sentinel = []byte("<END>")

func newCarrier(n int, seed byte) []byte {
	c := make([]byte, n)
	for i := range c {
		c[i] = byte(i*7) + seed
	}
	return c
}

func messageBits(payload []byte) bitconv.Bits {
	return bitconv.Pack(append(slices.Clone(payload), sentinel...))
}

func pixOf(embedded []Embedded) [][]byte {
	out := make([][]byte, len(embedded))
	for i, e := range embedded {
		out[i] = e.Pix
	}
	return out
}

func TestEnable(t *testing.T) {
	test := []struct {
		name        string
		total, msg  int
		wantErr     bool
		wantShort   int
		wantPercent float64
	}{
		{name: "plenty", total: 800, msg: 80},
		{name: "exact", total: 80, msg: 80},
		{name: "short by one bit", total: 79, msg: 80, wantErr: true, wantShort: 1, wantPercent: 98.75},
		{name: "short by one byte", total: 72, msg: 80, wantErr: true, wantShort: 1, wantPercent: 90},
		{name: "short by nine bits", total: 71, msg: 80, wantErr: true, wantShort: 2, wantPercent: 88.75},
		{name: "third", total: 1, msg: 3, wantErr: true, wantShort: 1, wantPercent: 33.33},
		{name: "nothing", total: 0, msg: 16, wantErr: true, wantShort: 2, wantPercent: 0},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			err := Enable(tt.total, tt.msg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInsufficientCapacity)
			var ce *CapacityError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.wantShort, ce.ShortfallBytes)
			assert.Equal(t, tt.wantPercent, ce.Percent)
			assert.Equal(t, tt.total, ce.TotalBits)
			assert.Equal(t, tt.msg, ce.MessageBits)
		})
	}
	assert.Equal(t, 30, TotalBits([][]byte{make([]byte, 10), nil, make([]byte, 20)}))
}

func TestEmbed(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		_, err := Embed(nil, messageBits([]byte("x")))
		assert.ErrorIs(t, err, ErrEmptyImageSet)
	})

	t.Run("single carrier", func(t *testing.T) {
		// 100 bytes of capacity, 5 byte payload + 5 byte sentinel = 80 bits
		orig := newCarrier(100, 1)
		carriers := [][]byte{slices.Clone(orig), newCarrier(50, 2)}
		bits := messageBits([]byte("hello"))
		require.NoError(t, Enable(TotalBits(carriers), bits.Len()))

		embedded, err := Embed(carriers, bits)
		require.NoError(t, err)
		require.Len(t, embedded, 1)
		assert.Equal(t, 0, embedded[0].Index)
		assert.Equal(t, orig, carriers[0], "input must not be modified")

		got := embedded[0].Pix
		require.Len(t, got, len(orig))
		for i := range got {
			if i < bits.Len() {
				assert.Equal(t, bits.At(i), got[i]&0x01, "bit %d", i)
				assert.Equal(t, orig[i]&0xFE, got[i]&0xFE, "byte %d", i)
			} else {
				assert.Equal(t, orig[i], got[i], "byte %d", i)
			}
		}
	})

	t.Run("spans carriers", func(t *testing.T) {
		// A holds 40 bits, B the remaining 40 of 80, C is never reached
		a, b, c := newCarrier(40, 3), newCarrier(60, 4), newCarrier(30, 5)
		bits := messageBits([]byte("hello"))
		embedded, err := Embed([][]byte{a, b, c}, bits)
		require.NoError(t, err)
		require.Len(t, embedded, 2)
		assert.Equal(t, 0, embedded[0].Index)
		assert.Equal(t, 1, embedded[1].Index)
		for i := range 40 {
			assert.Equal(t, bits.At(i), embedded[0].Pix[i]&0x01)
			assert.Equal(t, bits.At(40+i), embedded[1].Pix[i]&0x01)
		}
		assert.Equal(t, b[40:], embedded[1].Pix[40:])
	})

	t.Run("exact capacity touches all", func(t *testing.T) {
		bits := messageBits([]byte("hello"))
		carriers := [][]byte{newCarrier(30, 1), newCarrier(20, 2), newCarrier(30, 3)}
		require.Equal(t, bits.Len(), TotalBits(carriers))
		require.NoError(t, Enable(TotalBits(carriers), bits.Len()))
		embedded, err := Embed(carriers, bits)
		require.NoError(t, err)
		assert.Len(t, embedded, 3)
	})

	t.Run("skips empty carriers", func(t *testing.T) {
		bits := messageBits([]byte("hi"))
		embedded, err := Embed([][]byte{{}, newCarrier(30, 1), nil, newCarrier(30, 2)}, bits)
		require.NoError(t, err)
		require.Len(t, embedded, 2)
		assert.Equal(t, 1, embedded[0].Index)
		assert.Equal(t, 3, embedded[1].Index)
	})
}

func TestExtract(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, payload := range [][]byte{
			[]byte("hello"),
			{},
			{0x00, 0xff, 0x3c, '<', 'E', 'N', 'D'},
			[]byte("こんにちは, a longer payload that spans several carriers"),
		} {
			carriers := [][]byte{newCarrier(64, 1), newCarrier(33, 2), newCarrier(1000, 3)}
			bits := messageBits(payload)
			require.NoError(t, Enable(TotalBits(carriers), bits.Len()))
			embedded, err := Embed(carriers, bits)
			require.NoError(t, err)
			got, err := Extract(pixOf(embedded), sentinel, ecc.Plain{})
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		}
	})

	t.Run("truncation and order", func(t *testing.T) {
		a, b, c := newCarrier(48, 3), newCarrier(64, 4), newCarrier(64, 5)
		payload := []byte("hello")
		embedded, err := Embed([][]byte{a, b, c}, messageBits(payload))
		require.NoError(t, err)
		require.Len(t, embedded, 2)
		encA, encB := embedded[0].Pix, embedded[1].Pix

		got, err := Extract([][]byte{encA, encB}, sentinel, ecc.Plain{})
		require.NoError(t, err)
		assert.Equal(t, payload, got)

		// trailing untouched carriers do not matter
		got, err = Extract([][]byte{encA, encB, c}, sentinel, ecc.Plain{})
		require.NoError(t, err)
		assert.Equal(t, payload, got)

		_, err = Extract([][]byte{encA}, sentinel, ecc.Plain{})
		assert.ErrorIs(t, err, ErrSentinelNotFound)

		got, err = Extract([][]byte{encB, encA}, sentinel, ecc.Plain{})
		if err == nil {
			assert.NotEqual(t, payload, got)
		}
	})

	t.Run("no sentinel", func(t *testing.T) {
		carriers := [][]byte{make([]byte, 200)}
		_, err := Extract(carriers, sentinel, ecc.Plain{})
		assert.ErrorIs(t, err, ErrSentinelNotFound)
		_, err = Extract(nil, sentinel, ecc.Plain{})
		assert.ErrorIs(t, err, ErrSentinelNotFound)
	})

	t.Run("empty sentinel", func(t *testing.T) {
		_, err := Extract([][]byte{make([]byte, 8)}, nil, ecc.Plain{})
		assert.ErrorIs(t, err, ErrEmptySentinel)
	})

	t.Run("sentinel inside payload stops early", func(t *testing.T) {
		// The decoder cannot tell an embedded "<END>" from the terminator.
		payload := []byte("before<END>after")
		bits := messageBits(payload)
		embedded, err := Embed([][]byte{newCarrier(bits.Len(), 9)}, bits)
		require.NoError(t, err)
		got, err := Extract(pixOf(embedded), sentinel, ecc.Plain{})
		require.NoError(t, err)
		assert.Equal(t, []byte("before"), got)
	})

	t.Run("golay", func(t *testing.T) {
		var codec ecc.Golay
		payload := []byte("protected")
		bits := codec.Encode(messageBits(payload))
		carriers := [][]byte{newCarrier(100, 1), newCarrier(bits.Len(), 2)}
		require.NoError(t, Enable(TotalBits(carriers), codec.EncodedLen(messageBits(payload).Len())))
		embedded, err := Embed(carriers, bits)
		require.NoError(t, err)

		pix := pixOf(embedded)
		// one flipped LSB in the first codeword, three in the second
		pix[0][5] ^= 0x01
		pix[0][23+1] ^= 0x01
		pix[0][23+10] ^= 0x01
		pix[0][23+20] ^= 0x01
		got, err := Extract(pix, sentinel, codec)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator([]byte("ab"))
	assert.False(t, acc.EndsWithSentinel())
	acc.AppendByte('a')
	assert.False(t, acc.EndsWithSentinel())
	acc.AppendByte('x')
	acc.AppendByte('a')
	assert.False(t, acc.EndsWithSentinel())
	acc.AppendByte('b')
	assert.True(t, acc.EndsWithSentinel())
	assert.Equal(t, 4, acc.Len())
	assert.Equal(t, []byte("ax"), acc.Message())
}
