package picking

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quantize converts a normalized channel back to its integer value the
// way a framebuffer write does.
func quantize(f float32, bits uint) uint32 {
	return uint32(math.Round(float64(f) * float64(uint64(1)<<bits-1)))
}

func TestRoundTripAllSmallLayouts(t *testing.T) {
	for r := uint(1); r <= 3; r++ {
		for g := uint(1); g <= 3; g++ {
			for b := uint(1); b <= 3; b++ {
				for a := uint(1); a <= 3; a++ {
					bits := Bits{R: r, G: g, B: b, A: a}
					for id := uint32(0); id <= bits.Max(); id++ {
						c := Encode(id, bits)
						got := Decode(quantize(c[0], r), quantize(c[1], g), quantize(c[2], b), quantize(c[3], a), bits)
						if got != id {
							t.Fatalf("%v: Decode(Encode(%d)) = %d", bits, id, got)
						}
					}
				}
			}
		}
	}
}

func TestRoundTripRGBA8Bytes(t *testing.T) {
	ids := []uint32{0, 1, 2, 3, 100, 255, 256, 65535, 1 << 24, 0xdeadbeef, math.MaxUint32}
	for _, id := range ids {
		c := Encode(id, Bits8)
		var px [4]byte
		for i := range px {
			px[i] = byte(quantize(c[i], 8))
		}
		assert.Equal(t, id, DecodeBytes(px, Bits8), "id %d", id)
	}
}

func TestEncodeChannelOrder(t *testing.T) {
	// id 2 in RGBA8 lives entirely in the alpha channel.
	c := Encode(2, Bits8)
	assert.Zero(t, c[0])
	assert.Zero(t, c[1])
	assert.Zero(t, c[2])
	assert.InDelta(t, 2.0/255, c[3], 1e-7)

	r, g, b, a := Split(0x01020304, Bits8)
	assert.Equal(t, []uint32{1, 2, 3, 4}, []uint32{r, g, b, a})
}

func TestDecodeFormula(t *testing.T) {
	bits := Bits{R: 5, G: 6, B: 5, A: 1}
	// r*2^(g+b+a) + g*2^(b+a) + b*2^a + a
	want := uint32(3*(1<<12) + 7*(1<<6) + 9*(1<<1) + 1)
	assert.Equal(t, want, Decode(3, 7, 9, 1, bits))
}

func TestBitsForFormat(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   Bits
		err    error
	}{
		{gputypes.TextureFormatRGBA8Unorm, Bits8, nil},
		{gputypes.TextureFormatBGRA8Unorm, Bits8, nil},
		{gputypes.TextureFormatRGB10A2Unorm, Bits{10, 10, 10, 2}, nil},
		{gputypes.TextureFormatR8Unorm, Bits{}, ErrUnsupportedFormat},
		{gputypes.TextureFormatDepth24PlusStencil8, Bits{}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got, err := BitsForFormat(tt.format)
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBitsLimits(t *testing.T) {
	assert.Equal(t, uint32(math.MaxUint32), Bits8.Max())
	assert.True(t, Bits8.Valid())
	assert.False(t, Bits{R: 0, G: 8, B: 8, A: 8}.Valid())
	assert.False(t, Bits{R: 16, G: 16, B: 16, A: 16}.Valid())
	assert.Equal(t, "R10G10B10A2", Bits{10, 10, 10, 2}.String())
}

func TestCodecForFormat(t *testing.T) {
	c, err := ForFormat(gputypes.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	assert.Equal(t, Bits8, c.Bits())
	assert.Equal(t, uint32(5), c.DecodeBytes([4]byte{0, 0, 0, 5}))
	assert.Equal(t, Encode(7, Bits8), c.Encode(7))

	_, err = ForFormat(gputypes.TextureFormatUndefined)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
