// Package picking maps small integer object identities to framebuffer
// colors and back.
//
// A picking pass renders every pickable object in a solid color that
// encodes its id, reads back the pixel under the pointer and decodes it.
// The id is treated as a big-endian unsigned integer split across the
// four channels by their bit widths, red most significant:
//
//	id = r<<(g+b+a) | g<<(b+a) | b<<a | a
//
// Id 0 is reserved for the background.
package picking

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Background is the id decoded where no object was drawn.
const Background uint32 = 0

// ErrUnsupportedFormat is returned by BitsForFormat for formats that
// cannot carry picking ids.
var ErrUnsupportedFormat = errors.New("picking: unsupported framebuffer format")

// Bits holds the bit depth of each color channel.
type Bits struct {
	R, G, B, A uint
}

// Bits8 is the layout of an RGBA8 framebuffer.
var Bits8 = Bits{R: 8, G: 8, B: 8, A: 8}

// Total returns the sum of the channel widths.
func (b Bits) Total() uint {
	return b.R + b.G + b.B + b.A
}

// Valid reports whether every channel has at least one bit and the ids
// fit in 32 bits.
func (b Bits) Valid() bool {
	return b.R > 0 && b.G > 0 && b.B > 0 && b.A > 0 && b.Total() <= 32
}

// Max returns the largest id the layout can represent.
func (b Bits) Max() uint32 {
	return uint32(uint64(1)<<b.Total() - 1)
}

// String implements fmt.Stringer.
func (b Bits) String() string {
	return fmt.Sprintf("R%dG%dB%dA%d", b.R, b.G, b.B, b.A)
}

// BitsForFormat returns the channel widths of a framebuffer format.
func BitsForFormat(f gputypes.TextureFormat) (Bits, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatBGRA8UnormSrgb:
		return Bits8, nil
	case gputypes.TextureFormatRGB10A2Unorm:
		return Bits{R: 10, G: 10, B: 10, A: 2}, nil
	default:
		return Bits{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// Encode splits id across the channels and normalizes each channel to
// [0, 1] by dividing by 2^bits - 1. The result is ready for a vec4
// color uniform.
func Encode(id uint32, bits Bits) [4]float32 {
	r, g, b, a := Split(id, bits)
	return [4]float32{
		normalize(r, bits.R),
		normalize(g, bits.G),
		normalize(b, bits.B),
		normalize(a, bits.A),
	}
}

// Split returns the integer channel values of id.
func Split(id uint32, bits Bits) (r, g, b, a uint32) {
	v := uint64(id)
	r = uint32(v >> (bits.G + bits.B + bits.A))
	v -= uint64(r) << (bits.G + bits.B + bits.A)
	g = uint32(v >> (bits.B + bits.A))
	v -= uint64(g) << (bits.B + bits.A)
	b = uint32(v >> bits.A)
	v -= uint64(b) << bits.A
	a = uint32(v)
	return r, g, b, a
}

// Decode reconstructs an id from integer channel values.
func Decode(r, g, b, a uint32, bits Bits) uint32 {
	return uint32(uint64(r)<<(bits.G+bits.B+bits.A) +
		uint64(g)<<(bits.B+bits.A) +
		uint64(b)<<bits.A +
		uint64(a))
}

// DecodeBytes decodes a pixel read back as one byte per channel.
func DecodeBytes(px [4]byte, bits Bits) uint32 {
	return Decode(uint32(px[0]), uint32(px[1]), uint32(px[2]), uint32(px[3]), bits)
}

func normalize(v uint32, bits uint) float32 {
	return float32(float64(v) / float64(uint64(1)<<bits-1))
}

// Codec binds Encode and Decode to one channel layout.
type Codec struct {
	bits Bits
}

// NewCodec creates a codec for the given layout.
func NewCodec(bits Bits) Codec {
	return Codec{bits: bits}
}

// ForFormat creates a codec for a framebuffer format.
func ForFormat(f gputypes.TextureFormat) (Codec, error) {
	bits, err := BitsForFormat(f)
	if err != nil {
		return Codec{}, err
	}
	return Codec{bits: bits}, nil
}

// Bits returns the channel layout.
func (c Codec) Bits() Bits { return c.bits }

// Encode encodes id as a normalized color.
func (c Codec) Encode(id uint32) [4]float32 { return Encode(id, c.bits) }

// DecodeBytes decodes a byte pixel.
func (c Codec) DecodeBytes(px [4]byte) uint32 { return DecodeBytes(px, c.bits) }
