// Copyright 2024 MaxJon233. All rights reserved.

package rhi

// FourCC is a four-byte codec tag, stored little-endian
// so that e.g. "DXT1" reads naturally in a hex dump.
type FourCC uint32

// MakeFourCC assembles a FourCC from its four characters.
func MakeFourCC(a, b, c, d byte) FourCC {
	return FourCC(a) | FourCC(b)<<8 | FourCC(c)<<16 | FourCC(d)<<24
}

// String returns the four characters of the tag.
func (f FourCC) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// Recognized compression codecs.
var (
	CodecDXT1 = MakeFourCC('D', 'X', 'T', '1')
	CodecDXT3 = MakeFourCC('D', 'X', 'T', '3')
	CodecDXT5 = MakeFourCC('D', 'X', 'T', '5')
)

// Mip describes one level of an image's mip chain.
// Offset and Size address into the owning Image's Data.
type Mip struct {
	Width  int
	Height int
	Offset int
	Pitch  int
	Size   int
}

// Image is host-supplied pixel data plus the metadata the
// backend needs to realize it on the GPU.
// Images are immutable once passed in; the backend only
// reads them during upload.
type Image struct {
	Width      int
	Height     int
	BitCount   int
	Float      bool
	Compressed bool
	Codec      FourCC
	// Pitch is the row pitch in bytes of the base level.
	// Zero means tightly packed.
	Pitch int
	Data  []byte
	// Mips, if non-empty, describes the full mip chain
	// in order, level 0 first.
	Mips []Mip
}
