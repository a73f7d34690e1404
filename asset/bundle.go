// Copyright 2024 MaxJon233. All rights reserved.

// Package asset implements an lz4-backed bundle format for
// shipping GPU image data.
// The bundle is a magic tag followed by a gob-encoded
// index and one individually compressed pixel blob per
// image, in index order, so images can be decoded
// streamwise without a second pass over the file.
package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/MaxJon233/GameEngineFromScratch/rhi"
)

// Bundle format errors.
var (
	ErrFormat  = errors.New("asset: corrupted or not an image bundle")
	ErrVersion = errors.New("asset: unsupported bundle version")
)

var magic = [4]byte{'I', 'B', 'N', '1'}

const version = 1

// maxBlobSize bounds per-image pixel data so a corrupted
// index cannot drive an unbounded allocation.
const maxBlobSize = 1 << 31

// mipEntry mirrors rhi.Mip in the bundle index.
type mipEntry struct {
	Width  int
	Height int
	Offset int
	Pitch  int
	Size   int
}

// indexEntry is the index record of one bundled image.
type indexEntry struct {
	Name           string
	Width          int
	Height         int
	BitCount       int
	Float          bool
	Compressed     bool
	Codec          uint32
	Pitch          int
	Mips           []mipEntry
	Size           int64
	CompressedSize int64
}

// header is the gob-encoded bundle index.
type header struct {
	Version int
	Entries []indexEntry
}

// Builder accumulates images and writes them out as one
// bundle. Pixel data is compressed as it is added.
type Builder struct {
	entries []indexEntry
	blobs   [][]byte
}

// Add appends an image to the bundle under the given name.
// It blocks until compression of the pixel data finishes.
func (b *Builder) Add(name string, img *rhi.Image) error {
	if name == "" {
		return errors.New("asset: empty image name")
	}
	if len(img.Data) == 0 {
		return errors.New("asset: image without pixel data")
	}
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(img.Data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	e := indexEntry{
		Name:           name,
		Width:          img.Width,
		Height:         img.Height,
		BitCount:       img.BitCount,
		Float:          img.Float,
		Compressed:     img.Compressed,
		Codec:          uint32(img.Codec),
		Pitch:          img.Pitch,
		Size:           int64(len(img.Data)),
		CompressedSize: int64(buf.Len()),
	}
	for _, m := range img.Mips {
		e.Mips = append(e.Mips, mipEntry(m))
	}
	b.entries = append(b.entries, e)
	b.blobs = append(b.blobs, buf.Bytes())
	return nil
}

// WriteTo writes the complete bundle to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	var hdr bytes.Buffer
	enc := gob.NewEncoder(&hdr)
	if err := enc.Encode(header{Version: version, Entries: b.entries}); err != nil {
		return 0, err
	}
	var n int64
	m, err := w.Write(magic[:])
	n += int64(m)
	if err != nil {
		return n, err
	}
	var hlen [4]byte
	binary.BigEndian.PutUint32(hlen[:], uint32(hdr.Len()))
	m, err = w.Write(hlen[:])
	n += int64(m)
	if err != nil {
		return n, err
	}
	m, err = w.Write(hdr.Bytes())
	n += int64(m)
	if err != nil {
		return n, err
	}
	for _, blob := range b.blobs {
		m, err = w.Write(blob)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Entry is one decoded image and the name it was bundled
// under.
type Entry struct {
	Name  string
	Image rhi.Image
}

// Read decodes a complete bundle from r, preserving the
// order in which images were added.
func Read(r io.Reader) ([]Entry, error) {
	var mag [4]byte
	if _, err := io.ReadFull(r, mag[:]); err != nil {
		return nil, ErrFormat
	}
	if mag != magic {
		return nil, ErrFormat
	}
	var hlen [4]byte
	if _, err := io.ReadFull(r, hlen[:]); err != nil {
		return nil, ErrFormat
	}
	hraw := make([]byte, binary.BigEndian.Uint32(hlen[:]))
	if _, err := io.ReadFull(r, hraw); err != nil {
		return nil, ErrFormat
	}
	var hdr header
	if err := gob.NewDecoder(bytes.NewReader(hraw)).Decode(&hdr); err != nil {
		return nil, ErrFormat
	}
	if hdr.Version != version {
		return nil, ErrVersion
	}
	entries := make([]Entry, 0, len(hdr.Entries))
	for _, e := range hdr.Entries {
		// The index is untrusted input; every size it
		// carries is checked before it drives an allocation.
		if e.Size <= 0 || e.Size > maxBlobSize ||
			e.CompressedSize <= 0 || e.CompressedSize > maxBlobSize {
			return nil, ErrFormat
		}
		comp := make([]byte, e.CompressedSize)
		if _, err := io.ReadFull(r, comp); err != nil {
			return nil, ErrFormat
		}
		data := make([]byte, e.Size)
		zr := lz4.NewReader(bytes.NewReader(comp))
		if _, err := io.ReadFull(zr, data); err != nil {
			return nil, fmt.Errorf("asset: decompressing %q: %w", e.Name, err)
		}
		img := rhi.Image{
			Width:      e.Width,
			Height:     e.Height,
			BitCount:   e.BitCount,
			Float:      e.Float,
			Compressed: e.Compressed,
			Codec:      rhi.FourCC(e.Codec),
			Pitch:      e.Pitch,
			Data:       data,
		}
		for _, m := range e.Mips {
			img.Mips = append(img.Mips, rhi.Mip(m))
		}
		entries = append(entries, Entry{Name: e.Name, Image: img})
	}
	return entries, nil
}
