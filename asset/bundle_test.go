// Copyright 2024 MaxJon233. All rights reserved.

package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"testing"

	"github.com/MaxJon233/GameEngineFromScratch/rhi"
)

func TestBundleRoundtrip(t *testing.T) {
	base := rhi.Image{
		Width:    4,
		Height:   4,
		BitCount: 32,
		Pitch:    16,
		Data:     bytes.Repeat([]byte{0xab, 0xcd, 0x12, 0x34}, 16),
	}
	mipped := rhi.Image{
		Width:      8,
		Height:     8,
		Compressed: true,
		Codec:      rhi.CodecDXT5,
		Data:       bytes.Repeat([]byte{7}, 16+16),
		Mips: []rhi.Mip{
			{Width: 8, Height: 8, Offset: 0, Size: 16},
			{Width: 4, Height: 4, Offset: 16, Size: 16},
		},
	}
	var b Builder
	if err := b.Add("albedo", &base); err != nil {
		t.Fatalf("Add failed:\nhave %v\nwant nil", err)
	}
	if err := b.Add("env", &mipped); err != nil {
		t.Fatalf("Add failed:\nhave %v\nwant nil", err)
	}
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed:\nhave %v\nwant nil", err)
	}
	entries, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed:\nhave %v\nwant nil", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries:\nhave %d\nwant 2", len(entries))
	}
	if entries[0].Name != "albedo" || entries[1].Name != "env" {
		t.Fatalf("names:\nhave %q, %q\nwant albedo, env", entries[0].Name, entries[1].Name)
	}
	got := entries[0].Image
	if got.Width != 4 || got.Height != 4 || got.BitCount != 32 || got.Pitch != 16 {
		t.Fatalf("metadata:\nhave %+v\nwant %+v", got, base)
	}
	if !bytes.Equal(got.Data, base.Data) {
		t.Fatal("pixel data did not survive the roundtrip")
	}
	env := entries[1].Image
	if !env.Compressed || env.Codec != rhi.CodecDXT5 {
		t.Fatalf("codec:\nhave %v/%v\nwant compressed DXT5", env.Compressed, env.Codec)
	}
	if len(env.Mips) != 2 || env.Mips[1].Offset != 16 {
		t.Fatalf("mips:\nhave %+v\nwant two levels at offsets 0 and 16", env.Mips)
	}
	if !bytes.Equal(env.Data, mipped.Data) {
		t.Fatal("mipped pixel data did not survive the roundtrip")
	}
}

func TestBundleAddValidation(t *testing.T) {
	var b Builder
	if err := b.Add("", &rhi.Image{Data: []byte{1}}); err == nil {
		t.Fatal("empty name accepted")
	}
	if err := b.Add("x", &rhi.Image{}); err == nil {
		t.Fatal("empty pixel data accepted")
	}
}

func TestBundleBadInput(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short magic", []byte("IB")},
		{"wrong magic", []byte("KAR\x00aaaaaaaa")},
		{"truncated header", append([]byte("IBN1"), 0, 0, 1, 0)},
	} {
		if _, err := Read(bytes.NewReader(tc.data)); !errors.Is(err, ErrFormat) {
			t.Fatalf("Read(%s):\nhave %v\nwant %v", tc.name, err, ErrFormat)
		}
	}
}

func TestBundleCorruptIndex(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		e    indexEntry
	}{
		{"negative size", indexEntry{Name: "x", Size: -1, CompressedSize: 4}},
		{"zero size", indexEntry{Name: "x", Size: 0, CompressedSize: 4}},
		{"negative compressed size", indexEntry{Name: "x", Size: 4, CompressedSize: -1}},
		{"oversize", indexEntry{Name: "x", Size: maxBlobSize + 1, CompressedSize: 4}},
		{"oversize compressed", indexEntry{Name: "x", Size: 4, CompressedSize: maxBlobSize + 1}},
	} {
		var hdr bytes.Buffer
		if err := gob.NewEncoder(&hdr).Encode(header{Version: version, Entries: []indexEntry{tc.e}}); err != nil {
			t.Fatalf("encoding index (%s) failed: %v", tc.name, err)
		}
		var buf bytes.Buffer
		buf.Write(magic[:])
		var hlen [4]byte
		binary.BigEndian.PutUint32(hlen[:], uint32(hdr.Len()))
		buf.Write(hlen[:])
		buf.Write(hdr.Bytes())
		buf.Write(make([]byte, 8))
		if _, err := Read(&buf); !errors.Is(err, ErrFormat) {
			t.Fatalf("Read(%s):\nhave %v\nwant %v", tc.name, err, ErrFormat)
		}
	}
}
