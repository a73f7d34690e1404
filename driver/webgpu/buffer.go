// Copyright 2024 MaxJon233. All rights reserved.

package webgpu

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// buffer implements driver.Buffer.
type buffer struct {
	gpu *GPU
	buf *wgpu.Buffer
	cap int64
}

// NewBuffer creates a new buffer.
func (g *GPU) NewBuffer(size int64, usg driver.Usage) (driver.Buffer, error) {
	if size < 1 {
		return nil, errors.New(prefix + "buffer size not positive")
	}
	// WriteBuffer requires 4-byte alignment.
	cap := (size + 3) &^ 3
	buf, err := g.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  uint64(cap),
		Usage: convBufferUsage(usg),
	})
	if err != nil {
		return nil, errors.Join(driver.ErrNoDeviceMemory, err)
	}
	return &buffer{gpu: g, buf: buf, cap: cap}, nil
}

// Cap returns the buffer's capacity in bytes.
func (b *buffer) Cap() int64 { return b.cap }

// Write copies CPU data into the buffer.
// The queue copies data before returning, so the caller
// may reuse it immediately.
func (b *buffer) Write(off int64, data []byte) error {
	if off < 0 || off+int64(len(data)) > b.cap {
		return errors.New(prefix + "buffer write out of bounds")
	}
	if len(data)%4 != 0 {
		pad := make([]byte, (len(data)+3)&^3)
		copy(pad, data)
		data = pad
	}
	b.gpu.queue.WriteBuffer(b.buf, uint64(off), data)
	return nil
}

// Destroy releases the buffer.
func (b *buffer) Destroy() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}
