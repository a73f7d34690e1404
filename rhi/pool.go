// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"github.com/sirupsen/logrus"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
	"github.com/MaxJon233/GameEngineFromScratch/internal/bitvec"
)

// Handle is a stable reference to a pooled GPU resource.
// Handles are dense, non-negative and monotonically
// assigned: the K-th successful creation yields handle K-1.
// A handle's pool slot is never reused, even after the
// resource is destroyed.
type Handle int

// Nil is the absent handle.
const Nil Handle = -1

// IsValid returns whether h may refer to a pool entry.
func (h Handle) IsValid() bool { return h >= 0 }

const (
	resBuffer = iota
	resTexture
)

// resource is one pool entry.
// Exactly one of buf and img is set, according to kind.
type resource struct {
	kind int
	buf  driver.Buffer
	img  driver.Image
	view driver.ImageView
}

// resourcePool owns the backend's GPU buffers and textures
// and indexes them by Handle.
// It is append-only: entries are tombstoned on destroy,
// never removed, so outstanding handles stay stable.
// Creation calls must be serialized by the host relative
// to each other and to concurrent frame recording.
type resourcePool struct {
	res []resource
	// One bit per entry; unset means tombstoned.
	live bitvec.V[uint32]
}

// add appends a resource and returns its handle.
func (p *resourcePool) add(r resource) Handle {
	h := Handle(len(p.res))
	p.res = append(p.res, r)
	if int(h) >= p.live.Len() {
		p.live.Grow(1)
	}
	p.live.Set(int(h))
	return h
}

// isLive returns whether h refers to a non-tombstoned
// entry.
func (p *resourcePool) isLive(h Handle) bool {
	return h.IsValid() && int(h) < len(p.res) && p.live.IsSet(int(h))
}

// buffer returns the driver.Buffer identified by h, or
// nil if h does not refer to a live buffer entry.
func (p *resourcePool) buffer(h Handle) driver.Buffer {
	if !p.isLive(h) || p.res[h].kind != resBuffer {
		return nil
	}
	return p.res[h].buf
}

// view returns the driver.ImageView identified by h, or
// nil if h does not refer to a live texture entry.
func (p *resourcePool) view(h Handle) driver.ImageView {
	if !p.isLive(h) || p.res[h].kind != resTexture {
		return nil
	}
	return p.res[h].view
}

// destroy tombstones the texture identified by h and
// destroys its driver resources. The slot itself remains
// allocated so other handles are unaffected.
// Using h after destroy is undefined and must be avoided
// by the caller.
func (p *resourcePool) destroy(h Handle) {
	if !p.isLive(h) {
		logger.WithField("handle", h).Fatalf(rhiPrefix + "destroy of invalid handle")
		return
	}
	r := &p.res[h]
	if r.kind != resTexture {
		logger.WithField("handle", h).Fatalf(rhiPrefix + "destroy of non-texture handle")
		return
	}
	if r.view != nil {
		r.view.Destroy()
	}
	if r.img != nil {
		r.img.Destroy()
	}
	*r = resource{}
	p.live.Unset(int(h))
	logger.Debugf("pool: handle %d tombstoned", h)
}

// free destroys every live entry.
func (p *resourcePool) free() {
	for i := range p.res {
		if !p.live.IsSet(i) {
			continue
		}
		r := &p.res[i]
		switch r.kind {
		case resBuffer:
			r.buf.Destroy()
		case resTexture:
			if r.view != nil {
				r.view.Destroy()
			}
			r.img.Destroy()
		}
		p.res[i] = resource{}
	}
	p.live.Clear()
	p.res = nil
}

// CreateVertexBuffer uploads raw vertex data and returns
// its handle. Allocation failures propagate to the caller;
// the backend does not retry.
func (g *Graphics) CreateVertexBuffer(data []byte) (Handle, error) {
	return g.createBuffer(data, driver.UVertexData)
}

// CreateIndexBuffer uploads raw index data and returns
// its handle.
func (g *Graphics) CreateIndexBuffer(data []byte) (Handle, error) {
	return g.createBuffer(data, driver.UIndexData)
}

func (g *Graphics) createBuffer(data []byte, usg driver.Usage) (Handle, error) {
	if len(data) == 0 {
		return Nil, newErr("empty buffer data")
	}
	buf, err := g.gpu.NewBuffer(int64(len(data)), usg)
	if err != nil {
		return Nil, err
	}
	if err := buf.Write(0, data); err != nil {
		buf.Destroy()
		return Nil, err
	}
	h := g.pool.add(resource{kind: resBuffer, buf: buf})
	logger.WithFields(logrus.Fields{"handle": h, "bytes": len(data)}).Debug("pool: buffer created")
	return h, nil
}

// CreateTexture uploads a host image and returns its
// handle. The image's pixel format is derived from its
// descriptor; unrecognized descriptors are fatal
// configuration errors.
func (g *Graphics) CreateTexture(img *Image) (Handle, error) {
	pf := mapPixelFmt(img)
	levels := 1
	if len(img.Mips) > 0 {
		levels = len(img.Mips)
	}
	tex, err := g.gpu.NewImage(pf, driver.Dim3D{Width: img.Width, Height: img.Height}, 1, levels, driver.UShaderSample)
	if err != nil {
		return Nil, err
	}
	if len(img.Mips) == 0 {
		err = tex.Write(0, 0, driver.Off3D{}, driver.Dim3D{Width: img.Width, Height: img.Height}, img.Pitch, img.Data)
	} else {
		for lv, mip := range img.Mips {
			err = tex.Write(0, lv, driver.Off3D{},
				driver.Dim3D{Width: mip.Width, Height: mip.Height},
				mip.Pitch, img.Data[mip.Offset:mip.Offset+mip.Size])
			if err != nil {
				break
			}
		}
	}
	if err != nil {
		tex.Destroy()
		return Nil, err
	}
	view, err := tex.NewView(driver.IView2D, 0, 1, 0, levels)
	if err != nil {
		tex.Destroy()
		return Nil, err
	}
	h := g.pool.add(resource{kind: resTexture, img: tex, view: view})
	logger.WithFields(logrus.Fields{"handle": h, "width": img.Width, "height": img.Height, "levels": levels}).
		Debug("pool: texture created")
	return h, nil
}
