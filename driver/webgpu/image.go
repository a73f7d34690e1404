// Copyright 2024 MaxJon233. All rights reserved.

package webgpu

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// image implements driver.Image.
type image struct {
	gpu    *GPU
	tex    *wgpu.Texture
	pf     driver.PixelFmt
	format wgpu.TextureFormat
	size   driver.Dim3D
	layers int
	levels int
}

// imageView implements driver.ImageView.
type imageView struct {
	img  *image
	view *wgpu.TextureView
}

// NewImage creates a new image.
// Images are always 2D, possibly layered; depth values
// other than 0 or 1 are rejected.
func (g *GPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels int, usg driver.Usage) (driver.Image, error) {
	var reason string
	switch {
	case size.Width < 1 || size.Height < 1:
		reason = "image size not positive"
	case size.Depth > 1:
		reason = "3D images not supported"
	case layers < 1:
		reason = "image layer count not positive"
	case levels < 1:
		reason = "image level count not positive"
	default:
		goto validParam
	}
	return nil, errors.New(prefix + reason)
validParam:
	format := convPixelFmt(pf)
	if format == wgpu.TextureFormatUndefined {
		return nil, errors.New(prefix + "unsupported pixel format")
	}
	tex, err := g.dev.CreateTexture(&wgpu.TextureDescriptor{
		Size: wgpu.Extent3D{
			Width:              uint32(size.Width),
			Height:             uint32(size.Height),
			DepthOrArrayLayers: uint32(layers),
		},
		MipLevelCount: uint32(levels),
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         convTextureUsage(usg),
	})
	if err != nil {
		return nil, errors.Join(driver.ErrNoDeviceMemory, err)
	}
	return &image{
		gpu:    g,
		tex:    tex,
		pf:     pf,
		format: format,
		size:   size,
		layers: layers,
		levels: levels,
	}, nil
}

// Write copies CPU pixel data into one mip level of one
// layer.
func (t *image) Write(layer, level int, off driver.Off3D, size driver.Dim3D, rowPitch int, data []byte) error {
	var reason string
	switch {
	case layer < 0 || layer >= t.layers:
		reason = "layer out of bounds"
	case level < 0 || level >= t.levels:
		reason = "level out of bounds"
	case size.Width < 1 || size.Height < 1:
		reason = "write size not positive"
	case len(data) == 0:
		reason = "empty pixel data"
	default:
		goto validParam
	}
	return errors.New(prefix + reason)
validParam:
	pitch, rows := t.layout(size, rowPitch)
	t.gpu.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: uint32(level),
			Origin: wgpu.Origin3D{
				X: uint32(off.X),
				Y: uint32(off.Y),
				Z: uint32(layer),
			},
			Aspect: wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(pitch),
			RowsPerImage: uint32(rows),
		},
		&wgpu.Extent3D{
			Width:              uint32(size.Width),
			Height:             uint32(size.Height),
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// layout computes the byte pitch of one row and the row
// count of the copy, accounting for block compression.
func (t *image) layout(size driver.Dim3D, rowPitch int) (pitch, rows int) {
	if t.pf.IsCompressed() {
		blocks := (size.Width + 3) / 4
		pitch = blocks * t.pf.Size()
		rows = (size.Height + 3) / 4
	} else {
		pitch = size.Width * t.pf.Size()
		rows = size.Height
	}
	if rowPitch > 0 {
		pitch = rowPitch
	}
	return pitch, rows
}

// NewView creates a new image view.
func (t *image) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	var reason string
	switch {
	case layer < 0 || layers < 1 || layer+layers > t.layers:
		reason = "view layer range out of bounds"
	case level < 0 || levels < 1 || level+levels > t.levels:
		reason = "view level range out of bounds"
	case (typ == driver.IViewCube || typ == driver.IViewCubeArray) && layers%6 != 0:
		reason = "cube view layer count not a multiple of six"
	default:
		goto validParam
	}
	return nil, errors.New(prefix + reason)
validParam:
	dim := convViewType(typ)
	if dim == wgpu.TextureViewDimensionUndefined {
		return nil, errors.New(prefix + "unsupported view type")
	}
	view, err := t.tex.CreateView(&wgpu.TextureViewDescriptor{
		Format:          t.format,
		Dimension:       dim,
		BaseMipLevel:    uint32(level),
		MipLevelCount:   uint32(levels),
		BaseArrayLayer:  uint32(layer),
		ArrayLayerCount: uint32(layers),
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		return nil, err
	}
	return &imageView{img: t, view: view}, nil
}

// Destroy releases the image.
// Views created from it must have been destroyed already.
func (t *image) Destroy() {
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// Image returns the image the view was created from.
func (v *imageView) Image() driver.Image { return v.img }

// Destroy releases the view.
func (v *imageView) Destroy() {
	if v.view != nil {
		v.view.Release()
		v.view = nil
	}
}

// sampler implements driver.Sampler.
type sampler struct {
	splr *wgpu.Sampler
}

// NewSampler creates a new sampler.
func (g *GPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	if spln == nil {
		return nil, errors.New(prefix + "nil Sampling")
	}
	aniso := spln.MaxAniso
	if aniso < 1 {
		aniso = 1
	}
	splr, err := g.dev.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  convAddrMode(spln.AddrU),
		AddressModeV:  convAddrMode(spln.AddrV),
		AddressModeW:  convAddrMode(spln.AddrW),
		MagFilter:     convFilter(spln.Mag),
		MinFilter:     convFilter(spln.Min),
		MipmapFilter:  convMipFilter(spln.Mipmap),
		LodMinClamp:   spln.MinLOD,
		LodMaxClamp:   spln.MaxLOD,
		MaxAnisotropy: uint16(aniso),
	})
	if err != nil {
		return nil, err
	}
	return &sampler{splr: splr}, nil
}

// Destroy releases the sampler.
func (s *sampler) Destroy() {
	if s.splr != nil {
		s.splr.Release()
		s.splr = nil
	}
}
