// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"github.com/sirupsen/logrus"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// writeBinding records a shader-writable texture and the
// binding slot compute pipelines expect it at.
type writeBinding struct {
	handle Handle
	slot   int
}

// GenerateWriteTexture creates a texture that compute
// shaders write and later passes sample. The texture is
// rebound at the given slot whenever a compute pipeline is
// bound.
func (g *Graphics) GenerateWriteTexture(width, height, slot int) (Handle, error) {
	var reason string
	switch {
	case width < 1 || height < 1:
		reason = "write texture size not positive"
	case slot < 0:
		reason = "write texture slot negative"
	default:
		goto validParam
	}
	return Nil, newErr(reason)
validParam:
	tex, err := g.gpu.NewImage(driver.RGBA8Unorm,
		driver.Dim3D{Width: width, Height: height},
		1, 1, driver.UShaderWrite|driver.UShaderSample)
	if err != nil {
		return Nil, err
	}
	view, err := tex.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		tex.Destroy()
		return Nil, err
	}
	h := g.pool.add(resource{kind: resTexture, img: tex, view: view})
	g.writes = append(g.writes, writeBinding{handle: h, slot: slot})
	logger.WithFields(logrus.Fields{"handle": h, "slot": slot}).Debug("rhi: write texture created")
	return h, nil
}

// Dispatch records a compute dispatch of width x height x
// depth invocations at 1x1x1 group granularity. It must be
// called inside an open compute pass.
func (g *Graphics) Dispatch(width, height, depth int) error {
	if g.pass != passCompute {
		return newErr("Dispatch without open compute pass")
	}
	var reason string
	switch {
	case width < 1 || height < 1 || depth < 1:
		reason = "dispatch size not positive"
	default:
		goto validParam
	}
	return newErr(reason)
validParam:
	g.ccb.Dispatch(width, height, depth)
	return nil
}
