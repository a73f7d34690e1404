// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"github.com/sirupsen/logrus"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// Cube-array face group boundaries. The 18 input faces
// split into the base environment cube, its diffuse
// irradiance cube and its prefiltered radiance cube.
const (
	cubeFaceBase     = 0
	cubeFaceIrrad    = 6
	cubeFaceRadiance = 12
	cubeFaceCount    = 18
)

// CreateCubeArray packs 18 cube faces into one cube-array
// texture of two cubes (12 layers).
//
// Faces 0-5 are the environment cube and land in the first
// cube at mip 0; faces 6-11 are its irradiance cube and
// land in the first cube at mip 1. Faces 12-17 carry the
// prefiltered radiance cube, each face with its own full
// mip chain, and land in the second cube.
//
// The array's mip count is that of the radiance chain, but
// never less than the two levels the first cube occupies.
//
// A face set that does not follow this shape is a fatal
// configuration error.
func (g *Graphics) CreateCubeArray(images []Image) (Handle, error) {
	if len(images) != cubeFaceCount {
		logger.WithField("faces", len(images)).Fatalf(rhiPrefix + "cube array requires 18 faces")
		return Nil, newErr("cube array requires 18 faces")
	}
	for f := cubeFaceBase; f < cubeFaceRadiance; f++ {
		if len(images[f].Mips) > 1 {
			logger.WithFields(logrus.Fields{"face": f, "mips": len(images[f].Mips)}).
				Fatalf(rhiPrefix + "base and irradiance faces must be single-level")
			return Nil, newErr("base and irradiance faces must be single-level")
		}
	}
	for f := cubeFaceRadiance; f < cubeFaceCount; f++ {
		if len(images[f].Mips) == 0 {
			logger.WithField("face", f).Fatalf(rhiPrefix + "radiance faces require a mip chain")
			return Nil, newErr("radiance faces require a mip chain")
		}
	}

	pf := mapPixelFmt(&images[0])
	levels := len(images[cubeFaceCount-1].Mips)
	if levels < 2 {
		levels = 2
	}
	dim := driver.Dim3D{Width: images[0].Width, Height: images[0].Height}
	tex, err := g.gpu.NewImage(pf, dim, 12, levels, driver.UShaderSample)
	if err != nil {
		return Nil, err
	}
	fail := func(err error) (Handle, error) {
		tex.Destroy()
		return Nil, err
	}
	for f, img := range images {
		var layer, level int
		switch {
		case f < cubeFaceIrrad:
			layer, level = f, 0
		case f < cubeFaceRadiance:
			layer, level = f-cubeFaceIrrad, 1
		default:
			layer = 6 + (f - cubeFaceRadiance)
		}
		if f < cubeFaceRadiance {
			err := tex.Write(layer, level, driver.Off3D{},
				driver.Dim3D{Width: img.Width, Height: img.Height},
				img.Pitch, img.Data)
			if err != nil {
				return fail(err)
			}
			continue
		}
		for lv, mip := range img.Mips {
			err := tex.Write(layer, lv, driver.Off3D{},
				driver.Dim3D{Width: mip.Width, Height: mip.Height},
				mip.Pitch, img.Data[mip.Offset:mip.Offset+mip.Size])
			if err != nil {
				return fail(err)
			}
		}
	}
	view, err := tex.NewView(driver.IViewCubeArray, 0, 12, 0, levels)
	if err != nil {
		return fail(err)
	}
	h := g.pool.add(resource{kind: resTexture, img: tex, view: view})
	logger.WithFields(logrus.Fields{"handle": h, "levels": levels}).Debug("rhi: cube array created")
	return h, nil
}
