// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"github.com/sirupsen/logrus"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// GenerateShadowMapArray creates a depth texture array of
// count layers for directional and spot light shadows.
func (g *Graphics) GenerateShadowMapArray(width, height, count int) (Handle, error) {
	return g.newDepthArray(width, height, count, driver.IView2DArray)
}

// GenerateCubeShadowMapArray creates a cube-map depth
// array of count cubes for point light shadows.
func (g *Graphics) GenerateCubeShadowMapArray(width, height, count int) (Handle, error) {
	return g.newDepthArray(width, height, 6*count, driver.IViewCubeArray)
}

func (g *Graphics) newDepthArray(width, height, layers int, typ driver.ViewType) (Handle, error) {
	var reason string
	switch {
	case width < 1 || height < 1:
		reason = "shadow map size not positive"
	case layers < 1:
		reason = "shadow map count not positive"
	default:
		goto validParam
	}
	return Nil, newErr(reason)
validParam:
	tex, err := g.gpu.NewImage(driver.D32Float,
		driver.Dim3D{Width: width, Height: height},
		layers, 1, driver.URenderTarget|driver.UShaderSample)
	if err != nil {
		return Nil, err
	}
	view, err := tex.NewView(typ, 0, layers, 0, 1)
	if err != nil {
		tex.Destroy()
		return Nil, err
	}
	h := g.pool.add(resource{kind: resTexture, img: tex, view: view})
	logger.WithFields(logrus.Fields{"handle": h, "layers": layers}).Debug("rhi: shadow map array created")
	return h, nil
}

// DestroyShadowMap tombstones a shadow map array. The
// handle's pool slot is retained so other handles are
// unaffected.
func (g *Graphics) DestroyShadowMap(h Handle) {
	g.pool.destroy(h)
}

// BeginShadowMap is a hook for hosts that record their own
// shadow passes. The backend does not drive shadow
// rendering itself yet.
func (g *Graphics) BeginShadowMap(light int, shadowMap Handle, layer int) {}

// EndShadowMap is the counterpart of BeginShadowMap.
func (g *Graphics) EndShadowMap(shadowMap Handle, layer int) {}

// SetShadowMaps is a hook for binding the shadow map
// arrays generated above before the lighting pass.
func (g *Graphics) SetShadowMaps() {}
