// Copyright 2024 MaxJon233. All rights reserved.

package webgpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

func TestConvPixelFmt(t *testing.T) {
	for _, tc := range [...]struct {
		pf   driver.PixelFmt
		want wgpu.TextureFormat
	}{
		{driver.R8Unorm, wgpu.TextureFormatR8Unorm},
		{driver.RG8Unorm, wgpu.TextureFormatRG8Unorm},
		{driver.RGBA8Unorm, wgpu.TextureFormatRGBA8Unorm},
		{driver.BGRA8Unorm, wgpu.TextureFormatBGRA8Unorm},
		{driver.RGBA16Float, wgpu.TextureFormatRGBA16Float},
		{driver.RGBA32Uint, wgpu.TextureFormatRGBA32Uint},
		{driver.RGBA32Float, wgpu.TextureFormatRGBA32Float},
		{driver.BC1RGBA, wgpu.TextureFormatBC1RGBAUnorm},
		{driver.BC2RGBA, wgpu.TextureFormatBC2RGBAUnorm},
		{driver.BC3RGBA, wgpu.TextureFormatBC3RGBAUnorm},
		{driver.D32Float, wgpu.TextureFormatDepth32Float},
		{driver.FmtInvalid, wgpu.TextureFormatUndefined},
	} {
		if f := convPixelFmt(tc.pf); f != tc.want {
			t.Fatalf("convPixelFmt(%d):\nhave %v\nwant %v", tc.pf, f, tc.want)
		}
	}
}

func TestConvViewType(t *testing.T) {
	for _, tc := range [...]struct {
		typ  driver.ViewType
		want wgpu.TextureViewDimension
	}{
		{driver.IView2D, wgpu.TextureViewDimension2D},
		{driver.IView2DArray, wgpu.TextureViewDimension2DArray},
		{driver.IViewCube, wgpu.TextureViewDimensionCube},
		{driver.IViewCubeArray, wgpu.TextureViewDimensionCubeArray},
	} {
		if d := convViewType(tc.typ); d != tc.want {
			t.Fatalf("convViewType(%d):\nhave %v\nwant %v", tc.typ, d, tc.want)
		}
	}
}

func TestConvIndexFmt(t *testing.T) {
	if f := convIndexFmt(driver.Index16); f != wgpu.IndexFormatUint16 {
		t.Fatalf("convIndexFmt(Index16):\nhave %v\nwant %v", f, wgpu.IndexFormatUint16)
	}
	if f := convIndexFmt(driver.Index32); f != wgpu.IndexFormatUint32 {
		t.Fatalf("convIndexFmt(Index32):\nhave %v\nwant %v", f, wgpu.IndexFormatUint32)
	}
}

func TestConvUsage(t *testing.T) {
	u := convBufferUsage(driver.UVertexData | driver.UShaderConst)
	if u&wgpu.BufferUsageVertex == 0 || u&wgpu.BufferUsageUniform == 0 || u&wgpu.BufferUsageCopyDst == 0 {
		t.Fatalf("convBufferUsage:\nhave %b\nwant vertex, uniform and copy dst", u)
	}
	if u&wgpu.BufferUsageIndex != 0 {
		t.Fatalf("convBufferUsage:\nhave %b\nwant no index usage", u)
	}
	tu := convTextureUsage(driver.UShaderSample | driver.URenderTarget)
	if tu&wgpu.TextureUsageTextureBinding == 0 || tu&wgpu.TextureUsageRenderAttachment == 0 {
		t.Fatalf("convTextureUsage:\nhave %b\nwant binding and render attachment", tu)
	}
	if tu&wgpu.TextureUsageStorageBinding != 0 {
		t.Fatalf("convTextureUsage:\nhave %b\nwant no storage usage", tu)
	}
}
