// Copyright 2024 MaxJon233. All rights reserved.

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// convPixelFmt converts a driver.PixelFmt.
// It returns TextureFormatUndefined for formats the
// backend does not expose.
func convPixelFmt(pf driver.PixelFmt) wgpu.TextureFormat {
	switch pf {
	case driver.R8Unorm:
		return wgpu.TextureFormatR8Unorm
	case driver.RG8Unorm:
		return wgpu.TextureFormatRG8Unorm
	case driver.RGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case driver.BGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case driver.RGBA16Unorm:
		return wgpu.TextureFormat(wgpu.NativeTextureFormatRgba16Unorm)
	case driver.RGBA16Float:
		return wgpu.TextureFormatRGBA16Float
	case driver.RGBA32Uint:
		return wgpu.TextureFormatRGBA32Uint
	case driver.RGBA32Float:
		return wgpu.TextureFormatRGBA32Float
	case driver.BC1RGBA:
		return wgpu.TextureFormatBC1RGBAUnorm
	case driver.BC2RGBA:
		return wgpu.TextureFormatBC2RGBAUnorm
	case driver.BC3RGBA:
		return wgpu.TextureFormatBC3RGBAUnorm
	case driver.D32Float:
		return wgpu.TextureFormatDepth32Float
	}
	return wgpu.TextureFormatUndefined
}

// convViewType converts a driver.ViewType.
func convViewType(typ driver.ViewType) wgpu.TextureViewDimension {
	switch typ {
	case driver.IView2D:
		return wgpu.TextureViewDimension2D
	case driver.IView2DArray:
		return wgpu.TextureViewDimension2DArray
	case driver.IViewCube:
		return wgpu.TextureViewDimensionCube
	case driver.IViewCubeArray:
		return wgpu.TextureViewDimensionCubeArray
	}
	return wgpu.TextureViewDimensionUndefined
}

// convIndexFmt converts a driver.IndexFmt.
func convIndexFmt(format driver.IndexFmt) wgpu.IndexFormat {
	if format == driver.Index32 {
		return wgpu.IndexFormatUint32
	}
	return wgpu.IndexFormatUint16
}

// convFilter converts a driver.Filter.
func convFilter(f driver.Filter) wgpu.FilterMode {
	if f == driver.FLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

// convMipFilter converts a driver.Filter used for mip
// level selection.
func convMipFilter(f driver.Filter) wgpu.MipmapFilterMode {
	if f == driver.FLinear {
		return wgpu.MipmapFilterModeLinear
	}
	return wgpu.MipmapFilterModeNearest
}

// convAddrMode converts a driver.AddrMode.
func convAddrMode(am driver.AddrMode) wgpu.AddressMode {
	switch am {
	case driver.AMirror:
		return wgpu.AddressModeMirrorRepeat
	case driver.AClamp:
		return wgpu.AddressModeClampToEdge
	}
	return wgpu.AddressModeRepeat
}

// convBufferUsage converts driver.Usage flags valid for
// buffers.
func convBufferUsage(usg driver.Usage) wgpu.BufferUsage {
	u := wgpu.BufferUsageCopyDst
	if usg&driver.UVertexData != 0 {
		u |= wgpu.BufferUsageVertex
	}
	if usg&driver.UIndexData != 0 {
		u |= wgpu.BufferUsageIndex
	}
	if usg&driver.UShaderConst != 0 {
		u |= wgpu.BufferUsageUniform
	}
	return u
}

// convTextureUsage converts driver.Usage flags valid for
// images.
func convTextureUsage(usg driver.Usage) wgpu.TextureUsage {
	u := wgpu.TextureUsageCopyDst
	if usg&driver.UShaderSample != 0 {
		u |= wgpu.TextureUsageTextureBinding
	}
	if usg&driver.UShaderWrite != 0 {
		u |= wgpu.TextureUsageStorageBinding
	}
	if usg&driver.URenderTarget != 0 {
		u |= wgpu.TextureUsageRenderAttachment
	}
	return u
}
