// Copyright 2024 MaxJon233. All rights reserved.

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderPipeline wraps a compiled wgpu render pipeline so
// collaborators that build pipelines can hand them to the
// command recorder through the driver interfaces.
// Cull mode, winding, topology and depth state are baked
// into the wgpu pipeline at build time, so the recorder's
// corresponding Set calls are no-ops for this driver.
type RenderPipeline struct {
	P *wgpu.RenderPipeline
}

// Destroy releases the pipeline.
func (p *RenderPipeline) Destroy() {
	if p.P != nil {
		p.P.Release()
		p.P = nil
	}
}

// ComputePipeline wraps a compiled wgpu compute pipeline.
type ComputePipeline struct {
	P *wgpu.ComputePipeline
}

// Destroy releases the pipeline.
func (p *ComputePipeline) Destroy() {
	if p.P != nil {
		p.P.Release()
		p.P = nil
	}
}

// DepthStencil is a placeholder depth/stencil state object.
// WebGPU bakes depth state into the render pipeline, so
// this type carries no data.
type DepthStencil struct{}

// Destroy implements driver.Destroyer.
func (*DepthStencil) Destroy() {}
