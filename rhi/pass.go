// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// BeginRenderPass opens a render pass over the frame's
// target. If no target can be acquired (the window is
// minimized, or no target source was given), the pass is
// recorded as skipped and draw calls within it become
// no-ops; this is not an error.
func (g *Graphics) BeginRenderPass() error {
	var reason string
	switch {
	case !g.frameOpen:
		reason = "BeginRenderPass without open frame"
	case g.pass != passNone:
		reason = "BeginRenderPass with pass already open"
	default:
		goto validParam
	}
	return newErr(reason)
validParam:
	if g.target == nil {
		g.pass = passSkipped
		return nil
	}
	t, ok := g.target.AcquireTarget()
	if !ok {
		logger.Debug("rhi: no render target, skipping pass")
		g.pass = passSkipped
		return nil
	}
	g.slots[g.cur].cb.BeginPass(&driver.PassDesc{
		Color:      t.Color,
		Depth:      t.Depth,
		ClearColor: g.cfg.ClearColor,
		ClearDepth: 1,
	})
	g.pass = passRender
	return nil
}

// EndRenderPass closes the current render pass.
func (g *Graphics) EndRenderPass() error {
	switch g.pass {
	case passRender:
		g.slots[g.cur].cb.EndPass()
	case passSkipped:
	default:
		return newErr("EndRenderPass without open render pass")
	}
	g.pass = passNone
	return nil
}

// BeginComputePass opens a compute pass. Compute work does
// not require an open frame: it records into a fresh
// command buffer and is submitted as soon as the pass ends.
// A committed command buffer cannot be recorded into again
// until its completion is delivered, so the submission owns
// its buffer and the completion loop destroys it.
func (g *Graphics) BeginComputePass() error {
	if g.pass != passNone {
		return newErr("BeginComputePass with pass already open")
	}
	cb, err := g.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	if err := cb.Begin(); err != nil {
		cb.Destroy()
		return err
	}
	cb.BeginWork()
	g.ccb = cb
	g.pass = passCompute
	return nil
}

// EndComputePass closes the current compute pass and
// submits it immediately, without waiting for EndFrame.
func (g *Graphics) EndComputePass() error {
	if g.pass != passCompute {
		return newErr("EndComputePass without open compute pass")
	}
	g.pass = passNone
	cb := g.ccb
	g.ccb = nil
	cb.EndWork()
	if err := cb.End(); err != nil {
		cb.Destroy()
		return err
	}
	wk := &driver.WorkItem{
		Work:   []driver.CmdBuffer{cb},
		Custom: -1,
	}
	if err := g.gpu.Commit(wk, g.done); err != nil {
		cb.Destroy()
		return err
	}
	return nil
}

// curCB returns the command buffer that pass-scoped
// commands record into.
func (g *Graphics) curCB() driver.CmdBuffer {
	if g.pass == passCompute {
		return g.ccb
	}
	return g.slots[g.cur].cb
}

// BindPipeline makes ps the active pipeline state and
// re-establishes the backend's standing bindings: the
// current slot's frame and light constant buffers, the
// default sampler and, when set, the environment textures.
// Pipeline state outside the supported domain is a fatal
// configuration error.
func (g *Graphics) BindPipeline(ps *PipelineState) error {
	switch {
	case ps == nil:
		logger.Fatalf(rhiPrefix + "nil PipelineState")
	case ps.Pipeline == nil:
		logger.Fatalf(rhiPrefix + "PipelineState with nil pipeline")
	case ps.Kind != KindGraphics && ps.Kind != KindCompute:
		logger.WithField("kind", ps.Kind).Fatalf(rhiPrefix + "unrecognized pipeline kind")
	case ps.Cull < CullNone || ps.Cull > CullBack:
		logger.WithField("cull", ps.Cull).Fatalf(rhiPrefix + "unrecognized cull face")
	}
	switch g.pass {
	case passSkipped:
		return nil
	case passNone:
		return newErr("BindPipeline without open pass")
	case passRender:
		if ps.Kind != KindGraphics {
			return newErr("compute pipeline in render pass")
		}
	case passCompute:
		if ps.Kind != KindCompute {
			return newErr("graphics pipeline in compute pass")
		}
	}
	cb := g.curCB()
	cb.SetPipeline(ps.Pipeline)
	if ps.Kind == KindGraphics {
		var cull driver.CullMode
		switch ps.Cull {
		case CullFront:
			cull = driver.CFront
		case CullBack:
			cull = driver.CBack
		default:
			cull = driver.CNone
		}
		cb.SetCull(cull)
		cb.SetWinding(driver.WCounterCW)
		if ps.DepthStencil != nil {
			cb.SetDepthStencil(ps.DepthStencil)
		}
	}
	s := &g.slots[g.cur]
	cb.SetConstBuf(bindFrameConst, s.frameBuf, 0, g.cfg.PerFrameSize)
	cb.SetConstBuf(bindLightInfo, s.lightBuf, 0, g.cfg.LightInfoSize)
	cb.SetSampler(splrDefault, g.splr)
	if iv := g.pool.view(g.skybox); iv != nil {
		cb.SetTexture(texSkybox, iv)
	}
	if iv := g.pool.view(g.brdfLUT); iv != nil {
		cb.SetTexture(texBRDFLUT, iv)
	}
	if ps.Kind == KindCompute {
		for _, w := range g.writes {
			if iv := g.pool.view(w.handle); iv != nil {
				cb.SetTexture(w.slot, iv)
			}
		}
	}
	return nil
}

// SetSkybox selects the cube-array texture bound as the
// environment map whenever a pipeline is bound. Nil
// clears it.
func (g *Graphics) SetSkybox(h Handle) { g.skybox = h }

// SetBRDFLUT selects the texture bound as the BRDF lookup
// table whenever a pipeline is bound. Nil clears it.
func (g *Graphics) SetBRDFLUT(h Handle) { g.brdfLUT = h }
