// Copyright 2024 MaxJon233. All rights reserved.

package webgpu

import (
	"errors"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// bindEntry is one pending resource binding.
// Exactly one of buf, view and splr is set.
type bindEntry struct {
	buf  *wgpu.Buffer
	off  int64
	size int64
	view *wgpu.TextureView
	splr *wgpu.Sampler
}

// cmdBuffer implements driver.CmdBuffer.
// WebGPU binds resources in immutable groups rather than
// individually, so Set* calls accumulate into a pending
// bind table that is materialized as a bind group on the
// next draw or dispatch.
type cmdBuffer struct {
	gpu *GPU

	enc  *wgpu.CommandEncoder
	rp   *wgpu.RenderPassEncoder
	cp   *wgpu.ComputePassEncoder
	cmd  *wgpu.CommandBuffer
	rec  bool
	fail bool

	rpl *RenderPipeline
	cpl *ComputePipeline

	binds map[int]bindEntry
	dirty bool

	// Transient objects released on Reset, after the GPU
	// is done with the recording.
	bindGroups []*wgpu.BindGroup
	scratch    []*wgpu.Buffer
}

// NewCmdBuffer creates a new command buffer.
func (g *GPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	return &cmdBuffer{
		gpu:   g,
		binds: map[int]bindEntry{},
	}, nil
}

// Begin prepares the command buffer for recording.
func (c *cmdBuffer) Begin() error {
	var reason string
	switch {
	case c.rec:
		reason = "Begin while recording"
	case c.cmd != nil:
		reason = "Begin before execution or reset"
	default:
		goto validParam
	}
	return errors.New(prefix + reason)
validParam:
	enc, err := c.gpu.dev.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	c.enc = enc
	c.rec = true
	c.fail = false
	return nil
}

// IsRecording returns whether the command buffer is
// currently recording.
func (c *cmdBuffer) IsRecording() bool { return c.rec }

// BeginPass begins a render pass.
func (c *cmdBuffer) BeginPass(pass *driver.PassDesc) {
	if !c.rec || c.rp != nil || c.cp != nil {
		c.fail = true
		return
	}
	var colors []wgpu.RenderPassColorAttachment
	if pass.Color != nil {
		colors = []wgpu.RenderPassColorAttachment{{
			View:    pass.Color.(*imageView).view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(pass.ClearColor[0]),
				G: float64(pass.ClearColor[1]),
				B: float64(pass.ClearColor[2]),
				A: float64(pass.ClearColor[3]),
			},
		}}
	}
	var depth *wgpu.RenderPassDepthStencilAttachment
	if pass.Depth != nil {
		depth = &wgpu.RenderPassDepthStencilAttachment{
			View:            pass.Depth.(*imageView).view,
			DepthClearValue: pass.ClearDepth,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		}
	}
	c.rp = c.enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments:       colors,
		DepthStencilAttachment: depth,
	})
	c.dirty = true
}

// EndPass ends the current render pass.
func (c *cmdBuffer) EndPass() {
	if c.rp == nil {
		c.fail = true
		return
	}
	c.rp.End()
	c.rp.Release()
	c.rp = nil
	c.rpl = nil
}

// BeginWork begins compute work.
func (c *cmdBuffer) BeginWork() {
	if !c.rec || c.rp != nil || c.cp != nil {
		c.fail = true
		return
	}
	c.cp = c.enc.BeginComputePass(nil)
	c.dirty = true
}

// EndWork ends the current compute work.
func (c *cmdBuffer) EndWork() {
	if c.cp == nil {
		c.fail = true
		return
	}
	c.cp.End()
	c.cp.Release()
	c.cp = nil
	c.cpl = nil
}

// SetPipeline sets the pipeline.
func (c *cmdBuffer) SetPipeline(pl driver.Pipeline) {
	switch p := pl.(type) {
	case *RenderPipeline:
		if c.rp == nil {
			c.fail = true
			return
		}
		c.rp.SetPipeline(p.P)
		c.rpl = p
	case *ComputePipeline:
		if c.cp == nil {
			c.fail = true
			return
		}
		c.cp.SetPipeline(p.P)
		c.cpl = p
	default:
		c.fail = true
		return
	}
	c.dirty = true
}

// SetDepthStencil is a no-op: depth/stencil state is baked
// into the render pipeline.
func (c *cmdBuffer) SetDepthStencil(ds driver.DepthStencil) {}

// SetCull is a no-op: cull mode is baked into the render
// pipeline.
func (c *cmdBuffer) SetCull(cull driver.CullMode) {}

// SetWinding is a no-op: winding is baked into the render
// pipeline.
func (c *cmdBuffer) SetWinding(wind driver.Winding) {}

// SetTopology is a no-op: topology is baked into the
// render pipeline.
func (c *cmdBuffer) SetTopology(top driver.Topology) {}

// SetVertexBuf sets one or more vertex buffers.
func (c *cmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	if c.rp == nil || len(buf) != len(off) {
		c.fail = true
		return
	}
	for i := range buf {
		b, ok := buf[i].(*buffer)
		if !ok {
			c.fail = true
			return
		}
		c.rp.SetVertexBuffer(uint32(start+i), b.buf, uint64(off[i]), wgpu.WholeSize)
	}
}

// SetIndexBuf sets the index buffer.
func (c *cmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
	b, ok := buf.(*buffer)
	if c.rp == nil || !ok {
		c.fail = true
		return
	}
	c.rp.SetIndexBuffer(b.buf, convIndexFmt(format), uint64(off), wgpu.WholeSize)
}

// SetConstBuf sets a constant buffer range.
func (c *cmdBuffer) SetConstBuf(nr int, buf driver.Buffer, off, size int64) {
	b, ok := buf.(*buffer)
	if !ok {
		c.fail = true
		return
	}
	c.binds[nr] = bindEntry{buf: b.buf, off: off, size: size}
	c.dirty = true
}

// SetBytes sets inline constant data.
// The data is copied into a scratch uniform buffer that
// lives until the command buffer is reset.
func (c *cmdBuffer) SetBytes(nr int, data []byte) {
	size := (int64(len(data)) + 3) &^ 3
	buf, err := c.gpu.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  uint64(size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		c.fail = true
		return
	}
	if int64(len(data)) < size {
		pad := make([]byte, size)
		copy(pad, data)
		data = pad
	}
	c.gpu.queue.WriteBuffer(buf, 0, data)
	c.scratch = append(c.scratch, buf)
	c.binds[nr] = bindEntry{buf: buf, size: size}
	c.dirty = true
}

// SetTexture sets an image view.
func (c *cmdBuffer) SetTexture(nr int, iv driver.ImageView) {
	v, ok := iv.(*imageView)
	if !ok {
		c.fail = true
		return
	}
	c.binds[nr] = bindEntry{view: v.view}
	c.dirty = true
}

// SetSampler sets a sampler.
func (c *cmdBuffer) SetSampler(nr int, splr driver.Sampler) {
	s, ok := splr.(*sampler)
	if !ok {
		c.fail = true
		return
	}
	c.binds[nr] = bindEntry{splr: s.splr}
	c.dirty = true
}

// flushBinds materializes the pending bind table into a
// bind group on the active pass.
func (c *cmdBuffer) flushBinds() bool {
	if !c.dirty {
		return true
	}
	var layout *wgpu.BindGroupLayout
	switch {
	case c.rp != nil && c.rpl != nil:
		layout = c.rpl.P.GetBindGroupLayout(0)
	case c.cp != nil && c.cpl != nil:
		layout = c.cpl.P.GetBindGroupLayout(0)
	default:
		return false
	}
	nrs := make([]int, 0, len(c.binds))
	for nr := range c.binds {
		nrs = append(nrs, nr)
	}
	sort.Ints(nrs)
	entries := make([]wgpu.BindGroupEntry, 0, len(nrs))
	for _, nr := range nrs {
		e := c.binds[nr]
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(nr),
			Buffer:      e.buf,
			Offset:      uint64(e.off),
			Size:        uint64(e.size),
			TextureView: e.view,
			Sampler:     e.splr,
		})
	}
	bg, err := c.gpu.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return false
	}
	c.bindGroups = append(c.bindGroups, bg)
	if c.rp != nil {
		c.rp.SetBindGroup(0, bg, nil)
	} else {
		c.cp.SetBindGroup(0, bg, nil)
	}
	c.dirty = false
	return true
}

// Draw draws primitives.
func (c *cmdBuffer) Draw(vertCnt, instCnt, baseVert, baseInst int) {
	if c.rp == nil || !c.flushBinds() {
		c.fail = true
		return
	}
	c.rp.Draw(uint32(vertCnt), uint32(instCnt), uint32(baseVert), uint32(baseInst))
}

// DrawIndexed draws indexed primitives.
func (c *cmdBuffer) DrawIndexed(idxCnt, instCnt, baseIdx, vertOff, baseInst int) {
	if c.rp == nil || !c.flushBinds() {
		c.fail = true
		return
	}
	c.rp.DrawIndexed(uint32(idxCnt), uint32(instCnt), uint32(baseIdx), int32(vertOff), uint32(baseInst))
}

// Dispatch dispatches compute thread groups.
func (c *cmdBuffer) Dispatch(grpCntX, grpCntY, grpCntZ int) {
	if c.cp == nil || !c.flushBinds() {
		c.fail = true
		return
	}
	c.cp.DispatchWorkgroups(uint32(grpCntX), uint32(grpCntY), uint32(grpCntZ))
}

// Reset discards all recorded commands.
func (c *cmdBuffer) Reset() error {
	if c.rp != nil {
		c.rp.Release()
		c.rp = nil
	}
	if c.cp != nil {
		c.cp.Release()
		c.cp = nil
	}
	if c.enc != nil {
		c.enc.Release()
		c.enc = nil
	}
	if c.cmd != nil {
		c.cmd.Release()
		c.cmd = nil
	}
	for _, bg := range c.bindGroups {
		bg.Release()
	}
	c.bindGroups = c.bindGroups[:0]
	for _, b := range c.scratch {
		b.Release()
	}
	c.scratch = c.scratch[:0]
	clear(c.binds)
	c.rpl = nil
	c.cpl = nil
	c.dirty = false
	c.rec = false
	c.fail = false
	return nil
}

// Destroy releases the command buffer.
func (c *cmdBuffer) Destroy() { c.Reset() }

// End ends command recording.
func (c *cmdBuffer) End() error {
	if !c.rec {
		return errors.New(prefix + "End while not recording")
	}
	c.rec = false
	if c.fail {
		c.Reset()
		return errors.New(prefix + "recording failed")
	}
	cmd, err := c.enc.Finish(nil)
	c.enc.Release()
	c.enc = nil
	if err != nil {
		c.Reset()
		return err
	}
	c.cmd = cmd
	return nil
}
