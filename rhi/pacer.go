// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// frameSlot is the per-frame storage of one in-flight
// frame. The backend cycles through its slots round-robin;
// a slot is rewritten only after the GPU reports the slot's
// previous frame complete.
type frameSlot struct {
	frameBuf driver.Buffer
	lightBuf driver.Buffer
	cb       driver.CmdBuffer
	wk       *driver.WorkItem
	// Resources created mid-frame that must outlive the
	// GPU's use of this slot's command buffer.
	retire []driver.Destroyer
}

func (s *frameSlot) free() {
	for _, d := range s.retire {
		d.Destroy()
	}
	s.retire = nil
	if s.cb != nil {
		s.cb.Destroy()
		s.cb = nil
	}
	if s.lightBuf != nil {
		s.lightBuf.Destroy()
		s.lightBuf = nil
	}
	if s.frameBuf != nil {
		s.frameBuf.Destroy()
		s.frameBuf = nil
	}
}

// makeSlots creates cfg.InFlightFrames frame slots, each
// with its own constant buffers and command buffer.
func (g *Graphics) makeSlots() error {
	g.slots = make([]frameSlot, g.cfg.InFlightFrames)
	for i := range g.slots {
		s := &g.slots[i]
		var err error
		if s.frameBuf, err = g.gpu.NewBuffer(g.cfg.PerFrameSize, driver.UShaderConst); err != nil {
			return err
		}
		if s.lightBuf, err = g.gpu.NewBuffer(g.cfg.LightInfoSize, driver.UShaderConst); err != nil {
			return err
		}
		if s.cb, err = g.gpu.NewCmdBuffer(); err != nil {
			return err
		}
		s.wk = &driver.WorkItem{
			Work:   []driver.CmdBuffer{s.cb},
			Custom: i,
		}
	}
	return nil
}

// completionLoop receives completed work items from the
// driver and retires the associated frame slots.
// Work items whose Custom index is negative belong to
// compute submissions and hold no slot.
func (g *Graphics) completionLoop() {
	for wk := range g.done {
		if wk.Err != nil {
			logger.WithField("err", wk.Err).Warn("rhi: GPU work failed")
		}
		idx := wk.Custom.(int)
		if idx < 0 {
			// Compute submissions own their command buffer;
			// it retires with the completion.
			for _, cb := range wk.Work {
				cb.Destroy()
			}
			continue
		}
		s := &g.slots[idx]
		for _, d := range s.retire {
			d.Destroy()
		}
		s.retire = s.retire[:0]
		g.gate.Release(1)
	}
}

// BeginFrame opens a new frame and uploads its constant
// data. It blocks until a frame slot becomes writable,
// i.e. until fewer than cfg.InFlightFrames frames are in
// flight. The constant blobs must fit the configured slot
// sizes.
func (g *Graphics) BeginFrame(frame *FrameContext) error {
	var reason string
	switch {
	case g.frameOpen:
		reason = "BeginFrame with frame already open"
	case frame == nil:
		reason = "nil FrameContext"
	case int64(len(frame.PerFrame)) > g.cfg.PerFrameSize:
		reason = "per-frame data exceeds slot size"
	case int64(len(frame.LightInfo)) > g.cfg.LightInfoSize:
		reason = "light-info data exceeds slot size"
	default:
		goto validParam
	}
	return newErr(reason)
validParam:
	// Blocks while every slot's previous frame is still
	// on the GPU.
	if err := g.gate.Acquire(context.Background(), 1); err != nil {
		return err
	}
	s := &g.slots[g.cur]
	if len(frame.PerFrame) > 0 {
		if err := s.frameBuf.Write(0, frame.PerFrame); err != nil {
			g.gate.Release(1)
			return err
		}
	}
	if len(frame.LightInfo) > 0 {
		if err := s.lightBuf.Write(0, frame.LightInfo); err != nil {
			g.gate.Release(1)
			return err
		}
	}
	s.cb.Reset()
	if err := s.cb.Begin(); err != nil {
		g.gate.Release(1)
		return err
	}
	g.frameOpen = true
	return nil
}

// EndFrame closes the current frame and submits its
// command buffer. Completion is observed asynchronously;
// the frame's slot is handed to the next frame modulo the
// in-flight count.
func (g *Graphics) EndFrame() error {
	if !g.frameOpen {
		return newErr("EndFrame without open frame")
	}
	switch g.pass {
	case passRender, passSkipped:
		if err := g.EndRenderPass(); err != nil {
			return err
		}
	case passCompute:
		return newErr("EndFrame with compute pass open")
	}
	s := &g.slots[g.cur]
	if err := s.cb.End(); err != nil {
		g.frameOpen = false
		g.gate.Release(1)
		return err
	}
	if err := g.gpu.Commit(s.wk, g.done); err != nil {
		g.frameOpen = false
		g.gate.Release(1)
		return err
	}
	logger.WithFields(logrus.Fields{"slot": g.cur}).Debug("rhi: frame committed")
	g.cur = (g.cur + 1) % len(g.slots)
	g.frameOpen = false
	return nil
}
