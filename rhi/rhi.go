// Copyright 2024 MaxJon233. All rights reserved.

// Package rhi implements the GPU-facing rendering backend.
// It turns host-supplied geometry, material and per-frame
// constant data into GPU resources and recorded command
// streams, and paces CPU/GPU execution so the CPU never
// overwrites data the GPU is still reading.
package rhi

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

const rhiPrefix = "rhi: "

func newErr(s string) error { return errors.New(rhiPrefix + s) }

// logger receives the package's diagnostics.
// Fatal configuration errors (unknown pixel formats,
// malformed cube-array input, invalid pipeline values) go
// through logger.Fatalf, which terminates the process after
// diagnostic output. Tests replace logger.ExitFunc to
// observe the fatal path.
var logger = logrus.New()

// Logger returns the package logger so hosts can adjust
// level, formatter and output.
func Logger() *logrus.Logger { return logger }

// Fixed binding points shared with the shader set.
const (
	bindModelMatrix = 2
	bindFrameConst  = 10
	bindLightInfo   = 11

	texDiffuse   = 0
	texNormal    = 1
	texMetallic  = 2
	texRoughness = 3
	texAO        = 4
	texHeight    = 5
	texBRDFLUT   = 6
	texSkybox    = 10

	splrDefault = 0
)

// Target describes the render target of one frame, as
// negotiated by the windowing collaborator.
type Target struct {
	Color driver.ImageView
	Depth driver.ImageView
}

// TargetSource is implemented by the windowing collaborator.
// AcquireTarget returns the target to render into this
// frame. ok is false when no target is available (e.g.,
// a minimized window), in which case the backend silently
// skips the render pass and every draw within it.
type TargetSource interface {
	AcquireTarget() (t Target, ok bool)
}

// PipelineKind discriminates graphics and compute
// pipeline state.
type PipelineKind int

// Pipeline kinds.
const (
	KindGraphics PipelineKind = iota
	KindCompute
)

// CullFace selects which triangle faces are culled.
type CullFace int

// Cull faces.
const (
	CullNone CullFace = iota
	CullFront
	CullBack
)

// PipelineState bundles a compiled pipeline with the
// fixed state the backend applies when binding it.
// It is built by the shader/pipeline collaborator and is
// referenced, never owned, by the backend.
type PipelineState struct {
	Kind         PipelineKind
	Cull         CullFace
	Pipeline     driver.Pipeline
	DepthStencil driver.DepthStencil
}

// MaterialSet holds the material textures of one batch.
// Each entry is either a valid texture handle or Nil;
// Nil maps are left unbound rather than bound to a
// default texture.
type MaterialSet struct {
	Diffuse   Handle
	Normal    Handle
	Metallic  Handle
	Roughness Handle
	AO        Handle
	Height    Handle
}

// DrawBatch describes one drawable object's geometry and
// material references for a single frame.
// Batches are produced fresh each frame by the host scene
// graph and are read-only to the backend.
type DrawBatch interface {
	// ModelMatrix returns the object's world transform.
	ModelMatrix() mgl32.Mat4

	// VertexRange returns a contiguous range of vertex
	// buffer handles in the backend's resource pool.
	VertexRange() (start Handle, count int)

	// IndexBuffer returns the index buffer handle.
	IndexBuffer() Handle

	// IndexCount returns the number of indices to draw.
	IndexCount() int

	// IndexFormat returns the width of one index element.
	IndexFormat() driver.IndexFmt

	// Topology returns the primitive topology.
	Topology() driver.Topology

	// Material returns the material texture handles.
	Material() MaterialSet
}

// FrameContext carries the per-frame constant data.
// Both blobs are opaque to the backend beyond their byte
// size and are copied into the current frame slot's
// buffers during BeginFrame.
type FrameContext struct {
	PerFrame  []byte
	LightInfo []byte
}

// passState tracks the pass-encoder state machine.
type passState int

const (
	passNone passState = iota
	passRender
	// The frame has no render target; draw calls are
	// silently skipped until the pass ends.
	passSkipped
	passCompute
)

// Graphics is the backend instance.
// A single CPU goroutine records commands per frame; the
// GPU executes asynchronously and signals completion
// through the driver's commit channel. The only blocking
// call is BeginFrame, which waits for a frame slot to
// become writable. Resource creation must be serialized
// by the host with respect to frame recording.
type Graphics struct {
	gpu    driver.GPU
	target TargetSource
	cfg    Config

	pool resourcePool
	splr driver.Sampler

	slots []frameSlot
	cur   int
	gate  *semaphore.Weighted
	done  chan *driver.WorkItem

	pass      passState
	frameOpen bool
	// Command buffer of the open compute pass, if any.
	// Ownership passes to the submission on EndComputePass.
	ccb driver.CmdBuffer

	skybox  Handle
	brdfLUT Handle

	writes []writeBinding
}

// New creates a backend instance over the given GPU.
// target supplies the per-frame render target; it may be
// nil, in which case every render pass is skipped (useful
// for headless compute work).
func New(gpu driver.GPU, target TargetSource, cfg *Config) (*Graphics, error) {
	var reason string
	switch {
	case gpu == nil:
		reason = "nil driver.GPU"
	case cfg == nil:
		reason = "nil Config"
	case cfg.InFlightFrames < 1:
		reason = "in-flight frame count not positive"
	case cfg.PerFrameSize < 1:
		reason = "per-frame constant size not positive"
	case cfg.LightInfoSize < 1:
		reason = "light-info size not positive"
	default:
		goto validParam
	}
	return nil, newErr(reason)
validParam:
	g := &Graphics{
		gpu:     gpu,
		target:  target,
		cfg:     *cfg,
		gate:    semaphore.NewWeighted(int64(cfg.InFlightFrames)),
		done:    make(chan *driver.WorkItem, cfg.InFlightFrames+1),
		skybox:  Nil,
		brdfLUT: Nil,
	}
	splr, err := gpu.NewSampler(&driver.Sampling{
		Min:      driver.FLinear,
		Mag:      driver.FLinear,
		Mipmap:   driver.FLinear,
		AddrU:    driver.AWrap,
		AddrV:    driver.AWrap,
		AddrW:    driver.AWrap,
		MaxAniso: 1,
		MinLOD:   0,
		MaxLOD:   32,
	})
	if err != nil {
		return nil, err
	}
	g.splr = splr
	if err := g.makeSlots(); err != nil {
		g.Free()
		return nil, err
	}
	go g.completionLoop()
	return g, nil
}

// NotifySurfaceResized is a hook for the windowing
// collaborator. The backend reads the target size anew
// each frame, so there is nothing to do here yet.
func (g *Graphics) NotifySurfaceResized(width, height int) {}

// Free destroys the resources owned by g.
// The caller must ensure that no frames are in flight and
// that no further methods are called on g.
func (g *Graphics) Free() {
	for i := range g.slots {
		g.slots[i].free()
	}
	g.slots = nil
	if g.ccb != nil {
		g.ccb.Destroy()
		g.ccb = nil
	}
	if g.splr != nil {
		g.splr.Destroy()
		g.splr = nil
	}
	g.pool.free()
	if g.done != nil {
		close(g.done)
		g.done = nil
	}
}
