// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"fmt"
	"sync"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// fakeGPU implements driver.GPU and records enough of what
// happens to it for tests to assert on.
type fakeGPU struct {
	mu        sync.Mutex
	buffers   []*fakeBuffer
	images    []*fakeImage
	samplers  int
	committed []*driver.WorkItem
	chans     []chan<- *driver.WorkItem
	commitErr error
}

func newFakeGPU() *fakeGPU { return &fakeGPU{} }

func (g *fakeGPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	return &fakeCmdBuffer{gpu: g}, nil
}

func (g *fakeGPU) NewBuffer(size int64, usg driver.Usage) (driver.Buffer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := &fakeBuffer{size: size, usg: usg, data: make([]byte, size)}
	g.buffers = append(g.buffers, b)
	return b, nil
}

func (g *fakeGPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels int, usg driver.Usage) (driver.Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	img := &fakeImage{pf: pf, size: size, layers: layers, levels: levels, usg: usg}
	g.images = append(g.images, img)
	return img, nil
}

func (g *fakeGPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.samplers++
	return &fakeSampler{}, nil
}

func (g *fakeGPU) Commit(wk *driver.WorkItem, ch chan<- *driver.WorkItem) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.commitErr != nil {
		return g.commitErr
	}
	g.committed = append(g.committed, wk)
	g.chans = append(g.chans, ch)
	return nil
}

func (g *fakeGPU) Limits() driver.Limits {
	return driver.Limits{
		MaxImage2D:    16384,
		MaxImageCube:  16384,
		MaxLayers:     2048,
		MaxConstRange: 65536,
		MaxVertexIn:   16,
		MaxDispatch:   [3]int{65535, 65535, 65535},
	}
}

// commitCount returns the number of committed work items.
func (g *fakeGPU) commitCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.committed)
}

// complete delivers the i-th committed work item, as the
// driver's completion goroutine would.
func (g *fakeGPU) complete(i int) {
	g.mu.Lock()
	wk := g.committed[i]
	ch := g.chans[i]
	g.mu.Unlock()
	ch <- wk
}

type fakeBuffer struct {
	size      int64
	usg       driver.Usage
	data      []byte
	writes    int
	destroyed bool
}

func (b *fakeBuffer) Cap() int64 { return b.size }

func (b *fakeBuffer) Write(off int64, data []byte) error {
	if off < 0 || off+int64(len(data)) > b.size {
		return fmt.Errorf("fake: buffer write out of bounds")
	}
	copy(b.data[off:], data)
	b.writes++
	return nil
}

func (b *fakeBuffer) Destroy() { b.destroyed = true }

// imageWrite records one Image.Write call.
type imageWrite struct {
	layer, level int
	size         driver.Dim3D
	rowPitch     int
	bytes        int
}

type fakeImage struct {
	pf        driver.PixelFmt
	size      driver.Dim3D
	layers    int
	levels    int
	usg       driver.Usage
	writes    []imageWrite
	views     []*fakeImageView
	destroyed bool
}

func (t *fakeImage) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	v := &fakeImageView{img: t, typ: typ, layer: layer, layers: layers, level: level, levels: levels}
	t.views = append(t.views, v)
	return v, nil
}

func (t *fakeImage) Write(layer, level int, off driver.Off3D, size driver.Dim3D, rowPitch int, data []byte) error {
	if layer < 0 || layer >= t.layers || level < 0 || level >= t.levels {
		return fmt.Errorf("fake: image write out of bounds")
	}
	t.writes = append(t.writes, imageWrite{layer, level, size, rowPitch, len(data)})
	return nil
}

func (t *fakeImage) Destroy() { t.destroyed = true }

type fakeImageView struct {
	img       *fakeImage
	typ       driver.ViewType
	layer     int
	layers    int
	level     int
	levels    int
	destroyed bool
}

func (v *fakeImageView) Image() driver.Image { return v.img }
func (v *fakeImageView) Destroy()            { v.destroyed = true }

type fakeSampler struct{ destroyed bool }

func (s *fakeSampler) Destroy() { s.destroyed = true }

// cmdCall records one command recorded into a fake command
// buffer.
type cmdCall struct {
	name string
	args []any
}

type fakeCmdBuffer struct {
	gpu       *fakeGPU
	recording bool
	calls     []cmdCall
	destroyed bool
}

func (c *fakeCmdBuffer) rec(name string, args ...any) {
	c.calls = append(c.calls, cmdCall{name, args})
}

// countCalls returns how many recorded calls have the
// given name.
func (c *fakeCmdBuffer) countCalls(name string) int {
	var n int
	for _, call := range c.calls {
		if call.name == name {
			n++
		}
	}
	return n
}

// findCall returns the first recorded call with the given
// name.
func (c *fakeCmdBuffer) findCall(name string) (cmdCall, bool) {
	for _, call := range c.calls {
		if call.name == name {
			return call, true
		}
	}
	return cmdCall{}, false
}

func (c *fakeCmdBuffer) Begin() error {
	if c.recording {
		return fmt.Errorf("fake: Begin while recording")
	}
	c.recording = true
	c.rec("Begin")
	return nil
}

func (c *fakeCmdBuffer) IsRecording() bool { return c.recording }

func (c *fakeCmdBuffer) BeginPass(pass *driver.PassDesc) { c.rec("BeginPass", pass) }
func (c *fakeCmdBuffer) EndPass()                        { c.rec("EndPass") }
func (c *fakeCmdBuffer) BeginWork()                      { c.rec("BeginWork") }
func (c *fakeCmdBuffer) EndWork()                        { c.rec("EndWork") }

func (c *fakeCmdBuffer) SetPipeline(pl driver.Pipeline)         { c.rec("SetPipeline", pl) }
func (c *fakeCmdBuffer) SetDepthStencil(ds driver.DepthStencil) { c.rec("SetDepthStencil", ds) }
func (c *fakeCmdBuffer) SetCull(cull driver.CullMode)           { c.rec("SetCull", cull) }
func (c *fakeCmdBuffer) SetWinding(wind driver.Winding)         { c.rec("SetWinding", wind) }
func (c *fakeCmdBuffer) SetTopology(top driver.Topology)        { c.rec("SetTopology", top) }

func (c *fakeCmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	c.rec("SetVertexBuf", start, buf, off)
}

func (c *fakeCmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
	c.rec("SetIndexBuf", format, buf, off)
}

func (c *fakeCmdBuffer) SetConstBuf(nr int, buf driver.Buffer, off, size int64) {
	c.rec("SetConstBuf", nr, buf, off, size)
}

func (c *fakeCmdBuffer) SetBytes(nr int, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	c.rec("SetBytes", nr, cp)
}

func (c *fakeCmdBuffer) SetTexture(nr int, iv driver.ImageView) { c.rec("SetTexture", nr, iv) }
func (c *fakeCmdBuffer) SetSampler(nr int, splr driver.Sampler) { c.rec("SetSampler", nr, splr) }

func (c *fakeCmdBuffer) Draw(vertCnt, instCnt, baseVert, baseInst int) {
	c.rec("Draw", vertCnt, instCnt, baseVert, baseInst)
}

func (c *fakeCmdBuffer) DrawIndexed(idxCnt, instCnt, baseIdx, vertOff, baseInst int) {
	c.rec("DrawIndexed", idxCnt, instCnt, baseIdx, vertOff, baseInst)
}

func (c *fakeCmdBuffer) Dispatch(grpCntX, grpCntY, grpCntZ int) {
	c.rec("Dispatch", grpCntX, grpCntY, grpCntZ)
}

func (c *fakeCmdBuffer) End() error {
	if !c.recording {
		return fmt.Errorf("fake: End while not recording")
	}
	c.recording = false
	c.rec("End")
	return nil
}

func (c *fakeCmdBuffer) Reset() error {
	c.recording = false
	c.calls = c.calls[:0]
	return nil
}

func (c *fakeCmdBuffer) Destroy() { c.destroyed = true }

// fakeTarget implements TargetSource.
type fakeTarget struct {
	color driver.ImageView
	depth driver.ImageView
	ok    bool
}

func (t *fakeTarget) AcquireTarget() (Target, bool) {
	return Target{Color: t.color, Depth: t.depth}, t.ok
}

// newTestGraphics builds a Graphics over a fake GPU with a
// small configuration.
func newTestGraphics(target TargetSource, inFlight int) (*Graphics, *fakeGPU, error) {
	gpu := newFakeGPU()
	cfg := DefaultConfig()
	cfg.InFlightFrames = inFlight
	cfg.PerFrameSize = 256
	cfg.LightInfoSize = 256
	g, err := New(gpu, target, &cfg)
	return g, gpu, err
}

// newRenderTarget returns a fakeTarget with distinct color
// and depth views.
func newRenderTarget(gpu *fakeGPU) *fakeTarget {
	img, _ := gpu.NewImage(driver.RGBA8Unorm, driver.Dim3D{Width: 16, Height: 16}, 1, 1, driver.URenderTarget)
	color, _ := img.NewView(driver.IView2D, 0, 1, 0, 1)
	dimg, _ := gpu.NewImage(driver.D32Float, driver.Dim3D{Width: 16, Height: 16}, 1, 1, driver.URenderTarget)
	depth, _ := dimg.NewView(driver.IView2D, 0, 1, 0, 1)
	return &fakeTarget{color: color, depth: depth, ok: true}
}

// slotCB returns the fake command buffer of slot i.
func slotCB(g *Graphics, i int) *fakeCmdBuffer {
	return g.slots[i].cb.(*fakeCmdBuffer)
}
