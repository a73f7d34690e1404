// Copyright 2024 MaxJon233. All rights reserved.

// Package webgpu implements the driver interfaces on top of
// WebGPU, by means of the cogentcore/webgpu bindings.
package webgpu

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

const prefix = "webgpu: "

// Driver implements driver.Driver.
type Driver struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	gpu      *GPU
}

// GPU implements driver.GPU.
type GPU struct {
	dev   *wgpu.Device
	queue *wgpu.Queue
	lim   driver.Limits
}

func init() {
	driver.Register(&Driver{})
}

// Name returns the driver name.
func (d *Driver) Name() string { return "webgpu" }

// Open initializes the driver and returns the GPU it
// controls.
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu != nil {
		return d.gpu, nil
	}
	d.instance = wgpu.CreateInstance(nil)
	if d.instance == nil {
		return nil, driver.ErrNotInstalled
	}
	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		d.Close()
		return nil, errors.Join(driver.ErrNoDevice, err)
	}
	d.adapter = adapter
	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		d.Close()
		return nil, errors.Join(driver.ErrNoDevice, err)
	}
	d.gpu = &GPU{
		dev:   dev,
		queue: dev.GetQueue(),
		lim:   deviceLimits(),
	}
	return d.gpu, nil
}

// Close deinitializes the driver.
func (d *Driver) Close() {
	if d.gpu != nil {
		d.gpu.dev.Release()
		d.gpu = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// Device returns the underlying wgpu device, for use by
// collaborators that build pipelines and surfaces.
func (g *GPU) Device() *wgpu.Device { return g.dev }

// Queue returns the underlying wgpu queue.
func (g *GPU) Queue() *wgpu.Queue { return g.queue }

// Limits returns the implementation limits.
func (g *GPU) Limits() driver.Limits { return g.lim }

// deviceLimits reports the WebGPU baseline limits, which
// every conforming implementation supports.
func deviceLimits() driver.Limits {
	return driver.Limits{
		MaxImage2D:    8192,
		MaxImageCube:  8192,
		MaxLayers:     256,
		MaxConstRange: 65536,
		MaxVertexIn:   8,
		MaxDispatch:   [3]int{65535, 65535, 65535},
	}
}

// Commit submits the work item's command buffers and
// arranges for wk to be delivered on ch when the GPU is
// done with them.
func (g *GPU) Commit(wk *driver.WorkItem, ch chan<- *driver.WorkItem) error {
	if wk == nil || ch == nil {
		return errors.New(prefix + "nil WorkItem or channel")
	}
	cbs := make([]*wgpu.CommandBuffer, 0, len(wk.Work))
	for _, cb := range wk.Work {
		c, ok := cb.(*cmdBuffer)
		if !ok {
			return errors.New(prefix + "foreign command buffer in WorkItem")
		}
		if c.cmd == nil {
			return errors.New(prefix + "command buffer not ended")
		}
		cbs = append(cbs, c.cmd)
	}
	g.queue.Submit(cbs...)
	for _, cb := range wk.Work {
		c := cb.(*cmdBuffer)
		c.cmd.Release()
		c.cmd = nil
	}
	go func() {
		// Blocks until all submitted work completes.
		g.dev.Poll(true, nil)
		wk.Err = nil
		ch <- wk
	}()
	return nil
}
