// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/safeish"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// Unit cube geometry for the skybox, drawn with the view
// origin inside the cube. Indices wind so the interior
// faces are front-facing.
var (
	skyboxVerts = [8]mgl32.Vec3{
		{-1, -1, -1},
		{1, -1, -1},
		{1, 1, -1},
		{-1, 1, -1},
		{-1, -1, 1},
		{1, -1, 1},
		{1, 1, 1},
		{-1, 1, 1},
	}
	skyboxIndices = [36]uint16{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		3, 6, 2, 3, 7, 6,
		0, 7, 3, 0, 4, 7,
		1, 2, 6, 1, 6, 5,
	}
)

// DrawSkybox records the environment cube draw.
// Geometry is generated fresh each call into transient
// buffers that retire when the frame's GPU work completes.
// When no render pass is open this is a silent no-op.
func (g *Graphics) DrawSkybox() error {
	switch g.pass {
	case passRender:
	case passCompute:
		return newErr("DrawSkybox in compute pass")
	default:
		return nil
	}
	vdata := safeish.SliceCast[[]byte](skyboxVerts[:])
	idata := safeish.SliceCast[[]byte](skyboxIndices[:])
	vbuf, err := g.gpu.NewBuffer(int64(len(vdata)), driver.UVertexData)
	if err != nil {
		return err
	}
	if err := vbuf.Write(0, vdata); err != nil {
		vbuf.Destroy()
		return err
	}
	ibuf, err := g.gpu.NewBuffer(int64(len(idata)), driver.UIndexData)
	if err != nil {
		vbuf.Destroy()
		return err
	}
	if err := ibuf.Write(0, idata); err != nil {
		vbuf.Destroy()
		ibuf.Destroy()
		return err
	}
	s := &g.slots[g.cur]
	s.retire = append(s.retire, vbuf, ibuf)
	cb := s.cb
	cb.SetVertexBuf(0, []driver.Buffer{vbuf}, []int64{0})
	cb.SetIndexBuf(driver.Index16, ibuf, 0)
	if iv := g.pool.view(g.skybox); iv != nil {
		cb.SetTexture(texSkybox, iv)
		cb.SetSampler(splrDefault, g.splr)
	}
	cb.SetTopology(driver.TTriangle)
	cb.DrawIndexed(len(skyboxIndices), 1, 0, 0, 0)
	return nil
}

// DrawBatches records one indexed draw per batch.
// Each batch supplies its model matrix inline, a
// contiguous range of pooled vertex buffers and its
// material textures; absent material maps are left
// unbound. Inside a skipped pass this is a silent no-op;
// with no render pass open it is an error.
func (g *Graphics) DrawBatches(list []DrawBatch) error {
	switch g.pass {
	case passSkipped:
		return nil
	case passRender:
	default:
		return newErr("DrawBatches without open render pass")
	}
	cb := g.slots[g.cur].cb
	for _, b := range list {
		m := b.ModelMatrix()
		cb.SetBytes(bindModelMatrix, safeish.AsBytes(&m))

		start, cnt := b.VertexRange()
		if cnt < 1 {
			return newErr("batch with empty vertex range")
		}
		bufs := make([]driver.Buffer, cnt)
		offs := make([]int64, cnt)
		for i := 0; i < cnt; i++ {
			buf := g.pool.buffer(start + Handle(i))
			if buf == nil {
				return newErr("batch references invalid vertex buffer")
			}
			bufs[i] = buf
		}
		cb.SetVertexBuf(0, bufs, offs)

		g.bindMaterial(cb, b.Material())

		ibuf := g.pool.buffer(b.IndexBuffer())
		if ibuf == nil {
			return newErr("batch references invalid index buffer")
		}
		cb.SetTopology(b.Topology())
		cb.SetIndexBuf(b.IndexFormat(), ibuf, 0)
		cb.DrawIndexed(b.IndexCount(), 1, 0, 0, 0)
	}
	return nil
}

// bindMaterial binds whichever material maps the batch
// provides. Nil or destroyed handles are skipped so the
// pipeline sees them as unbound.
func (g *Graphics) bindMaterial(cb driver.CmdBuffer, m MaterialSet) {
	bind := func(nr int, h Handle) {
		if iv := g.pool.view(h); iv != nil {
			cb.SetTexture(nr, iv)
		}
	}
	bind(texDiffuse, m.Diffuse)
	bind(texNormal, m.Normal)
	bind(texMetallic, m.Metallic)
	bind(texRoughness, m.Roughness)
	bind(texAO, m.AO)
	bind(texHeight, m.Height)
}
