// Copyright 2024 MaxJon233. All rights reserved.

package driver

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewBuffer creates a new buffer.
	NewBuffer(size int64, usg Usage) (Buffer, error)

	// NewImage creates a new image.
	NewImage(pf PixelFmt, size Dim3D, layers, levels int, usg Usage) (Image, error)

	// NewSampler creates a new sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// Commit commits a work item to the GPU for execution.
	// It is asynchronous: when all command buffers in
	// wk.Work complete execution, the driver sets wk.Err
	// and sends wk to ch. The send happens on a driver
	// completion goroutine, so receivers must not assume
	// any particular thread.
	// Command buffers in wk.Work cannot be used for
	// recording until the completion is delivered.
	Commit(wk *WorkItem, ch chan<- *WorkItem) error

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// WorkItem describes a batch of command buffers to be
// committed to the GPU as a unit.
// Custom is free for callers to use; the driver does not
// touch it.
type WorkItem struct {
	Work   []CmdBuffer
	Err    error
	Custom any
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may hold resources
// that are not managed by the GC, so Destroy must be called
// explicitly to ensure such resources are released.
type Destroyer interface {
	Destroy()
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// committed to the GPU for execution. The usage is as
// follows. First, call Begin to prepare the command buffer
// for recording. Then, if it succeeds:
//
// To record commands for a render pass:
//	1. call BeginPass
//	2. call Set* methods to configure rendering state
//	3. call Draw/DrawIndexed commands
//	4. repeat 2-3 as needed
//	5. call EndPass
//
// To record compute commands:
//	1. call BeginWork
//	2. call Set* methods to configure compute state
//	3. call Dispatch commands
//	4. repeat 2-3 as needed
//	5. call EndWork
//
// Finally, call End and, if it succeeds, GPU.Commit.
// Begin* commands must not be nested and must always be
// ended prior to the final End call.
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	// This method must be called before any command is
	// recorded. It needs to be called again if the
	// command buffer is executed or reset.
	Begin() error

	// IsRecording returns whether the command buffer is
	// currently recording commands (i.e., whether Begin
	// was called and recording has not yet ended).
	IsRecording() bool

	// BeginPass begins a render pass targeting the given
	// color/depth attachments.
	BeginPass(pass *PassDesc)

	// EndPass ends the current render pass.
	EndPass()

	// BeginWork begins compute work.
	BeginWork()

	// EndWork ends the current compute work.
	EndWork()

	// SetPipeline sets the pipeline.
	// There is a separate binding point for each type
	// of pipeline.
	SetPipeline(pl Pipeline)

	// SetDepthStencil sets the depth/stencil state for
	// subsequent draws.
	// Drivers whose pipelines embed this state may treat
	// it as a no-op.
	SetDepthStencil(ds DepthStencil)

	// SetCull sets the cull mode for subsequent draws.
	SetCull(cull CullMode)

	// SetWinding sets the front-face winding for
	// subsequent draws.
	SetWinding(wind Winding)

	// SetTopology sets the primitive topology for
	// subsequent draws.
	// Drivers whose pipelines embed this state may treat
	// it as a no-op.
	SetTopology(top Topology)

	// SetVertexBuf sets one or more vertex buffers,
	// bound to consecutive input slots starting at start.
	SetVertexBuf(start int, buf []Buffer, off []int64)

	// SetIndexBuf sets the index buffer.
	SetIndexBuf(format IndexFmt, buf Buffer, off int64)

	// SetConstBuf sets a constant buffer range at the
	// given binding point, visible to all stages.
	SetConstBuf(nr int, buf Buffer, off, size int64)

	// SetBytes sets inline constant data at the given
	// binding point.
	// The driver copies data before returning.
	SetBytes(nr int, data []byte)

	// SetTexture sets an image view for sampling or
	// shader write at the given binding point.
	SetTexture(nr int, iv ImageView)

	// SetSampler sets a sampler at the given binding
	// point.
	SetSampler(nr int, splr Sampler)

	// Draw draws primitives.
	// It must only be called during a render pass.
	Draw(vertCnt, instCnt, baseVert, baseInst int)

	// DrawIndexed draws indexed primitives.
	// It must only be called during a render pass.
	DrawIndexed(idxCnt, instCnt, baseIdx, vertOff, baseInst int)

	// Dispatch dispatches compute thread groups.
	// It must only be called during compute work.
	Dispatch(grpCntX, grpCntY, grpCntZ int)

	// End ends command recording and prepares the command
	// buffer for execution.
	// New recordings are not allowed until the command
	// buffer is executed or reset.
	// Upon failure, the command buffer is reset.
	End() error

	// Reset discards all recorded commands from the
	// command buffer.
	Reset() error
}

// PassDesc describes the attachments of a render pass.
// A nil Color view is valid and means that the pass has
// no color target; such passes are depth-only.
type PassDesc struct {
	Color      ImageView
	Depth      ImageView
	ClearColor [4]float32
	ClearDepth float32
}

// Pipeline is the interface that defines a compiled GPU
// pipeline.
// Pipelines are built by a separate collaborator and are
// opaque to the backend.
type Pipeline interface {
	Destroyer
}

// DepthStencil is the interface that defines a compiled
// depth/stencil state object.
type DepthStencil interface {
	Destroyer
}

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer and Image.
const (
	// The resource can provide vertex data for draw calls.
	// Valid only for Buffer.
	UVertexData Usage = 1 << iota
	// The resource can provide index data for draw calls.
	// Valid only for Buffer.
	UIndexData
	// The resource can provide constant data for shaders.
	// Valid only for Buffer.
	UShaderConst
	// The resource can be sampled in shaders.
	// Valid only for Image.
	UShaderSample
	// The resource can be written in shaders.
	// Valid only for Image.
	UShaderWrite
	// The resource can be used as render target.
	// Valid only for Image.
	URenderTarget
)

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed at creation.
type Buffer interface {
	Destroyer

	// Cap returns the capacity of the buffer in bytes,
	// which may be greater than the size requested
	// during creation.
	// This value is immutable.
	Cap() int64

	// Write copies CPU data into the buffer at the
	// given offset.
	// The caller is responsible for ensuring that the
	// GPU is not reading the written range.
	Write(off int64, data []byte) error
}

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	FmtInvalid PixelFmt = iota
	// Color, uncompressed.
	R8Unorm
	RG8Unorm
	RGBA8Unorm
	BGRA8Unorm
	RGBA16Unorm
	RGBA16Float
	RGBA32Uint
	RGBA32Float
	// Color, block-compressed.
	BC1RGBA
	BC2RGBA
	BC3RGBA
	// Depth.
	D32Float
)

// Size returns the number of bytes per pixel of f.
// For block-compressed formats, it returns the number of
// bytes per 4x4 block instead.
func (f PixelFmt) Size() int {
	switch f {
	case R8Unorm:
		return 1
	case RG8Unorm:
		return 2
	case RGBA8Unorm, BGRA8Unorm, D32Float:
		return 4
	case RGBA16Unorm, RGBA16Float, BC1RGBA:
		return 8
	case RGBA32Uint, RGBA32Float, BC2RGBA, BC3RGBA:
		return 16
	}
	return 0
}

// IsCompressed returns whether f is a block-compressed
// format.
func (f PixelFmt) IsCompressed() bool {
	switch f {
	case BC1RGBA, BC2RGBA, BC3RGBA:
		return true
	}
	return false
}

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D is a three-dimensional offset.
type Off3D struct {
	X, Y, Z int
}

// Image is the interface that defines a GPU image.
type Image interface {
	Destroyer

	// NewView creates a new image view.
	// Image views represent a typed view of image
	// storage. The type must be valid according to the
	// image from which the view is created (e.g.,
	// creating a cube-array view requires a layer count
	// that is a multiple of six).
	// All views created from a given image must be
	// destroyed before the image itself is destroyed.
	NewView(typ ViewType, layer, layers, level, levels int) (ImageView, error)

	// Write copies CPU pixel data into one mip level of
	// one layer of the image.
	// rowPitch is given in bytes; a value of zero means
	// tightly packed rows.
	// The copy completes before Write returns.
	Write(layer, level int, off Off3D, size Dim3D, rowPitch int, data []byte) error
}

// ViewType is the type of an image view.
type ViewType int

// View types.
const (
	IView2D ViewType = iota
	IView2DArray
	IViewCube
	IViewCubeArray
)

// ImageView is the interface that defines a typed view of
// an Image resource.
type ImageView interface {
	Destroyer

	// Image returns the Image from which the view was
	// created.
	Image() Image
}

// Topology determines how vertex data is assembled
// into primitives.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TLnStrip
	TTriangle
	TTriStrip
)

// IndexFmt describes the format of index buffer data.
// The value of an IndexFmt constant is the byte width of
// one index element.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = 2
	Index32 IndexFmt = 4
)

// CullMode determines primitive culling based on triangle
// facing direction.
type CullMode int

// Cull modes.
const (
	CNone CullMode = iota
	CFront
	CBack
)

// Winding is the front-face winding order.
type Winding int

// Winding orders.
const (
	WCounterCW Winding = iota
	WClockwise
)

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// Sampler is the interface that defines an image sampler.
type Sampler interface {
	Destroyer
}

// Sampling describes image sampler state.
type Sampling struct {
	Min      Filter
	Mag      Filter
	Mipmap   Filter
	AddrU    AddrMode
	AddrV    AddrMode
	AddrW    AddrMode
	MaxAniso int
	MinLOD   float32
	MaxLOD   float32
}

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width and height of 2D images.
	MaxImage2D int
	// Maximum width and height of cube images.
	MaxImageCube int
	// Maximum number of layers in an image.
	MaxLayers int
	// Maximum range of constant buffer bindings.
	MaxConstRange int64
	// Maximum number of vertex input slots.
	MaxVertexIn int
	// Maximum dispatch count per dimension.
	MaxDispatch [3]int
}
