package corevk

import vk "github.com/vulkan-go/vulkan"

// VertexAttribute/VertexBinding describe a graphics pipeline's vertex
// input state, the one piece of PipelineDesc too structural to leave as a
// raw vk type at the API boundary.
type VertexAttribute struct {
	Location uint32
	Binding  uint32
	Format   vk.Format
	Offset   uint32
}

type VertexBinding struct {
	Binding   uint32
	Stride    uint32
	InputRate vk.VertexInputRate
}

// GraphicsPipelineDesc is the createGraphicsPipeline argument of spec §6,
// generalized from the teacher's PipelineBuilder (which hardcoded a single
// triangle pipeline) into the full state struct the spec calls for.
type GraphicsPipelineDesc struct {
	Shaders         []*Shader
	VertexBindings  []VertexBinding
	VertexAttribs   []VertexAttribute
	Topology        vk.PrimitiveTopology
	PolygonMode     vk.PolygonMode
	CullMode        vk.CullModeFlagBits
	FrontFace       vk.FrontFace
	SampleCount     vk.SampleCountFlagBits
	DepthTestEnable bool
	DepthWriteEnable bool
	BlendEnable     bool
	Layouts         []*ResourceLayout
	RenderPass      vk.RenderPass
	ViewportWidth   uint32
	ViewportHeight  uint32
}

// ComputePipelineDesc is the createComputePipeline argument of spec §6.
type ComputePipelineDesc struct {
	Shader  *Shader
	Layouts []*ResourceLayout
}

// Pipeline is a ref-counted VkPipeline + its VkPipelineLayout, grounded on
// the teacher's pipeline.go PipelineBuilder/BuildPipeline generalized off
// the single hardcoded triangle pipeline.
type Pipeline struct {
	resourceBase
	device  vk.Device
	handle  vk.Pipeline
	layout  vk.PipelineLayout
	layouts []*ResourceLayout
	shaders []*Shader
}

func setLayoutHandles(layouts []*ResourceLayout) []vk.DescriptorSetLayout {
	out := make([]vk.DescriptorSetLayout, len(layouts))
	for i, l := range layouts {
		out[i] = l.handle
	}
	return out
}

// CreateGraphicsPipeline implements spec §6's createGraphicsPipeline.
func CreateGraphicsPipeline(d *Device, desc GraphicsPipelineDesc) (*Pipeline, error) {
	var layoutHandle vk.PipelineLayout
	ret := vk.CreatePipelineLayout(d.adapter.Device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(desc.Layouts)),
		PSetLayouts:    setLayoutHandles(desc.Layouts),
	}, nil, &layoutHandle)
	if isError(ret) {
		return nil, vkErr(ret)
	}

	stages := make([]vk.PipelineShaderStageCreateInfo, len(desc.Shaders))
	for i, s := range desc.Shaders {
		stages[i] = s.stageInfo()
	}

	bindings := make([]vk.VertexInputBindingDescription, len(desc.VertexBindings))
	for i, b := range desc.VertexBindings {
		bindings[i] = vk.VertexInputBindingDescription{Binding: b.Binding, Stride: b.Stride, InputRate: b.InputRate}
	}
	attribs := make([]vk.VertexInputAttributeDescription, len(desc.VertexAttribs))
	for i, a := range desc.VertexAttribs {
		attribs[i] = vk.VertexInputAttributeDescription{Location: a.Location, Binding: a.Binding, Format: a.Format, Offset: a.Offset}
	}
	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attribs)),
		PVertexAttributeDescriptions:    attribs,
	}

	topology := desc.Topology
	if topology == 0 {
		topology = vk.PrimitiveTopologyTriangleList
	}
	assembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: topology,
	}

	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:     vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: orPolygonMode(desc.PolygonMode),
		CullMode:    vk.CullModeFlags(desc.CullMode),
		FrontFace:   orFrontFace(desc.FrontFace),
		LineWidth:   1.0,
	}

	sampleCount := desc.SampleCount
	if sampleCount == 0 {
		sampleCount = vk.SampleCount1Bit
	}
	multisample := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: sampleCount,
		MinSampleShading:     1.0,
	}

	colorBlendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit) | vk.ColorComponentFlags(vk.ColorComponentGBit) |
			vk.ColorComponentFlags(vk.ColorComponentBBit) | vk.ColorComponentFlags(vk.ColorComponentABit),
		BlendEnable: boolToVk(desc.BlendEnable),
	}
	colorBlend := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachment},
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:  boolToVk(desc.DepthTestEnable),
		DepthWriteEnable: boolToVk(desc.DepthWriteEnable),
		DepthCompareOp:   vk.CompareOpLessOrEqual,
	}

	vx, vy, vw, vh := viewportFor(desc.ViewportWidth, desc.ViewportHeight)
	viewport := vk.Viewport{X: vx, Y: vy, Width: vw, Height: vh, MinDepth: 0, MaxDepth: 1}
	scissor := vk.Rect2D{Offset: vk.Offset2D{}, Extent: vk.Extent2D{Width: desc.ViewportWidth, Height: desc.ViewportHeight}}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{scissor},
	}

	info := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &assembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisample,
		PColorBlendState:    &colorBlend,
		PDepthStencilState:  &depthStencil,
		Layout:              layoutHandle,
		RenderPass:          desc.RenderPass,
	}
	pipelines := make([]vk.Pipeline, 1)
	ret = vk.CreateGraphicsPipelines(d.adapter.Device, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if isError(ret) {
		vk.DestroyPipelineLayout(d.adapter.Device, layoutHandle, nil)
		return nil, vkErr(ret)
	}

	for _, s := range desc.Shaders {
		s.Retain()
	}
	for _, l := range desc.Layouts {
		l.Retain()
	}
	p := &Pipeline{device: d.adapter.Device, handle: pipelines[0], layout: layoutHandle, layouts: desc.Layouts, shaders: desc.Shaders}
	p.resourceBase = newResourceBase(d.registry, KindResourcePipeline, p.destroyNow)
	return p, nil
}

// CreateComputePipeline implements spec §6's createComputePipeline.
func CreateComputePipeline(d *Device, desc ComputePipelineDesc) (*Pipeline, error) {
	var layoutHandle vk.PipelineLayout
	ret := vk.CreatePipelineLayout(d.adapter.Device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(desc.Layouts)),
		PSetLayouts:    setLayoutHandles(desc.Layouts),
	}, nil, &layoutHandle)
	if isError(ret) {
		return nil, vkErr(ret)
	}

	info := vk.ComputePipelineCreateInfo{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Stage:  desc.Shader.stageInfo(),
		Layout: layoutHandle,
	}
	pipelines := make([]vk.Pipeline, 1)
	ret = vk.CreateComputePipelines(d.adapter.Device, vk.NullPipelineCache, 1, []vk.ComputePipelineCreateInfo{info}, nil, pipelines)
	if isError(ret) {
		vk.DestroyPipelineLayout(d.adapter.Device, layoutHandle, nil)
		return nil, vkErr(ret)
	}

	desc.Shader.Retain()
	for _, l := range desc.Layouts {
		l.Retain()
	}
	p := &Pipeline{device: d.adapter.Device, handle: pipelines[0], layout: layoutHandle, layouts: desc.Layouts, shaders: []*Shader{desc.Shader}}
	p.resourceBase = newResourceBase(d.registry, KindResourcePipeline, p.destroyNow)
	return p, nil
}

func (p *Pipeline) Handle() vk.Pipeline             { return p.handle }
func (p *Pipeline) Layout() vk.PipelineLayout       { return p.layout }

func (p *Pipeline) destroyNow() {
	vk.DestroyPipeline(p.device, p.handle, nil)
	vk.DestroyPipelineLayout(p.device, p.layout, nil)
	for _, s := range p.shaders {
		s.Release()
	}
	for _, l := range p.layouts {
		l.Release()
	}
}

func orPolygonMode(m vk.PolygonMode) vk.PolygonMode {
	return m // zero value vk.PolygonModeFill == 0, already the desired default
}

func orFrontFace(f vk.FrontFace) vk.FrontFace {
	return f // zero value vk.FrontFaceCounterClockwise == 0
}

func boolToVk(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
