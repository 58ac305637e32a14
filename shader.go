package corevk

import vk "github.com/vulkan-go/vulkan"

// ShaderStage identifies which pipeline stage a Shader binds to.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageCompute
	StageGeometry
	StageTessControl
	StageTessEvaluation
)

func (s ShaderStage) vkStage() vk.ShaderStageFlagBits {
	switch s {
	case StageVertex:
		return vk.ShaderStageVertexBit
	case StageFragment:
		return vk.ShaderStageFragmentBit
	case StageCompute:
		return vk.ShaderStageComputeBit
	case StageGeometry:
		return vk.ShaderStageGeometryBit
	case StageTessControl:
		return vk.ShaderStageTessellationControlBit
	case StageTessEvaluation:
		return vk.ShaderStageTessellationEvaluationBit
	default:
		return vk.ShaderStageVertexBit
	}
}

// ShaderDesc is the createShader argument of spec §6.
type ShaderDesc struct {
	Stage      ShaderStage
	EntryPoint string
	Bytecode   []byte
}

// Shader is a ref-counted VkShaderModule, grounded on the teacher's
// shader.go LoadShaderModule.
type Shader struct {
	resourceBase
	device     vk.Device
	handle     vk.ShaderModule
	stage      ShaderStage
	entryPoint string
}

// CreateShader implements spec §6's createShader; bytecode loading itself
// (compiling GLSL/HLSL, asset pipeline) is out of scope per spec §1 — the
// caller supplies already-compiled SPIR-V bytes.
func CreateShader(d *Device, desc ShaderDesc) (*Shader, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(d.adapter.Device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(desc.Bytecode)),
		PCode:    sliceUint32(desc.Bytecode),
	}, nil, &module)
	if isError(ret) {
		return nil, vkErr(ret)
	}
	s := &Shader{device: d.adapter.Device, handle: module, stage: desc.Stage, entryPoint: desc.EntryPoint}
	s.resourceBase = newResourceBase(d.registry, KindResourceShader, s.destroyNow)
	return s, nil
}

func (s *Shader) Handle() vk.ShaderModule { return s.handle }

func (s *Shader) stageInfo() vk.PipelineShaderStageCreateInfo {
	entry := s.entryPoint
	if entry == "" {
		entry = "main"
	}
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  s.stage.vkStage(),
		Module: s.handle,
		PName:  entry + "\x00",
	}
}

func (s *Shader) destroyNow() {
	vk.DestroyShaderModule(s.device, s.handle, nil)
}
