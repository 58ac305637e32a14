package corevk

// sliceUint32 reinterprets a byte slice of SPIR-V bytecode as the uint32
// slice vk.ShaderModuleCreateInfo.PCode expects, grounded on the teacher's
// shader.go helper of the same name.
func sliceUint32(data []byte) []uint32 {
	const wordSize = 4
	out := make([]uint32, len(data)/wordSize)
	for i := range out {
		out[i] = uint32(data[i*wordSize]) |
			uint32(data[i*wordSize+1])<<8 |
			uint32(data[i*wordSize+2])<<16 |
			uint32(data[i*wordSize+3])<<24
	}
	return out
}
