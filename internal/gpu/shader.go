package gpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

//go:embed shaders/terminal.wgsl
var terminalShaderSource string

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// compiledShader compiles the embedded shader once per process.
var compiledShader = sync.OnceValues(CompileShader)

// CompileShader translates the terminal shader to SPIR-V words. Pipelines
// create their shader module from these words.
func CompileShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(terminalShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile terminal shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile terminal shader: %d bytes is not whole words", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if len(words) == 0 || words[0] != spirvMagic {
		return nil, fmt.Errorf("compile terminal shader: missing SPIR-V header")
	}
	return words, nil
}
