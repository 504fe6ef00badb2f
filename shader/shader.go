package shader

import (
	_ "embed"
)

// ────────────────────────────────── Water ripple ───────────────────────────────

//go:embed waterripple/vertex.glsl
var waterVertexShaderSource string

// Simulation pass. Reads its own previous output from uChannel0.
//
//go:embed waterripple/buffer_a_fragment.glsl
var waterBufferFragmentShaderSource string

// Display pass. uChannel0 is the simulation, uChannel1 the background.
//
//go:embed waterripple/final_fragment.glsl
var waterFinalFragmentShaderSource string

// ────────────────────────────────── Public API ─────────────────────────────────

// GenerateVertexShader returns the desktop GL vertex shader shared by every pass.
// It expects the uProjection and uQuadSize uniforms.
func GenerateVertexShader() string {
	return waterVertexShaderSource
}

// GetBufferFragmentShader returns the WebGL2 source of the ripple simulation pass.
func GetBufferFragmentShader() string {
	return waterBufferFragmentShaderSource
}

// GetFinalFragmentShader returns the WebGL2 source of the display pass.
func GetFinalFragmentShader() string {
	return waterFinalFragmentShaderSource
}
