// Package material wraps a fragment shader and its uniforms into a drawable
// full-screen scene.
package material

import (
	"github.com/richinsley/goripple/graphics"
	"github.com/richinsley/goripple/shader"
)

// BufferShader is a shader material plus the single-quad scene that draws it.
type BufferShader struct {
	Uniforms graphics.Uniforms
	Material *graphics.Material
	Scene    *graphics.Scene
}

// NewBufferShader builds a scene whose quad spans width x height in camera
// units. Uniform names are not checked against the shader; a nil map starts
// empty.
func NewBufferShader(name, fragmentShader string, uniforms graphics.Uniforms, width, height float32) *BufferShader {
	if uniforms == nil {
		uniforms = graphics.Uniforms{}
	}
	m := &graphics.Material{
		Name:           name,
		VertexSource:   shader.GenerateVertexShader(),
		FragmentSource: fragmentShader,
		Uniforms:       uniforms,
	}
	return &BufferShader{
		Uniforms: uniforms,
		Material: m,
		Scene: &graphics.Scene{
			Quad:     graphics.Quad{Width: width, Height: height},
			Material: m,
		},
	}
}

// UpdateUniforms runs update against the material's uniforms. It is the one
// place per-frame values are written before a render call.
func (b *BufferShader) UpdateUniforms(update func(u graphics.Uniforms)) {
	update(b.Uniforms)
}
