package material

import (
	"testing"

	"github.com/richinsley/goripple/graphics"
)

func TestNewBufferShader(t *testing.T) {
	uniforms := graphics.Uniforms{}
	uniforms.Set("uFrame", int32(0))

	b := NewBufferShader("bufferA", "void main() {}", uniforms, 2, 2)

	if b.Scene.Material != b.Material {
		t.Error("scene does not draw the buffer's material")
	}
	if b.Scene.Quad != (graphics.Quad{Width: 2, Height: 2}) {
		t.Errorf("quad = %+v, want 2x2", b.Scene.Quad)
	}
	if b.Material.VertexSource == "" {
		t.Error("vertex source is empty")
	}
	if b.Material.Uniforms["uFrame"] != uniforms["uFrame"] {
		t.Error("material does not share the caller's uniforms")
	}
}

func TestNewBufferShaderNilUniforms(t *testing.T) {
	b := NewBufferShader("image", "", nil, 1, 1)
	b.UpdateUniforms(func(u graphics.Uniforms) { u.Set("uChannel0", nil) })
	if _, ok := b.Material.Uniforms["uChannel0"]; !ok {
		t.Error("uniform set through UpdateUniforms is missing from the material")
	}
}

func TestUpdateUniformsKeepsIdentity(t *testing.T) {
	b := NewBufferShader("bufferA", "", graphics.Uniforms{"uFrame": {Value: int32(0)}}, 2, 2)
	before := b.Uniforms["uFrame"]
	for i := int32(1); i <= 3; i++ {
		b.UpdateUniforms(func(u graphics.Uniforms) { u.Set("uFrame", i) })
	}
	if b.Uniforms["uFrame"] != before {
		t.Error("uniform identity changed across updates")
	}
	if got := b.Uniforms.Get("uFrame"); got != int32(3) {
		t.Errorf("uFrame = %v, want 3", got)
	}
}
