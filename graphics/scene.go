package graphics

// Material pairs a shader program's sources with the uniforms it is drawn with.
// The device compiles a material the first time it is rendered.
type Material struct {
	Name           string
	VertexSource   string
	FragmentSource string
	Uniforms       Uniforms
}

// Quad is an axis aligned rectangle centred on the origin.
type Quad struct {
	Width  float32
	Height float32
}

// Scene is a single quad drawn with a single material.
type Scene struct {
	Quad     Quad
	Material *Material
}
