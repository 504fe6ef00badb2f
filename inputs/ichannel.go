package inputs

import "github.com/richinsley/goripple/graphics"

// IChannel defines the contract for a texture input bound to a uChannelN uniform.
type IChannel interface {
	graphics.Texture

	// GetSamplerType returns the GLSL sampler type.
	GetSamplerType() string

	// Destroy releases any resources held by the channel.
	Destroy()
}
