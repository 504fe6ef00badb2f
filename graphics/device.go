package graphics

// Texture is anything a shader can sample from.
type Texture interface {
	// TextureID returns the backend handle that should be bound.
	TextureID() uint32
	// Resolution returns the size of the texture as a vec3 (width, height, 1).
	Resolution() [3]float32
}

// RenderTarget is an offscreen colour buffer the device can render into.
type RenderTarget interface {
	// Texture returns the colour attachment of the target.
	Texture() Texture
	Size() (int, int)
	// SetSize reallocates the target storage. Previous contents are discarded.
	SetSize(width, height int) error
	Destroy()
}

// Device is the rendering runtime. A nil RenderTarget addresses the visible surface.
type Device interface {
	NewRenderTarget(width, height int) (RenderTarget, error)
	NewTexture(width, height int, rgba []byte) (Texture, error)
	SetRenderTarget(rt RenderTarget)
	SetViewport(width, height int)
	Clear()
	Render(scene *Scene, camera *Camera) error
	// ReadPixels reads RGBA bytes from the currently bound render target.
	ReadPixels(width, height int) ([]byte, error)
	Destroy()
}
