package graphics

// Uniform is a single named shader input. Materials keep pointers to
// Uniforms, so a value assigned here is seen by the next draw.
type Uniform struct {
	Value any
}

// Uniforms maps shader input names to their current values.
type Uniforms map[string]*Uniform

// Set assigns v to the named uniform, creating it on first use. The *Uniform
// stored under name is never replaced once created.
func (u Uniforms) Set(name string, v any) {
	if cur, ok := u[name]; ok {
		cur.Value = v
		return
	}
	u[name] = &Uniform{Value: v}
}

// Get returns the current value of the named uniform or nil.
func (u Uniforms) Get(name string) any {
	if cur, ok := u[name]; ok {
		return cur.Value
	}
	return nil
}
