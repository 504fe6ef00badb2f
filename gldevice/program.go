package gldevice

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goripple/graphics"
	xlate "github.com/richinsley/goripple/translator"
	gst "github.com/richinsley/goshadertranslator"
)

// program is a linked material together with its uniform locations.
type program struct {
	id uint32
	// mapped holds the translator's renamed identifiers for fragment uniforms.
	mapped    map[string]string
	locations map[string]int32
}

func (p *program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	glName := name
	if m, ok := p.mapped[name]; ok {
		glName = m
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(glName+"\x00"))
	p.locations[name] = loc
	return loc
}

// buildProgram translates the WebGL2 fragment source of m to desktop GLSL and
// links it with the native vertex source.
func buildProgram(m *graphics.Material) (*program, error) {
	translator, err := xlate.GetTranslator()
	if err != nil {
		return nil, err
	}
	fsShader, err := translator.TranslateShader(m.FragmentSource, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed for %s: %w", m.Name, err)
	}

	id, err := newProgram(m.VertexSource, fsShader.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program for %s: %w", m.Name, err)
	}

	p := &program{
		id:        id,
		mapped:    make(map[string]string, len(fsShader.Variables)),
		locations: make(map[string]int32),
	}
	for name, v := range fsShader.Variables {
		p.mapped[name] = v.MappedName
	}
	return p, nil
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
