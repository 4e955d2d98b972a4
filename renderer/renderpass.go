package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	shader "github.com/richinsley/goframeview/shader"
	translator "github.com/richinsley/goframeview/translator"
)

// RenderPass is one fullscreen program plus the locations of its uniforms,
// looked up by their names in the untranslated source.
type RenderPass struct {
	ShaderProgram uint32
	locations     map[string]int32
}

func newRenderPass(fragmentSource string, uniforms ...string) (*RenderPass, error) {
	code, names, err := translator.Fragment(fragmentSource)
	if err != nil {
		return nil, err
	}
	program, err := newProgram(shader.GenerateVertexShader(), code)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	pass := &RenderPass{ShaderProgram: program, locations: make(map[string]int32)}
	for _, u := range uniforms {
		pass.locations[u] = -1
		if mapped, ok := names[u]; ok {
			pass.locations[u] = gl.GetUniformLocation(program, gl.Str(mapped+"\x00"))
		}
	}
	return pass, nil
}

// loc returns -1 for uniforms the translator optimised away; gl.Uniform*
// ignores that location.
func (p *RenderPass) loc(name string) int32 {
	if l, ok := p.locations[name]; ok {
		return l
	}
	return -1
}

func (p *RenderPass) Destroy() {
	gl.DeleteProgram(p.ShaderProgram)
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
