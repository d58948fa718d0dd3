package glview

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

const shaderSource = `#shader vertex
#version 330 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec4 aColor;
layout(location = 2) in vec3 aNormal;

uniform mat4 uProjView;
uniform mat4 uModel;
uniform float uPointSize;

out vec4 vColor;
out vec3 vNormal;

void main() {
	gl_Position = uProjView * uModel * vec4(aPosition, 1.0);
	gl_PointSize = uPointSize;
	vColor = aColor;
	vNormal = mat3(uModel) * aNormal;
}

#shader fragment
#version 330 core
in vec4 vColor;
in vec3 vNormal;

uniform vec3 uLight;

out vec4 fragColor;

void main() {
	if (length(vNormal) == 0.0) {
		fragColor = vColor;
		return;
	}
	float diffuse = max(dot(normalize(vNormal), uLight), 0.0);
	fragColor = vec4(vColor.rgb * (0.3 + 0.7*diffuse), vColor.a);
}
`

// program is the compiled scene shader and its uniform locations.
type program struct {
	id         uint32
	uProjView  int32
	uModel     int32
	uPointSize int32
	uLight     int32
}

func compileProgram() (*program, error) {
	combined, err := glgl.ParseCombined(strings.NewReader(shaderSource))
	if err != nil {
		return nil, errors.Wrap(err, "parsing shaders")
	}
	glprog, err := glgl.CompileProgram(combined)
	if err != nil {
		return nil, errors.Wrap(err, "compiling shaders")
	}
	// Uniform lookups and glDeleteProgram take the raw GL program name,
	// read back here while the glgl program is bound.
	glprog.Bind()
	var id int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &id)
	p := &program{id: uint32(id)}
	p.uProjView = p.uniform("uProjView")
	p.uModel = p.uniform("uModel")
	p.uPointSize = p.uniform("uPointSize")
	p.uLight = p.uniform("uLight")
	return p, nil
}

func (p *program) uniform(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

func (p *program) delete() { gl.DeleteProgram(p.id) }

// glMesh is a mesh uploaded to the GPU.
type glMesh struct {
	mesh
	vao, vbo, ebo uint32
}

func uploadMesh(m mesh) *glMesh {
	g := &glMesh{mesh: m}
	if len(m.vertices) == 0 {
		return g
	}
	var vx vertex
	stride := int32(unsafe.Sizeof(vx))

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.vertices)*int(stride), gl.Ptr(m.vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(vx.pos))))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 4, gl.UNSIGNED_BYTE, true, stride, gl.PtrOffset(int(unsafe.Offsetof(vx.rgba))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(vx.normal))))
	gl.EnableVertexAttribArray(2)

	if len(m.indices) > 0 {
		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(m.indices), gl.Ptr(m.indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return g
}

func (g *glMesh) draw(p *program) {
	n := g.count()
	if g.vao == 0 || n == 0 {
		return
	}
	model := mgl32.Mat4(g.model)
	gl.UniformMatrix4fv(p.uModel, 1, false, &model[0])
	gl.Uniform1f(p.uPointSize, g.pointSize)
	gl.BindVertexArray(g.vao)
	if g.ebo != 0 {
		gl.DrawElements(g.mode, n, gl.UNSIGNED_INT, gl.PtrOffset(0))
	} else {
		gl.DrawArrays(g.mode, 0, n)
	}
	gl.BindVertexArray(0)
}

func (g *glMesh) delete() {
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
}
