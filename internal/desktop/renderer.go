package desktop

import (
	"fmt"
	"unsafe"

	"citysim/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// MaxSpriteRender caps the streaming sprite buffer.
const MaxSpriteRender = 8192

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	// Box program.
	boxProg uint32
	boxVAO  uint32
	boxVBO  uint32

	uModel      int32
	uViewProj   int32
	uColor      int32
	uRoughness  int32
	uSunDir     int32
	uSunColor   int32
	uAmbient    int32
	uEye        int32
	uFogColor   int32
	uFogDensity int32

	// Sprite program.
	spriteProg uint32
	spriteVAO  uint32
	spriteVBO  uint32

	spUViewProj   int32
	spUViewportH  int32
	spUFogColor   int32
	spUFogDensity int32
}

func NewRenderer() (*Renderer, error) {
	boxProg, err := linkProgram(boxVertSrc, boxFragSrc)
	if err != nil {
		return nil, fmt.Errorf("box program: %w", err)
	}
	spriteProg, err := linkProgram(spriteVertSrc, spriteFragSrc)
	if err != nil {
		gl.DeleteProgram(boxProg)
		return nil, fmt.Errorf("sprite program: %w", err)
	}
	r := &Renderer{boxProg: boxProg, spriteProg: spriteProg}

	// Box VAO/VBO: the unit cube, drawn once per box.
	var bVAO, bVBO uint32
	gl.GenVertexArrays(1, &bVAO)
	gl.GenBuffers(1, &bVBO)
	gl.BindVertexArray(bVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, bVBO)

	cube := scene.CubeMesh()
	gl.BufferData(gl.ARRAY_BUFFER, len(cube)*4, gl.Ptr(&cube[0]), gl.STATIC_DRAW)
	stride := int32(scene.CubeStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	r.boxVAO = bVAO
	r.boxVBO = bVBO

	gl.UseProgram(boxProg)
	r.uModel = gl.GetUniformLocation(boxProg, gl.Str("uModel\x00"))
	r.uViewProj = gl.GetUniformLocation(boxProg, gl.Str("uViewProj\x00"))
	r.uColor = gl.GetUniformLocation(boxProg, gl.Str("uColor\x00"))
	r.uRoughness = gl.GetUniformLocation(boxProg, gl.Str("uRoughness\x00"))
	r.uSunDir = gl.GetUniformLocation(boxProg, gl.Str("uSunDir\x00"))
	r.uSunColor = gl.GetUniformLocation(boxProg, gl.Str("uSunColor\x00"))
	r.uAmbient = gl.GetUniformLocation(boxProg, gl.Str("uAmbient\x00"))
	r.uEye = gl.GetUniformLocation(boxProg, gl.Str("uEye\x00"))
	r.uFogColor = gl.GetUniformLocation(boxProg, gl.Str("uFogColor\x00"))
	r.uFogDensity = gl.GetUniformLocation(boxProg, gl.Str("uFogDensity\x00"))

	// Sprite VAO/VBO: streaming buffer for point sprites.
	// Each sprite: 8 floats (x, y, z, size, r, g, b, a).
	var sVAO, sVBO uint32
	gl.GenVertexArrays(1, &sVAO)
	gl.GenBuffers(1, &sVBO)
	gl.BindVertexArray(sVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, sVBO)

	stride = int32(scene.SpriteStride * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxSpriteRender*int(stride), nil, gl.STREAM_DRAW)
	// aWorldPos (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	// aSize (float)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(3*4))
	// aColor (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(4*4))
	r.spriteVAO = sVAO
	r.spriteVBO = sVBO

	gl.UseProgram(spriteProg)
	r.spUViewProj = gl.GetUniformLocation(spriteProg, gl.Str("uViewProj\x00"))
	r.spUViewportH = gl.GetUniformLocation(spriteProg, gl.Str("uViewportH\x00"))
	r.spUFogColor = gl.GetUniformLocation(spriteProg, gl.Str("uFogColor\x00"))
	r.spUFogDensity = gl.GetUniformLocation(spriteProg, gl.Str("uFogDensity\x00"))

	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.boxVBO, r.spriteVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.boxVAO, r.spriteVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.boxProg, r.spriteProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// Draw renders one frame: opaque boxes first, then blended sprites.
func (r *Renderer) Draw(f *scene.Frame, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	sky := f.Light.Sky
	gl.ClearColor(sky[0], sky[1], sky[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	viewProj := f.Proj.Mul4(f.View)
	l := f.Light

	gl.UseProgram(r.boxProg)
	gl.BindVertexArray(r.boxVAO)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(r.uSunDir, l.SunDir[0], l.SunDir[1], l.SunDir[2])
	gl.Uniform3f(r.uSunColor, l.SunColor[0], l.SunColor[1], l.SunColor[2])
	gl.Uniform1f(r.uAmbient, l.Ambient)
	gl.Uniform3f(r.uEye, f.Eye[0], f.Eye[1], f.Eye[2])
	gl.Uniform3f(r.uFogColor, l.Fog[0], l.Fog[1], l.Fog[2])
	gl.Uniform1f(r.uFogDensity, l.FogDensity)
	for i := range f.Boxes {
		b := &f.Boxes[i]
		gl.UniformMatrix4fv(r.uModel, 1, false, &b.Model[0])
		gl.Uniform3f(r.uColor, b.Color[0], b.Color[1], b.Color[2])
		gl.Uniform1f(r.uRoughness, b.Roughness)
		gl.DrawArrays(gl.TRIANGLES, 0, 36)
	}

	r.drawSprites(f, viewProj, fbH)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawSprites(f *scene.Frame, viewProj [16]float32, fbH int) {
	n := f.SpriteCount()
	if n == 0 {
		return
	}
	if n > MaxSpriteRender {
		n = MaxSpriteRender
	}
	gl.UseProgram(r.spriteProg)
	gl.BindVertexArray(r.spriteVAO)
	gl.UniformMatrix4fv(r.spUViewProj, 1, false, &viewProj[0])
	gl.Uniform1f(r.spUViewportH, float32(fbH))
	l := f.Light
	gl.Uniform3f(r.spUFogColor, l.Fog[0], l.Fog[1], l.Fog[2])
	gl.Uniform1f(r.spUFogDensity, l.FogDensity)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*scene.SpriteStride*4, gl.Ptr(&f.Sprites[0]))

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	gl.DrawArrays(gl.POINTS, 0, int32(n))
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}
