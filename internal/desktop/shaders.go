package desktop

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Box vertex shader: unit cube placed by uModel.
const boxVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec3 vNormal;
out vec3 vWorld;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorld = world.xyz;
    vNormal = normalize(mat3(uModel) * aNormal);
    gl_Position = uViewProj * world;
}
` + "\x00"

// Box fragment shader: lambert sun + ambient, a roughness-driven highlight
// so wet roads shine, then exponential-squared fog.
const boxFragSrc = `#version 410 core

uniform vec3 uColor;
uniform float uRoughness;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform float uAmbient;
uniform vec3 uEye;
uniform vec3 uFogColor;
uniform float uFogDensity;

in vec3 vNormal;
in vec3 vWorld;
out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diff = max(dot(n, uSunDir), 0.0);
    vec3 v = normalize(uEye - vWorld);
    vec3 h = normalize(uSunDir + v);
    float shininess = mix(96.0, 4.0, uRoughness);
    float spec = pow(max(dot(n, h), 0.0), shininess) * (1.0 - uRoughness);

    vec3 col = uColor * (uAmbient + diff * uSunColor) + spec * uSunColor;

    float d = length(uEye - vWorld) * uFogDensity;
    float fog = clamp(exp(-d * d), 0.0, 1.0);
    FragColor = vec4(mix(uFogColor, col, fog), 1.0);
}
` + "\x00"

// Sprite vertex shader: world-space point sprites, size attenuated by depth.
const spriteVertSrc = `#version 410 core

layout(location = 0) in vec3 aWorldPos;
layout(location = 1) in float aSize;
layout(location = 2) in vec4 aColor;

uniform mat4 uViewProj;
uniform float uViewportH;

out vec4 vColor;
out float vDist;

void main() {
    gl_Position = uViewProj * vec4(aWorldPos, 1.0);
    gl_PointSize = max(1.0, aSize * uViewportH / max(gl_Position.w, 0.1));
    vColor = aColor;
    vDist = gl_Position.w;
}
` + "\x00"

// Sprite fragment shader: soft round point with fog.
const spriteFragSrc = `#version 410 core

uniform vec3 uFogColor;
uniform float uFogDensity;

in vec4 vColor;
in float vDist;
out vec4 FragColor;

void main() {
    float r = length(gl_PointCoord - vec2(0.5)) * 2.0;
    if (r > 1.0) discard;
    float d = vDist * uFogDensity;
    float fog = clamp(exp(-d * d), 0.0, 1.0);
    FragColor = vec4(mix(uFogColor, vColor.rgb, fog), vColor.a * (1.0 - r * r));
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
