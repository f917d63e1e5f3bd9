package effects

import "github.com/go-gl/mathgl/mgl32"

// Shader describes a full screen effect program and its default uniforms
type Shader struct {
	Name     string
	Vertex   string
	Fragment string
	Uniforms Uniforms
}

// Vertex shader shared by every full screen pass
const quadVertexShader = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 vUv;

void main() {
    vUv = aTexCoord;
    gl_Position = vec4(aPos, 1.0);
}
`

// Halftone dots outside a clear disc of radius limit around center.
// scale is the dot period in pixels divided by 2*pi.
const dotScreenFragmentShader = `
#version 410 core
in vec2 vUv;
out vec4 FragColor;

uniform sampler2D tDiffuse;
uniform vec2 resolution;
uniform vec2 center;
uniform float angle;
uniform float scale;
uniform float limit;

float pattern() {
    float s = sin(angle);
    float c = cos(angle);
    vec2 tex = (vUv - center) * resolution;
    vec2 point = vec2(c * tex.x - s * tex.y, s * tex.x + c * tex.y) / scale;
    return (sin(point.x) * sin(point.y)) * 4.0;
}

void main() {
    vec4 color = texture(tDiffuse, vUv);
    float average = (color.r + color.g + color.b) / 3.0;
    vec4 dotted = vec4(vec3(average * 10.0 - 5.0 + pattern()), color.a);

    float d = distance(vUv * resolution, center * resolution);
    float mask = smoothstep(limit, limit * 2.0, d);
    FragColor = mix(color, clamp(dotted, 0.0, 1.0), mask);
}
`

const rgbShiftFragmentShader = `
#version 410 core
in vec2 vUv;
out vec4 FragColor;

uniform sampler2D tDiffuse;
uniform vec2 resolution;
uniform float amount;
uniform float angle;

void main() {
    vec2 offset = amount * vec2(cos(angle), sin(angle));
    vec4 cr = texture(tDiffuse, vUv + offset);
    vec4 cga = texture(tDiffuse, vUv);
    vec4 cb = texture(tDiffuse, vUv - offset);
    FragColor = vec4(cr.r, cga.g, cb.b, cga.a);
}
`

// byp=1 passes the image through untouched
const digitalGlitchFragmentShader = `
#version 410 core
in vec2 vUv;
out vec4 FragColor;

uniform int byp;
uniform sampler2D tDiffuse;
uniform sampler2D tDisp;
uniform vec2 resolution;
uniform float amount;
uniform float angle;
uniform float seed;
uniform float seed_x;
uniform float seed_y;
uniform float distortion_x;
uniform float distortion_y;
uniform float col_s;

float rand(vec2 co) {
    return fract(sin(dot(co.xy, vec2(12.9898, 78.233))) * 43758.5453);
}

void main() {
    if (byp < 1) {
        vec2 p = vUv;
        float xs = floor(gl_FragCoord.x / 0.5);
        float ys = floor(gl_FragCoord.y / 0.5);
        vec4 normal = texture(tDisp, p * seed * seed);

        if (p.y < distortion_x + col_s && p.y > distortion_x - col_s * seed) {
            if (seed_x > 0.0) {
                p.y = 1.0 - (p.y + distortion_y);
            } else {
                p.y = distortion_y;
            }
        }
        if (p.x < distortion_y + col_s && p.x > distortion_y - col_s * seed) {
            if (seed_y > 0.0) {
                p.x = distortion_x;
            } else {
                p.x = 1.0 - (p.x + distortion_x);
            }
        }

        p.x += normal.x * seed_x * (seed / 5.0);
        p.y += normal.y * seed_y * (seed / 5.0);

        vec2 offset = amount * vec2(cos(angle), sin(angle));
        vec4 cr = texture(tDiffuse, p + offset);
        vec4 cga = texture(tDiffuse, p);
        vec4 cb = texture(tDiffuse, p - offset);
        FragColor = vec4(cr.r, cga.g, cb.b, cga.a);

        vec4 snow = 200.0 * amount * vec4(rand(vec2(xs * seed, ys * seed * 50.0)) * 0.2);
        FragColor = FragColor + snow;
    } else {
        FragColor = texture(tDiffuse, vUv);
    }
}
`

// DotScreenShader returns the halftone effect
func DotScreenShader() *Shader {
	return &Shader{
		Name:     "dot-screen",
		Vertex:   quadVertexShader,
		Fragment: dotScreenFragmentShader,
		Uniforms: Uniforms{
			"tDiffuse":   nil,
			"resolution": mgl32.Vec2{1, 1},
			"center":     mgl32.Vec2{0.5, 0.5},
			"angle":      float32(1.57),
			"scale":      float32(1),
			"limit":      float32(100),
		},
	}
}

// RGBShiftShader returns the chromatic offset effect
func RGBShiftShader() *Shader {
	return &Shader{
		Name:     "rgb-shift",
		Vertex:   quadVertexShader,
		Fragment: rgbShiftFragmentShader,
		Uniforms: Uniforms{
			"tDiffuse":   nil,
			"resolution": mgl32.Vec2{1, 1},
			"amount":     float32(0.005),
			"angle":      float32(0),
		},
	}
}

// DigitalGlitchShader returns the program driven by GlitchPass
func DigitalGlitchShader() *Shader {
	return &Shader{
		Name:     "digital-glitch",
		Vertex:   quadVertexShader,
		Fragment: digitalGlitchFragmentShader,
		Uniforms: Uniforms{
			"tDiffuse":     nil,
			"tDisp":        nil,
			"resolution":   mgl32.Vec2{1, 1},
			"byp":          int32(0),
			"amount":       float32(0.08),
			"angle":        float32(0.02),
			"seed":         float32(0.02),
			"seed_x":       float32(0.02),
			"seed_y":       float32(0.02),
			"distortion_x": float32(0.5),
			"distortion_y": float32(0.6),
			"col_s":        float32(0.05),
		},
	}
}
