package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

// The vertex stage only covers the screen; every fragment shader works from
// gl_FragCoord so nothing has to be passed between stages.
const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
void main() {
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ──────────────────────────── WebGL2 (translated) ──────────────────────────────

const preamble = `#version 300 es
precision highp float;
precision highp int;

out vec4 fragColor;
`

// Frame pass. uInverseModel maps framebuffer pixels into the frame's
// center-origin space; texture rows are stored top to bottom.
const frameFragmentSource = preamble + `
uniform sampler2D uFrame;
uniform mat4  uInverseModel;
uniform vec2  uFrameSize;
uniform float uScale;
uniform vec4  uCrop;      // x1, y1, x2, y2 in frame pixels, bottom-left origin
uniform int   uHasCrop;
uniform vec3  uBackground;

const vec3 CROP_EDGE = vec3(1.0, 0.8, 0.1);
const float CHECKER = 8.0;

void main() {
    vec2 local = (uInverseModel * vec4(gl_FragCoord.xy, 0.0, 1.0)).xy;
    vec2 p = local + 0.5 * uFrameSize;
    if (any(lessThan(p, vec2(0.0))) || any(greaterThanEqual(p, uFrameSize))) {
        fragColor = vec4(uBackground, 1.0);
        return;
    }

    ivec2 texel = ivec2(floor(p));
    texel.y = int(uFrameSize.y) - 1 - texel.y;
    vec4 c = texelFetch(uFrame, texel, 0);

    // transparent pixels show a checkerboard
    float check = mod(floor(gl_FragCoord.x / CHECKER) + floor(gl_FragCoord.y / CHECKER), 2.0);
    vec3 rgb = mix(mix(vec3(0.55), vec3(0.45), check), c.rgb, c.a);

    vec2 lo = uCrop.xy;
    vec2 hi = uCrop.zw;
    if (uHasCrop == 1 && all(lessThan(lo, hi))) {
        bool inside = all(greaterThanEqual(p, lo)) && all(lessThan(p, hi));
        if (!inside) {
            rgb *= 0.45;
        }
        // one screen pixel wide outline just outside the selection
        float w = 1.0 / uScale;
        vec2 olo = lo - w;
        vec2 ohi = hi + w;
        bool ring = all(greaterThanEqual(p, olo)) && all(lessThan(p, ohi)) && !inside;
        if (ring) {
            rgb = CROP_EDGE;
        }
    }
    fragColor = vec4(rgb, 1.0);
}
`

// HUD pass. The overlay texture covers the bottom uHudSize pixels of the
// window and holds premultiplied alpha.
const hudFragmentSource = preamble + `
uniform sampler2D uHud;
uniform vec2 uHudSize;

void main() {
    if (gl_FragCoord.y >= uHudSize.y || gl_FragCoord.x >= uHudSize.x) {
        discard;
    }
    ivec2 texel = ivec2(floor(gl_FragCoord.xy));
    texel.y = int(uHudSize.y) - 1 - texel.y;
    fragColor = texelFetch(uHud, texel, 0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader() string {
	return vertexShaderSourceGL
}

// GetFrameFragmentShader returns the frame pass in the WebGL2 dialect.
func GetFrameFragmentShader() string {
	return frameFragmentSource
}

// GetHUDFragmentShader returns the overlay pass in the WebGL2 dialect.
func GetHUDFragmentShader() string {
	return hudFragmentSource
}
