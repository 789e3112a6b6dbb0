package glrender

import (
	"strings"

	"github.com/gm8run/glrender/v4.6-core/glgl"
)

// shaderSource is the fixed vertex+fragment pair that emulates DX8's
// fixed-function pipeline — the only shader this renderer ever compiles; see
// spec §1's Non-goal on arbitrary shader authoring. Both stages read a single
// uniform block, RenderState, laid out to match renderStateBlock field for
// field up to EndOfUniform; nothing after that sentinel is ever read by the
// shader, matching the host's "upload exactly the prefix" contract.
//
// Attribute locations are pinned by layout() qualifiers rather than looked up
// by name, since the vertex batcher (batch.go) binds them by index (0-4)
// against whichever VBO is current, without going through glgl's
// name-based VertexArray.AddAttribute.
const shaderSource = `
#shader vertex
#version 330 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec2 aUV;
layout(location = 2) in vec4 aBlend;
layout(location = 3) in vec4 aAtlasRect;
layout(location = 4) in vec3 aNormal;

struct Light {
	vec4 position;
	vec4 dir;
	vec4 colour;
	int enabled;
	int isPoint;
	float range;
	int _pad;
};

layout(std140) uniform RenderState {
	mat4 model;
	mat4 view;
	mat4 proj;
	mat4 viewProj;
	Light lights[8];
	vec4 ambientColour;
	int lighting;
	int gouraud;
	int texRepeat;
	int interpolate;
	int depthTest;
	int writeDepth;
	int culling;
	int alphaBlend;
	int blendSrc;
	int blendDst;
	int fogEnabled;
	vec4 fogColour;
	float fogBegin;
	float fogEnd;
	int gm81Normalize;
	int endOfUniform;
};

out vec2 vTexCoord;
out vec4 vAtlasRect;
out vec4 vBlend;
out vec3 vLight;
out float vFogFactor;

vec3 shadeVertex(vec3 worldPos, vec3 worldNormal) {
	vec3 n = worldNormal;
	float len = length(n);
	if (gm81Normalize != 0 && len > 1e-6) {
		n /= len;
	}
	vec3 accum = ambientColour.rgb;
	for (int i = 0; i < 8; i++) {
		if (lights[i].enabled == 0) {
			continue;
		}
		vec3 toLight;
		float atten = 1.0;
		if (lights[i].isPoint != 0) {
			toLight = lights[i].position.xyz - worldPos;
			float d = length(toLight);
			toLight = d > 1e-6 ? toLight / d : toLight;
			if (lights[i].range > 0.0) {
				atten = clamp(1.0 - d / lights[i].range, 0.0, 1.0);
			}
		} else {
			toLight = -normalize(lights[i].dir.xyz);
		}
		float ndotl = max(dot(n, toLight), 0.0);
		accum += lights[i].colour.rgb * ndotl * atten;
	}
	return accum;
}

void main() {
	vec4 worldPos = vec4(aPos, 1.0) * model;
	gl_Position = vec4(aPos, 1.0) * model * viewProj;

	vTexCoord = aUV;
	vAtlasRect = aAtlasRect;
	vBlend = aBlend;

	if (lighting != 0) {
		vLight = shadeVertex(worldPos.xyz, aNormal);
	} else {
		vLight = vec3(1.0);
	}

	if (fogEnabled != 0) {
		float dist = length((worldPos * view).xyz);
		vFogFactor = clamp((fogEnd - dist) / max(fogEnd - fogBegin, 1e-6), 0.0, 1.0);
	} else {
		vFogFactor = 1.0;
	}
}

#shader fragment
#version 330 core

in vec2 vTexCoord;
in vec4 vAtlasRect;
in vec4 vBlend;
in vec3 vLight;
in float vFogFactor;

struct Light {
	vec4 position;
	vec4 dir;
	vec4 colour;
	int enabled;
	int isPoint;
	float range;
	int _pad;
};

layout(std140) uniform RenderState {
	mat4 model;
	mat4 view;
	mat4 proj;
	mat4 viewProj;
	Light lights[8];
	vec4 ambientColour;
	int lighting;
	int gouraud;
	int texRepeat;
	int interpolate;
	int depthTest;
	int writeDepth;
	int culling;
	int alphaBlend;
	int blendSrc;
	int blendDst;
	int fogEnabled;
	vec4 fogColour;
	float fogBegin;
	float fogEnd;
	int gm81Normalize;
	int endOfUniform;
};

uniform sampler2D uTexture;

out vec4 fragColour;

void main() {
	vec2 texSize = vec2(textureSize(uTexture, 0));
	vec2 texel = (vAtlasRect.xy + vTexCoord * vAtlasRect.zw) / max(texSize, vec2(1.0));
	vec4 texColour = texture(uTexture, texel);
	vec4 colour = texColour * vBlend;

	vec3 lit = (gouraud != 0) ? colour.rgb * vLight : colour.rgb;

	vec3 withFog = mix(fogColour.rgb, lit, vFogFactor);
	fragColour = vec4(withFog, colour.a);
	if (fragColour.a <= 0.0) {
		discard;
	}
}
` + "\x00"

// compileProgram parses and links shaderSource, returning the program ready
// to Bind — the single entry point every other Renderer construction step
// depends on.
func compileProgram() (glgl.Program, error) {
	src, err := glgl.ParseCombined(strings.NewReader(shaderSource))
	if err != nil {
		return glgl.Program{}, err
	}
	return glgl.CompileProgram(src)
}
