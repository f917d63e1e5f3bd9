package engine

// Shader sources for the mesh pipeline. The effect passes bring their own
// programs (see package effects).

const maxDirectionalLights = 4

// Vertex shader for lit meshes
const meshVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
uniform mat3 normalMatrix;

out vec3 vWorldPos;
out vec3 vNormal;
out float vFogDepth;

void main() {
    vec4 world = model * vec4(aPos, 1.0);
    vec4 viewPos = view * world;

    vWorldPos = world.xyz;
    vNormal = normalMatrix * aNormal;
    vFogDepth = -viewPos.z;

    gl_Position = projection * viewPos;
}
`

// Blinn-Phong with ambient and directional lights and linear fog
const meshFragmentShaderSource = `
#version 410 core
#define MAX_DIR_LIGHTS 4

in vec3 vWorldPos;
in vec3 vNormal;
in float vFogDepth;

out vec4 FragColor;

uniform vec3 diffuse;
uniform vec3 specular;
uniform float shininess;

uniform vec3 ambientLight;
uniform int numDirLights;
uniform vec3 dirLightDirection[MAX_DIR_LIGHTS];
uniform vec3 dirLightColor[MAX_DIR_LIGHTS];
uniform vec3 cameraPosition;

uniform int useFog;
uniform vec3 fogColor;
uniform float fogNear;
uniform float fogFar;

void main() {
    vec3 normal = normalize(vNormal);
    vec3 viewDir = normalize(cameraPosition - vWorldPos);

    vec3 color = ambientLight * diffuse;
    for (int i = 0; i < numDirLights; i++) {
        vec3 l = dirLightDirection[i];
        float diff = max(dot(normal, l), 0.0);
        float spec = 0.0;
        if (diff > 0.0) {
            vec3 h = normalize(l + viewDir);
            spec = pow(max(dot(normal, h), 0.0), shininess);
        }
        color += dirLightColor[i] * (diffuse * diff + specular * spec);
    }

    if (useFog == 1) {
        float fogFactor = smoothstep(fogNear, fogFar, vFogDepth);
        color = mix(color, fogColor, fogFactor);
    }

    FragColor = vec4(color, 1.0);
}
`
