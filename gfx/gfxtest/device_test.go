package gfxtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSource = `
struct PointLight {
    vec3 position;
    float constant;
};
uniform PointLight pointLights[2];
uniform mat4 model;
uniform float weights[3];
uniform sampler2D tex;
`

func TestParseUniforms(t *testing.T) {
	assert.Equal(t, []string{
		"pointLights[0].position", "pointLights[0].constant",
		"pointLights[1].position", "pointLights[1].constant",
		"model",
		"weights[0]", "weights[1]", "weights[2]", "weights",
		"tex",
	}, ParseUniforms(testSource))
}

func TestRecordsUniformNames(t *testing.T) {
	d := New()
	p, uniforms, err := d.CompileProgram(testSource, "")
	assert.NoError(t, err)
	d.UseProgram(p)
	d.Uniform1f(uniforms["pointLights[1].constant"], 2)

	v, ok := d.Written("pointLights[1].constant")
	assert.True(t, ok)
	assert.Equal(t, float32(2), v)
	assert.Equal(t, []string{"uniform:pointLights[1].constant"}, d.Log)
}
