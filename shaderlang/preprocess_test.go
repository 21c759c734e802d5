package shaderlang_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/shaderlang"
)

func TestPreprocessNested(t *testing.T) {
	src := assets.NewMemory(map[string]string{
		"shaders/lighting.frag": "#version 430 core\n#include \"lib/light.glsl\"\nvoid main() { float a = 4.0 / 2.0; }\n",
		"shaders/lib/light.glsl": "#include \"common.glsl\"\nstruct Light { vec3 p; };",
		"shaders/lib/common.glsl": "#define PI 3.14159\n",
	})

	out, err := shaderlang.Preprocess("shaders/lighting.frag", src)
	require.NoError(t, err)
	assert.Equal(t,
		"#version 430 core\n#define PI 3.14159\n\nstruct Light { vec3 p; };\n\nvoid main() { float a = 4.0 / 2.0; }\n",
		out)
}

func TestPreprocessIgnoresCommentedIncludes(t *testing.T) {
	src := assets.NewMemory(map[string]string{
		"a.glsl": "// #include \"missing.glsl\"\n/* #include \"missing.glsl\" */\nvoid f();\n",
	})
	out, err := shaderlang.Preprocess("a.glsl", src)
	require.NoError(t, err)
	assert.Equal(t, "// #include \"missing.glsl\"\n/* #include \"missing.glsl\" */\nvoid f();\n", out)
	assert.Equal(t, 0, src.Reads("missing.glsl"))
}

func TestPreprocessCycle(t *testing.T) {
	src := assets.NewMemory(map[string]string{
		"a.glsl": "#include \"b.glsl\"\n",
		"b.glsl": "#include \"a.glsl\"\n",
	})
	_, err := shaderlang.Preprocess("a.glsl", src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shaderlang.ErrIncludeCycle))
	assert.Contains(t, err.Error(), "a.glsl -> b.glsl -> a.glsl")
}

func TestPreprocessMissingInclude(t *testing.T) {
	src := assets.NewMemory(map[string]string{
		"a.glsl": "#include \"nope.glsl\"\n",
	})
	_, err := shaderlang.Preprocess("a.glsl", src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, assets.ErrNotFound))
}

func TestExpandInline(t *testing.T) {
	src := assets.NewMemory(map[string]string{
		"shaders/common.glsl": "float x;",
	})
	out, err := shaderlang.Expand("#include \"common.glsl\"\nvoid main(){}", "shaders", src)
	require.NoError(t, err)
	assert.Equal(t, "float x;\n\nvoid main(){}", out)
}
