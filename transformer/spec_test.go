package transformer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSpecBuiltin(t *testing.T) {
	cfg, err := BuildConfig(baseArgs())
	require.NoError(t, err)

	spec, err := BuildSpec("gpt-te", cfg)
	require.NoError(t, err)

	assert.Equal(t, "gpt-te", spec.Name)
	impl, ok := spec.Submodule("linear_qkv")
	assert.True(t, ok)
	assert.Equal(t, "TELayerNormColumnParallelLinear", impl)
	assert.Contains(t, spec.String(), "TransformerLayer(input_layernorm=IdentityOp, ")
}

func TestBuildSpecUnknown(t *testing.T) {
	_, err := BuildSpec("does-not-exist", nil)
	if !errors.Is(err, ErrUnknownSpec) {
		t.Errorf("ErrUnknownSpec erwartet, got %v", err)
	}
}

func TestRegisterSpecDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		RegisterSpec("gpt-local", func(*Config) (*LayerSpec, error) { return nil, nil })
	})
}

func TestRegisterSpecBuilderError(t *testing.T) {
	boom := errors.New("boom")
	RegisterSpec("test-failing", func(*Config) (*LayerSpec, error) { return nil, boom })

	assert.True(t, HasSpec("test-failing"))
	assert.Contains(t, Specs(), "test-failing")

	_, err := BuildSpec("test-failing", nil)
	assert.ErrorIs(t, err, boom)
}

func TestLayerSpecClone(t *testing.T) {
	spec := NewLayerSpec("x", "Layer").With("a", "A").With("b", "B")
	clone := spec.Clone().With("a", "Z")

	impl, _ := spec.Submodule("a")
	assert.Equal(t, "A", impl)
	impl, _ = clone.Submodule("a")
	assert.Equal(t, "Z", impl)
	assert.Equal(t, "Layer(a=A, b=B)", spec.String())
}
