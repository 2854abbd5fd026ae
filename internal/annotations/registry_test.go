package annotations

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("registers builtin schema", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, RegisterBuiltinSchemas(registry))

		assert.True(t, registry.IsRegistered(DelegateAnnotation))
		assert.Equal(t, []AnnotationType{DelegateAnnotation}, registry.ListTypes())

		schema, err := registry.GetSchema(DelegateAnnotation)
		require.NoError(t, err)
		assert.Contains(t, schema.Parameters, "Inline")
		assert.Contains(t, schema.Parameters, "Prefix")
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(DelegateAnnotation, DelegateAnnotationSchema))

		err := registry.Register(DelegateAnnotation, DelegateAnnotationSchema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("rejects mistyped default", func(t *testing.T) {
		registry := NewRegistry()
		schema := AnnotationSchema{
			Type: DelegateAnnotation,
			Parameters: map[string]ParameterSpec{
				"Inline": {Type: BoolType, DefaultValue: "yes"},
			},
		}

		err := registry.Register(DelegateAnnotation, schema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be bool")
	})

	t.Run("unknown schema", func(t *testing.T) {
		_, err := NewRegistry().GetSchema(DelegateAnnotation)
		assert.Error(t, err)
	})
}

func TestDefaultRegistry_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, DefaultRegistry().IsRegistered(DelegateAnnotation))
		}()
	}
	wg.Wait()
}

func TestParseAnnotationType(t *testing.T) {
	at, err := ParseAnnotationType("to")
	require.NoError(t, err)
	assert.Equal(t, DelegateAnnotation, at)
	assert.Equal(t, "to", at.String())

	_, err = ParseAnnotationType("from")
	assert.Error(t, err)
}
