package annotations

import "fmt"

// DelegateAnnotationSchema defines the schema for //delegate::to annotations
var DelegateAnnotationSchema = AnnotationSchema{
	Type:        DelegateAnnotation,
	Description: "Forwards the exported methods and fields of a member through its containing type",
	Parameters: map[string]ParameterSpec{
		"Inline": {
			Type:         BoolType,
			DefaultValue: false,
			Description:  "Emit the inline directive on every forwarder; honoured only as the sole argument",
		},
		"Prefix": {
			Type:        StringType,
			Description: "Reserved name prefix for forwarders, recorded but not applied",
		},
	},
	Examples: []string{
		"//delegate::to",
		"//delegate::to -Inline",
		"//delegate::to -Inline=true",
		"//delegate::to -Prefix=Child",
	},
}

// RegisterBuiltinSchemas registers all built-in schemas with the registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}
	return nil
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		DelegateAnnotationSchema,
	}
}
