package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	derrors "github.com/toyz/delegate/internal/errors"
)

// Loader merges configuration sources; later sources win
type Loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
}

// NewLoader creates a loader with the custom validations registered
func NewLoader() *Loader {
	v := validator.New()
	_ = v.RegisterValidation("globpattern", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})
	return &Loader{
		koanf:     koanf.New("."),
		validator: v,
	}
}

// Load builds the configuration. file is read when it exists; when
// required is set a missing file is an error. overrides holds CLI flag
// values keyed by koanf name and is applied last.
func (l *Loader) Load(file string, required bool, overrides map[string]any) (*Config, error) {
	l.koanf = koanf.New(".")

	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, derrors.WrapConfigurationError("defaults", "load", err)
	}

	if file != "" {
		if err := l.loadFile(file, required); err != nil {
			return nil, err
		}
	}

	if err := l.koanf.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, derrors.WrapConfigurationError("environment", "load", err)
	}

	if len(overrides) > 0 {
		if err := l.koanf.Load(rawMap(overrides), nil); err != nil {
			return nil, derrors.WrapConfigurationError("flags", "load", err)
		}
	}

	return l.unmarshalAndValidate()
}

// transformEnv maps DELEGATE_INLINE_DIRECTIVE to inline_directive
func transformEnv(key, value string) (string, any) {
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if name == "" {
		return "", nil
	}
	return name, value
}

func (l *Loader) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return derrors.WrapConfigurationError(path, "read", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return derrors.WrapConfigurationError(path, "parse", err)
	}

	for key, value := range values {
		if value == nil {
			delete(values, key)
		}
	}
	if err := l.koanf.Load(rawMap(values), nil); err != nil {
		return derrors.WrapConfigurationError(path, "apply", err)
	}
	return nil
}

func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var cfg Config
	if err := l.koanf.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}); err != nil {
		return nil, derrors.WrapConfigurationError("merged", "decode", err)
	}

	if err := l.validator.Struct(&cfg); err != nil {
		return nil, derrors.WrapConfigurationError("merged", "validate", err).
			WithSuggestions(
				"default_receiver must be 'pointer' or 'value'",
				"inline_directive must be a single // comment token such as //go:inline",
				"exclude entries must be valid doublestar patterns",
			)
	}
	return &cfg, nil
}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not implemented")
}
