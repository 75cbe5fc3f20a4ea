package agent

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// TypedConfig implements functionality for typing a Config. In this
// way, a Config can explicitly have its type stored so that when
// deserializing the Config, we can deserialize it into its concrete
// type without knowing beforehand or declaring beforehand a variable
// of its concrete type.
//
// The YAML layout is:
//
//	type: TRPO-Linear
//	config:
//	  discount: 0.99
//	  ...
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config and returns it as a
// TypedConfig which explicitly holds its Type.
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

type rawTypedConfig struct {
	Type   Type      `yaml:"type"`
	Config yaml.Node `yaml:"config"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (t *TypedConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw rawTypedConfig
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("unmarshalYAML: %v", err)
	}

	ty, ok := registeredTypes[raw.Type]
	if !ok {
		return fmt.Errorf("unmarshalYAML: no agent type %q registered, "+
			"want one of %v", raw.Type, Registered())
	}

	// Decode into a pointer to the concrete type
	config := reflect.New(ty)
	if raw.Config.Kind != 0 {
		if err := raw.Config.Decode(config.Interface()); err != nil {
			return fmt.Errorf("unmarshalYAML: %v config: %v", raw.Type, err)
		}
	}

	t.Type = raw.Type
	t.Config = config.Elem().Interface().(Config)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface
func (t TypedConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Type   Type   `yaml:"type"`
		Config Config `yaml:"config"`
	}{t.Type, t.Config}, nil
}
