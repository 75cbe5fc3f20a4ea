package experiment

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Section is the key of the experiment configuration within a config
// file. Files without this key are decoded as a Config directly.
const Section = "experiment"

// Load reads an experiment Config from a YAML or JSON file
func Load(path string) (Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	if ext := filepath.Ext(path); ext == "" {
		vp.SetConfigType("yaml")
	}
	if err := vp.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("load: could not read %v: %v", path, err)
	}

	var section interface{} = vp.AllSettings()
	if vp.IsSet(Section) {
		section = vp.Get(Section)
	}

	// The agent config is decoded by agent.TypedConfig, which needs
	// YAML nodes, so the section is re-encoded before decoding
	spec, err := yaml.Marshal(section)
	if err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}

	var c Config
	if err := yaml.Unmarshal(spec, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %v", path,
			err)
	}
	return c, nil
}
