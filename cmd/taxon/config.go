package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// config holds the defaults merged under any flags the user actually
// passes on the command line. A config file is optional; when absent,
// every field keeps its zero value and flags behave exactly as their own
// defaults describe.
type config struct {
	JSONMode           bool `yaml:"json_mode"`
	BinAsBase64        bool `yaml:"bin_as_base64"`
	BypassNestingLimit bool `yaml:"bypass_nesting_limit"`
}

// loadConfig reads a YAML config file at path. A missing file is not an
// error: it yields the zero config, so the CLI still runs off flag
// defaults alone.
func loadConfig(path string) (config, error) {
	var cfg config
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
