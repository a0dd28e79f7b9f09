package simconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/golobby/config/v3/pkg/feeder"
	"gopkg.in/yaml.v3"
)

// Source feeds configuration values into a target struct from one
// underlying location (a file, the environment, ...). The Loader applies
// sources in ascending Priority order, so a higher-priority source is
// fed last and its fields win over any lower-priority source that set
// the same field.
type Source interface {
	Name() string
	Priority() int
	// Feed decodes this source into target, a pointer to a struct.
	Feed(target any) error
	// Raw returns a flat field-path → value map of everything this
	// source would set, used to compute FieldProvenance without a
	// second decode pass.
	Raw() (map[string]any, error)
}

// TomlSource loads a TOML file via BurntSushi/toml.
type TomlSource struct {
	Path string
	Prio int
}

func NewTomlSource(path string, priority int) *TomlSource { return &TomlSource{Path: path, Prio: priority} }

func (s *TomlSource) Name() string  { return "toml:" + s.Path }
func (s *TomlSource) Priority() int { return s.Prio }

func (s *TomlSource) Feed(target any) error {
	_, err := toml.DecodeFile(s.Path, target)
	if err != nil {
		return fmt.Errorf("simconfig: decode toml %s: %w", s.Path, err)
	}
	return nil
}

func (s *TomlSource) Raw() (map[string]any, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(s.Path, &raw); err != nil {
		return nil, fmt.Errorf("simconfig: decode toml %s: %w", s.Path, err)
	}
	return raw, nil
}

// YamlSource loads a YAML file via gopkg.in/yaml.v3.
type YamlSource struct {
	Path string
	Prio int
}

func NewYamlSource(path string, priority int) *YamlSource { return &YamlSource{Path: path, Prio: priority} }

func (s *YamlSource) Name() string  { return "yaml:" + s.Path }
func (s *YamlSource) Priority() int { return s.Prio }

func (s *YamlSource) Feed(target any) error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("simconfig: read yaml %s: %w", s.Path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("simconfig: decode yaml %s: %w", s.Path, err)
	}
	return nil
}

func (s *YamlSource) Raw() (map[string]any, error) {
	var raw map[string]any
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("simconfig: read yaml %s: %w", s.Path, err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("simconfig: decode yaml %s: %w", s.Path, err)
	}
	return raw, nil
}

// EnvSource reads environment variables via golobby/config's Env feeder.
type EnvSource struct {
	Prio int
}

func NewEnvSource(priority int) *EnvSource { return &EnvSource{Prio: priority} }

func (s *EnvSource) Name() string  { return "env" }
func (s *EnvSource) Priority() int { return s.Prio }

func (s *EnvSource) Feed(target any) error {
	if err := (feeder.Env{}).Feed(target); err != nil {
		return fmt.Errorf("simconfig: feed env: %w", err)
	}
	return nil
}

// Raw for EnvSource returns nil: environment variables aren't
// enumerable into a field-path map the way a file's keys are, so the
// Loader records no provenance for values this source sets.
func (s *EnvSource) Raw() (map[string]any, error) { return nil, nil }
