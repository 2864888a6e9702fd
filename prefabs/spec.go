package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec is a list of entities to build into a fresh world. Each entry
// names a prefab and may override some of its components.
type SceneSpec struct {
	Name     string            `yaml:"name"`
	Entities []SceneEntitySpec `yaml:"entities"`
}

type SceneEntitySpec struct {
	Prefab     string         `yaml:"prefab"`
	Components map[string]any `yaml:"components"`
}

func LoadScene(name string) (SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](cleanScenePath(name))
	if err != nil {
		return SceneSpec{}, err
	}
	if len(spec.Entities) == 0 {
		return SceneSpec{}, fmt.Errorf("prefabs: scene %s has no entities", name)
	}
	return spec, nil
}
