package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// Merge returns a copy of s whose components are replaced, per component
// name, by those in overrides.
func (s EntityBuildSpec) Merge(overrides map[string]any) EntityBuildSpec {
	out := EntityBuildSpec{Name: s.Name, Components: make(map[string]any, len(s.Components)+len(overrides))}
	for k, v := range s.Components {
		out.Components[k] = v
	}
	for k, v := range overrides {
		out.Components[k] = v
	}
	return out
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// MotionComponentSpec gives an initial heading in degrees, 0 up and
// clockwise.
type MotionComponentSpec struct {
	Direction float64 `yaml:"direction"`
	Speed     float64 `yaml:"speed"`
}

// EmitterComponentSpec attaches a pattern to an entity. An empty Pattern
// means the pattern supplied by the caller.
type EmitterComponentSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Loop    bool   `yaml:"loop"`
}

type TTLComponentSpec struct {
	Frames int `yaml:"frames"`
}

type ArenaBoundsComponentSpec struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Margin float64 `yaml:"margin"`
}
