package config

import (
	"fmt"
	"os"

	"github.com/san-kum/boxsim/internal/boxmodel"
	"gopkg.in/yaml.v3"
)

// ModelFile is the YAML description of a box model.
type ModelFile struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Steps       int           `yaml:"steps"`
	StepLength  float64       `yaml:"step_length"`
	Boxes       Boxes         `yaml:"boxes"`
	Processes   []ProcessSpec `yaml:"processes"`
}

// BoxSpec is one compartment with its attributes in file order.
type BoxSpec struct {
	Label string
	Attrs []boxmodel.Attribute
}

// Boxes decodes a YAML mapping of box label to attribute mapping,
// keeping the order of both levels.
type Boxes []BoxSpec

type ProcessSpec struct {
	Box    string    `yaml:"box"`
	Label  string    `yaml:"label"`
	Target string    `yaml:"target"`
	Flux   *FluxSpec `yaml:"flux,omitempty"`
	Expr   string    `yaml:"expr,omitempty"`
	Args   []string  `yaml:"args,omitempty"`
	Sign   string    `yaml:"sign,omitempty"`
}

// FluxSpec names a built-in flux and its parameters.
type FluxSpec struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

func (b *Boxes) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: boxes must be a mapping (line %d)", boxmodel.ErrTypeMismatch, n.Line)
	}

	out := make(Boxes, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if val.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: box %q is not a mapping (line %d)", boxmodel.ErrTypeMismatch, key.Value, val.Line)
		}

		spec := BoxSpec{Label: key.Value}
		for j := 0; j+1 < len(val.Content); j += 2 {
			name, v := val.Content[j], val.Content[j+1]
			f, err := numeric(v)
			if err != nil {
				return fmt.Errorf("%w: %s.%s: %v (line %d)", boxmodel.ErrTypeMismatch, key.Value, name.Value, err, v.Line)
			}
			spec.Attrs = append(spec.Attrs, boxmodel.Attr(name.Value, f))
		}
		out = append(out, spec)
	}

	*b = out
	return nil
}

func (b Boxes) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, box := range b {
		attrs := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		for _, a := range box.Attrs {
			var v yaml.Node
			if err := v.Encode(a.Value); err != nil {
				return nil, err
			}
			attrs.Content = append(attrs.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: a.Name}, &v)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: box.Label}, attrs)
	}
	return root, nil
}

func numeric(n *yaml.Node) (float64, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("expected a number")
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
	default:
		return 0, fmt.Errorf("expected a number, got %q", n.Value)
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, err
	}
	return f, nil
}

func ParseModel(data []byte) (*ModelFile, error) {
	var mf ModelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, err
	}
	return &mf, nil
}

func LoadModel(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mf, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if mf.Name == "" {
		mf.Name = path
	}
	return mf, nil
}

// YAML encodes the model file, keeping box and attribute order.
func (mf *ModelFile) YAML() ([]byte, error) {
	return yaml.Marshal(mf)
}

func SaveModel(path string, mf *ModelFile) error {
	data, err := mf.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve loads arg as a model file when it exists on disk and as a preset
// name otherwise.
func Resolve(arg string) (*ModelFile, error) {
	if _, err := os.Stat(arg); err == nil {
		return LoadModel(arg)
	}
	if mf := GetPreset(arg); mf != nil {
		return mf, nil
	}
	return nil, fmt.Errorf("no model file or preset named %q", arg)
}

// Override applies non-zero CLI step settings to the model file.
func (mf *ModelFile) Override(cfg *Config) {
	if cfg.Steps > 0 {
		mf.Steps = cfg.Steps
	}
	if cfg.StepLength > 0 {
		mf.StepLength = cfg.StepLength
	}
}
