package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	yamlv3 "gopkg.in/yaml.v3"
)

// versionKeys hold dotted versions; 12.10 must not collapse to the float 12.1.
var versionKeys = map[string]bool{"minimum": true}

// versionYAML is the koanf YAML parser with version-valued scalars kept as text.
type versionYAML struct{}

func (versionYAML) Unmarshal(b []byte) (map[string]interface{}, error) {
	var root yamlv3.Node
	if err := yamlv3.Unmarshal(b, &root); err != nil {
		return nil, err
	}

	out := map[string]interface{}{}
	if len(root.Content) == 0 {
		return out, nil
	}
	keepVersionsText(&root)
	if err := root.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (versionYAML) Marshal(o map[string]interface{}) ([]byte, error) {
	return yaml.Parser().Marshal(o)
}

func keepVersionsText(n *yamlv3.Node) {
	if n.Kind == yamlv3.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if versionKeys[key.Value] && val.Kind == yamlv3.ScalarNode && (val.Tag == "!!float" || val.Tag == "!!int") {
				val.Tag = "!!str"
			}
		}
	}
	for _, c := range n.Content {
		keepVersionsText(c)
	}
}
