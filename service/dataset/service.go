// Package dataset rewrites the split paths of a YOLO data.yaml to absolute paths.
package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thirukguru/yolo-workbench/model"
	"gopkg.in/yaml.v3"
)

// NewService creates a new dataset service.
func NewService() Service {
	return &service{}
}

// Rewrite points train, val and test at <dir>/{train,valid,test}/images, where dir is the
// manifest's absolute directory. Other keys keep their order and values. An empty
// destination rewrites the manifest in place.
func (s *service) Rewrite(manifestPath, destination string) (model.ManifestRewrite, error) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return model.ManifestRewrite{}, fmt.Errorf("failed to resolve %s: %w", manifestPath, err)
	}
	base := filepath.Dir(abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return model.ManifestRewrite{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.ManifestRewrite{}, fmt.Errorf("failed to parse manifest %s: %w", abs, err)
	}
	root, err := mappingRoot(&doc)
	if err != nil {
		return model.ManifestRewrite{}, fmt.Errorf("invalid manifest %s: %w", abs, err)
	}

	paths := map[string]string{}
	for _, sd := range splitDirs {
		p := filepath.Join(base, sd.dir, "images")
		setScalar(root, sd.key, p)
		paths[sd.key] = p
	}

	out := destination
	if out == "" {
		out = abs
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return model.ManifestRewrite{}, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return model.ManifestRewrite{}, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.ManifestRewrite{}, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return model.ManifestRewrite{}, fmt.Errorf("failed to write manifest: %w", err)
	}

	return model.ManifestRewrite{
		Source:      abs,
		Destination: out,
		Train:       paths["train"],
		Val:         paths["val"],
		Test:        paths["test"],
	}, nil
}

func mappingRoot(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind == 0 {
		// Empty file: start a fresh mapping.
		doc.Kind = yaml.DocumentNode
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("unexpected document structure")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping")
	}
	root.Style = 0
	return root, nil
}

// setScalar replaces the value of key, or appends the pair when key is absent.
func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}
