package assets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the static asset set of a scene. Entries are asset names
// relative to the asset root and are resolved through the AssetManager.
type Manifest struct {
	Scene     string   `yaml:"scene"`
	Textures  []string `yaml:"textures"`
	Materials []string `yaml:"materials"`
	Fonts     []string `yaml:"fonts"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("invalid scene manifest: %w", err)
	}
	if m.Scene == "" {
		return nil, fmt.Errorf("scene manifest is missing the 'scene' name")
	}
	m.Textures = dedupe(m.Textures)
	m.Materials = dedupe(m.Materials)
	m.Fonts = dedupe(m.Fonts)
	return m, nil
}

// Count is the number of entries across all sections.
func (m *Manifest) Count() int {
	return len(m.Textures) + len(m.Materials) + len(m.Fonts)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
