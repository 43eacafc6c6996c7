package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string `json:"name"`        // Registry key
	DisplayName string `json:"displayName"` // Human-readable name
	Description string `json:"description"`
}

type registration struct {
	info  SceneInfo
	build func() *Scene
}

var registry = map[string]registration{}

func register(name, description string, build func() *Scene) {
	registry[name] = registration{
		info:  SceneInfo{Name: name, DisplayName: titleCase(name), Description: description},
		build: build,
	}
}

func init() {
	register("default", "Grey sphere on a large ground sphere", NewDefaultScene)
	register("spheres", "Random field of small spheres around three large ones", NewSphereGridScene)
	register("materials", "Diffuse, hollow glass and fuzzy metal spheres side by side", NewMaterialsScene)
	register("empty", "No primitives, sky gradient only", NewEmptyScene)
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for every registered scene, sorted by name
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(registry))
	for _, name := range Names() {
		infos = append(infos, registry[name].info)
	}
	return infos
}

// Lookup builds a fresh copy of the named scene
func Lookup(name string) (*Scene, error) {
	reg, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return reg.build(), nil
}

// titleCase converts a scene name to a display name
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
