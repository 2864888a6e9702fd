package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed patterns/*.xml patterns/*.yaml
var PatternsFS embed.FS

//go:embed scenes/*.yaml
var ScenesFS embed.FS

// Load reads a prefab, preferring a copy on disk under prefabs/ so edited
// files win over the embedded ones.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return readEmbedded(clean)
}

// PatternNames lists the embedded patterns by file name, sorted.
func PatternNames() []string {
	entries, err := fs.ReadDir(PatternsFS, "patterns")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func readEmbedded(clean string) ([]byte, error) {
	switch {
	case strings.HasPrefix(clean, "patterns/"):
		return PatternsFS.ReadFile(clean)
	case strings.HasPrefix(clean, "scenes/"):
		return ScenesFS.ReadFile(clean)
	default:
		return PrefabsFS.ReadFile(clean)
	}
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	return path.Clean(s)
}

func cleanPatternPath(name string) string {
	s := cleanPrefabPath(name)
	if after, ok := strings.CutPrefix(s, "patterns/"); ok {
		s = after
	}
	if path.Ext(s) == "" {
		s += ".xml"
	}
	return "patterns/" + s
}

func cleanScenePath(name string) string {
	s := cleanPrefabPath(name)
	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}
	if path.Ext(s) == "" {
		s += ".yaml"
	}
	return "scenes/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
