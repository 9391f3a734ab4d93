package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// projectManifest is an optional cshape.toml discovered by walking up from
// the working directory. It supplies defaults that explicit flags and
// arguments override.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Project projectSection `toml:"project"`
	Layout  layoutSection  `toml:"layout"`
}

type projectSection struct {
	Document string `toml:"document"`
}

type layoutSection struct {
	Target  string   `toml:"target"`
	Pack    int      `toml:"pack"`
	Roots   []string `toml:"roots"`
	Flatten bool     `toml:"flatten"`
}

func findCshapeToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "cshape.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findCshapeToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return projectConfig{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "document") || strings.TrimSpace(cfg.Project.Document) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [project].document", path)
	}
	if meta.IsDefined("layout", "pack") {
		p := cfg.Layout.Pack
		if p < 0 || (p != 0 && p&(p-1) != 0) {
			return projectConfig{}, fmt.Errorf("%s: [layout].pack must be 0 or a power of two", path)
		}
	}
	return cfg, nil
}

// manifestDocument resolves the manifest's declaration document relative to
// the manifest's own directory.
func (m *projectManifest) manifestDocument() string {
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Project.Document)))
}
