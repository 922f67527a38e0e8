// File: internal/project/project.go
// Brief: Project root resolution, configuration loading, and image tag derivation.

// Package project models a ddc project: a directory holding a ddc.config.yaml
// file and optionally "requirements", "themes", "settings" and "fixtures"
// directories. The image tags derived here are pure functions of the project
// name and the byte contents of those directories, so they double as build
// cache keys.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the marker file that identifies a project root.
	ConfigFileName = "ddc.config.yaml"

	// DefaultBaseImage is the development base image with dev goodies and
	// precompiled assets.
	DefaultBaseImage = "ddc/openedx-ironwood:latest"

	// DefaultFinalBaseImage is the base for the final production build.
	DefaultFinalBaseImage = "ddc/openedx-nostatic:latest"

	localComposeName = "docker-compose.yml"

	// Image tags embed the first 6 hex characters of the directory digest.
	// Collisions at this length only cost a stale cache hit, never a wrong
	// deploy, because the full content is rebuilt from the directory itself.
	tagHashLen = 6
)

// Config mirrors ddc.config.yaml. Only ProjectName is required.
type Config struct {
	ProjectName    string `yaml:"project_name"`
	BaseImage      string `yaml:"base_image"`
	FinalBaseImage string `yaml:"final_base_image"`
	MySQLDBName    string `yaml:"mysql_db_name"`
	DefaultRunMode string `yaml:"default_runmode"`
}

// Project is constructed fresh per invocation from the filesystem. It holds
// no cross-invocation state beyond the status files persisted under Root.
type Project struct {
	Root   string
	Name   string
	Config Config

	BaseImage      string
	FinalBaseImage string

	// Optional directories; empty when absent under Root.
	RequirementsDir string
	ThemesDir       string
	SettingsDir     string
	FixturesDir     string

	// LocalCompose points at a project-level docker-compose.yml, if present.
	LocalCompose string

	RequirementsImageTag string
	ThemesImageTag       string
	ImageTag             string

	MySQLDBName string

	log *zap.Logger
}

// FindRoot walks upward from start (inclusive) until a directory containing
// ConfigFileName is found. Reaching the filesystem root without a match
// yields a *NotFoundError.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	current := abs
	for {
		candidate := filepath.Join(current, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", &NotFoundError{Start: abs}
		}
		current = parent
	}
}

// LoadCwd resolves the project containing the current working directory.
func LoadCwd(logger *zap.Logger) (*Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return Load(cwd, logger)
}

// Load resolves the project root from start, parses its configuration and
// derives the image tag chain. A missing project_name is rejected here, not
// deferred to first use.
func Load(start string, logger *zap.Logger) (*Project, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, err := FindRoot(start)
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(root, ConfigFileName)
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, &ConfigError{Path: configPath, Reason: err.Error()}
	}
	if strings.TrimSpace(cfg.ProjectName) == "" {
		return nil, &ConfigError{Path: configPath, Reason: "a project_name was not specified"}
	}

	p := &Project{
		Root:           root,
		Name:           cfg.ProjectName,
		Config:         cfg,
		BaseImage:      cfg.BaseImage,
		FinalBaseImage: cfg.FinalBaseImage,
		MySQLDBName:    cfg.MySQLDBName,
		log:            logger,
	}
	if p.BaseImage == "" {
		p.BaseImage = DefaultBaseImage
	}
	if p.FinalBaseImage == "" {
		p.FinalBaseImage = DefaultFinalBaseImage
	}
	if p.MySQLDBName == "" {
		p.MySQLDBName = fmt.Sprintf("%s_edxapp", p.Name)
	}

	if local := filepath.Join(root, localComposeName); isRegular(local) {
		p.LocalCompose = local
	}
	p.SettingsDir = optionalDir(root, "settings")
	p.FixturesDir = optionalDir(root, "fixtures")

	if err := p.deriveImageTags(); err != nil {
		return nil, err
	}
	return p, nil
}

// deriveImageTags computes the requirements -> themes -> final tag chain.
// Each stage falls back to the previous stage's tag when its directory is
// absent, meaning no rebuild is needed beyond that layer.
func (p *Project) deriveImageTags() error {
	p.RequirementsDir = optionalDir(p.Root, "requirements")
	if p.RequirementsDir != "" {
		digest, err := DirHash(p.RequirementsDir)
		if err != nil {
			return err
		}
		p.RequirementsImageTag = fmt.Sprintf("%s/openedx-requirements:%s", p.Name, digest[:tagHashLen])
	} else {
		p.RequirementsImageTag = p.BaseImage
	}

	p.ThemesDir = optionalDir(p.Root, "themes")
	if p.ThemesDir != "" {
		digest, err := DirHash(p.ThemesDir)
		if err != nil {
			return err
		}
		p.ThemesImageTag = fmt.Sprintf("%s/openedx-themes:%s", p.Name, digest[:tagHashLen])
	} else {
		p.ThemesImageTag = p.RequirementsImageTag
	}

	p.ImageTag = p.ThemesImageTag
	return nil
}

func optionalDir(root, name string) string {
	path := filepath.Join(root, name)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return ""
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
