// Package brand loads the brand profile that shapes generated posts and image prompts.
package brand

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/platform"
	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultProfile []byte

// Colors is the brand palette.
type Colors struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Accent    string `yaml:"accent"`
	Text      string `yaml:"text"`
}

// ImageStyle guides image prompt generation.
type ImageStyle struct {
	Vibe     string   `yaml:"vibe"`
	Keywords []string `yaml:"keywords"`
	Tone     string   `yaml:"tone"`
}

// PlatformOverride tightens registry limits for one platform.
type PlatformOverride struct {
	TextLimit int    `yaml:"text_limit"`
	ImageSize string `yaml:"image_size"`
}

// Profile is a brand's identity and publishing preferences.
type Profile struct {
	Name       string                      `yaml:"name"`
	LogoURL    string                      `yaml:"logo_url"`
	Colors     Colors                      `yaml:"colors"`
	Font       string                      `yaml:"font"`
	ImageStyle ImageStyle                  `yaml:"image_style"`
	DefaultCTA string                      `yaml:"default_cta"`
	Platforms  map[string]PlatformOverride `yaml:"platforms"`
}

// Default returns the embedded brand profile.
func Default() *Profile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic(fmt.Sprintf("embedded brand profile is invalid: %v", err))
	}
	return p
}

// Parse decodes a YAML brand profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse brand profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("brand profile missing name")
	}
	for key := range p.Platforms {
		if !platform.Valid(platform.ID(key)) {
			return nil, fmt.Errorf("brand profile has override for unknown platform %q", key)
		}
	}
	return &p, nil
}

// Load reads a brand profile from path. An empty path returns the default profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		logger.Debug("Using embedded brand profile")
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded brand profile %q from %s", p.Name, path)
	return p, nil
}

// TextLimit returns the effective max text length for a platform: the tighter of
// the registry limit and the brand override.
func (p *Profile) TextLimit(id platform.ID) int {
	info, ok := platform.Lookup(id)
	if !ok {
		return 0
	}
	limit := info.MaxLength
	if o, ok := p.Platforms[string(id)]; ok && o.TextLimit > 0 && o.TextLimit < limit {
		limit = o.TextLimit
	}
	return limit
}

// ImageSize returns the preferred image size for a platform.
func (p *Profile) ImageSize(id platform.ID) string {
	if o, ok := p.Platforms[string(id)]; ok && o.ImageSize != "" {
		return o.ImageSize
	}
	info, _ := platform.Lookup(id)
	return info.ImageSize
}
