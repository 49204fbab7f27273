// Package yaml loads the site table from sites.yaml, overlaid with an
// optional sites.local.yaml next to it.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/wkanaday/mepdir"
	"gopkg.in/yaml.v3"
)

// Defaults apply to every site that does not set its own value.
type Defaults struct {
	Timeout     time.Duration `yaml:"timeout"`
	Delay       time.Duration `yaml:"delay"`
	MaxProfiles int           `yaml:"max_profiles"`
	UserAgent   string        `yaml:"user_agent"`
}

// Rules mirrors mepdir.SiteRules.
type Rules struct {
	Root           []string `yaml:"root"`
	Containers     []string `yaml:"containers"`
	Names          []string `yaml:"names"`
	Titles         []string `yaml:"titles"`
	Bios           []string `yaml:"bios"`
	ProfileLinks   []string `yaml:"profile_links"`
	ProfileContent []string `yaml:"profile_content"`
	TitleSuffix    string   `yaml:"title_suffix"`
	MinContainers  int      `yaml:"min_containers"`
}

// SiteConfig is one entry of the site table.
type SiteConfig struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Browser bool   `yaml:"browser"`
	// MaxProfiles is nil when the site uses the default budget.
	MaxProfiles *int  `yaml:"max_profiles"`
	Rules       Rules `yaml:"rules"`
}

// Config is the decoded site table.
type Config struct {
	Defaults Defaults     `yaml:"defaults"`
	Sites    []SiteConfig `yaml:"sites"`
}

// LocalPath returns the overlay path for a config path:
// sites.yaml becomes sites.local.yaml.
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Load reads the config at path and merges its local overlay, if present.
// Overlay defaults replace base defaults field by field; overlay sites are
// merged into the base site with the same code, or appended.
//
// Returns ENOTFOUND if path does not exist and EINVALID if either file
// cannot be decoded.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, mepdir.Errorf(mepdir.ENOTFOUND, "config %s not found", path)
	} else if err != nil {
		return nil, err
	}

	cfg, err := decode(path, b)
	if err != nil {
		return nil, err
	}

	local := LocalPath(path)
	lb, err := os.ReadFile(local)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(lb) > 0 {
		overlay, err := decode(local, lb)
		if err != nil {
			return nil, err
		}
		if err := cfg.merge(overlay); err != nil {
			return nil, err
		}
	}

	cfg.normalize()
	return cfg, nil
}

func decode(path string, b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, mepdir.Errorf(mepdir.EINVALID, "decoding %s: %v", path, err)
	}
	return &cfg, nil
}

func (c *Config) merge(overlay *Config) error {
	if err := mergo.Merge(&c.Defaults, overlay.Defaults, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging defaults: %w", err)
	}

	index := make(map[string]int, len(c.Sites))
	for i, s := range c.Sites {
		index[strings.ToUpper(s.Code)] = i
	}
	for _, s := range overlay.Sites {
		i, ok := index[strings.ToUpper(s.Code)]
		if !ok {
			index[strings.ToUpper(s.Code)] = len(c.Sites)
			c.Sites = append(c.Sites, s)
			continue
		}
		if err := mergo.Merge(&c.Sites[i], s, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging site %s: %w", s.Code, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	for i := range c.Sites {
		c.Sites[i].Code = strings.ToUpper(strings.TrimSpace(c.Sites[i].Code))
		c.Sites[i].URL = strings.TrimSpace(c.Sites[i].URL)
	}
}

// Site converts an entry to a mepdir.Site, applying defaults.
func (c *Config) Site(s SiteConfig) *mepdir.Site {
	maxProfiles := c.Defaults.MaxProfiles
	if s.MaxProfiles != nil {
		maxProfiles = *s.MaxProfiles
	}
	return &mepdir.Site{
		Code:        s.Code,
		Name:        s.Name,
		URL:         s.URL,
		Browser:     s.Browser,
		MaxProfiles: maxProfiles,
		Rules: mepdir.SiteRules{
			Root:           s.Rules.Root,
			Containers:     s.Rules.Containers,
			Names:          s.Rules.Names,
			Titles:         s.Rules.Titles,
			Bios:           s.Rules.Bios,
			ProfileLinks:   s.Rules.ProfileLinks,
			ProfileContent: s.Rules.ProfileContent,
			TitleSuffix:    s.Rules.TitleSuffix,
			MinContainers:  s.Rules.MinContainers,
		},
	}
}
