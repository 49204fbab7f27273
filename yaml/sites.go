package yaml

import (
	"strings"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.SiteService = (*SiteService)(nil)

// SiteService serves a validated site table.
type SiteService struct {
	cfg *Config
}

// NewSiteService validates cfg and returns a SiteService over it.
func NewSiteService(cfg *Config) (*SiteService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SiteService{cfg: cfg}, nil
}

// Open loads and validates the site table at path.
func Open(path string) (*SiteService, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewSiteService(cfg)
}

// Defaults returns the table's defaults.
func (s *SiteService) Defaults() Defaults {
	return s.cfg.Defaults
}

// FindSites returns sites in table order. Listed codes that are not in the
// table are reported as ENOTFOUND.
func (s *SiteService) FindSites(filter mepdir.SiteFilter) ([]*mepdir.Site, error) {
	want := make(map[string]bool, len(filter.Codes))
	for _, code := range filter.Codes {
		want[strings.ToUpper(code)] = true
	}

	found := make(map[string]bool)
	var sites []*mepdir.Site
	for _, sc := range s.cfg.Sites {
		if len(want) > 0 && !want[sc.Code] {
			continue
		}
		found[sc.Code] = true
		sites = append(sites, s.cfg.Site(sc))
	}
	for _, code := range filter.Codes {
		if !found[strings.ToUpper(code)] {
			return nil, mepdir.Errorf(mepdir.ENOTFOUND, "site %s not found", strings.ToUpper(code))
		}
	}
	return sites, nil
}

// FindSiteByCode returns the site with the code, case-insensitively.
func (s *SiteService) FindSiteByCode(code string) (*mepdir.Site, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, sc := range s.cfg.Sites {
		if sc.Code == code {
			return s.cfg.Site(sc), nil
		}
	}
	return nil, mepdir.Errorf(mepdir.ENOTFOUND, "site %s not found", code)
}
