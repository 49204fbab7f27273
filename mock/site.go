package mock

import "github.com/wkanaday/mepdir"

var _ mepdir.SiteService = (*SiteService)(nil)

// SiteService is a mock implementation of mepdir.SiteService.
type SiteService struct {
	FindSitesFn      func(filter mepdir.SiteFilter) ([]*mepdir.Site, error)
	FindSiteByCodeFn func(code string) (*mepdir.Site, error)
}

func (s *SiteService) FindSites(filter mepdir.SiteFilter) ([]*mepdir.Site, error) {
	return s.FindSitesFn(filter)
}

func (s *SiteService) FindSiteByCode(code string) (*mepdir.Site, error) {
	return s.FindSiteByCodeFn(code)
}

var _ mepdir.RulesRegistry = (*RulesRegistry)(nil)

// RulesRegistry is a mock implementation of mepdir.RulesRegistry.
type RulesRegistry struct {
	GetFn  func(code string) (mepdir.SiteRules, bool)
	ListFn func() []string
}

func (r *RulesRegistry) Get(code string) (mepdir.SiteRules, bool) {
	return r.GetFn(code)
}

func (r *RulesRegistry) List() []string {
	return r.ListFn()
}
