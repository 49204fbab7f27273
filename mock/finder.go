package mock

import (
	"context"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.StaffPageFinder = (*StaffPageFinder)(nil)

// StaffPageFinder is a mock implementation of mepdir.StaffPageFinder.
type StaffPageFinder struct {
	FindStaffPageFn func(ctx context.Context, baseURL string) (string, error)
}

func (f *StaffPageFinder) FindStaffPage(ctx context.Context, baseURL string) (string, error) {
	return f.FindStaffPageFn(ctx, baseURL)
}

var _ mepdir.PageInspector = (*PageInspector)(nil)

// PageInspector is a mock implementation of mepdir.PageInspector.
type PageInspector struct {
	LooksLikeStaffPageFn func(html, pageURL string) bool
	StaffLinksFn         func(html, pageURL string) ([]string, error)
}

func (i *PageInspector) LooksLikeStaffPage(html, pageURL string) bool {
	return i.LooksLikeStaffPageFn(html, pageURL)
}

func (i *PageInspector) StaffLinks(html, pageURL string) ([]string, error) {
	return i.StaffLinksFn(html, pageURL)
}
