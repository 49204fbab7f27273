package mepdir

import "context"

// StaffPageFinder locates the staff listing page of a center given its
// home page URL.
type StaffPageFinder interface {
	// FindStaffPage returns the listing URL, or ENOTFOUND.
	FindStaffPage(ctx context.Context, baseURL string) (string, error)
}

// PageInspector answers structural questions about fetched pages during
// staff page discovery.
type PageInspector interface {
	// LooksLikeStaffPage reports whether the page is a staff directory.
	LooksLikeStaffPage(html, pageURL string) bool

	// StaffLinks returns same-site links whose text suggests a directory.
	StaffLinks(html, pageURL string) ([]string, error)
}
