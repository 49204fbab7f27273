package crawl

import (
	"dario.cat/mergo"
	"github.com/wkanaday/mepdir"
)

// MergeProfile combines a listing record with the record extracted from
// its profile page. Non-empty profile fields replace listing fields; empty
// profile fields never erase listing data. SourceURL becomes profileURL.
//
// The profile may carry an unusable name (say, a page title with site
// boilerplate); the listing record is returned unchanged with an EINVALID
// error in that case.
func MergeProfile(listing, profile mepdir.StaffRecord, profileURL string) (mepdir.StaffRecord, error) {
	merged := listing
	if err := mergo.Merge(&merged, profile, mergo.WithOverride); err != nil {
		return listing, mepdir.Errorf(mepdir.EINTERNAL, "merging profile %s: %v", profileURL, err)
	}
	merged.SourceURL = profileURL
	if err := merged.Validate(); err != nil {
		return listing, err
	}
	return merged, nil
}
