package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkanaday/mepdir"
	"github.com/wkanaday/mepdir/yaml"
)

func openTable(t *testing.T) *yaml.SiteService {
	t.Helper()
	svc, err := yaml.Open(writeTable(t, t.TempDir(), "sites.yaml", baseTable))
	require.NoError(t, err)
	return svc
}

func TestSiteService(t *testing.T) {
	t.Parallel()

	t.Run("all sites in table order", func(t *testing.T) {
		t.Parallel()

		sites, err := openTable(t).FindSites(mepdir.SiteFilter{})

		require.NoError(t, err)
		require.Len(t, sites, 2)
		assert.Equal(t, "GA", sites[0].Code)
		assert.Equal(t, "CT", sites[1].Code)
	})

	t.Run("filter by code keeps table order", func(t *testing.T) {
		t.Parallel()

		sites, err := openTable(t).FindSites(mepdir.SiteFilter{Codes: []string{"ct", "GA"}})

		require.NoError(t, err)
		require.Len(t, sites, 2)
		assert.Equal(t, "GA", sites[0].Code)
	})

	t.Run("single code filter", func(t *testing.T) {
		t.Parallel()

		sites, err := openTable(t).FindSites(mepdir.SiteFilter{Codes: []string{"GA"}})

		require.NoError(t, err)
		require.Len(t, sites, 1)
		assert.Equal(t, "GA", sites[0].Code)
	})

	t.Run("unknown code in filter", func(t *testing.T) {
		t.Parallel()

		_, err := openTable(t).FindSites(mepdir.SiteFilter{Codes: []string{"GA", "ZZ"}})

		assert.Equal(t, mepdir.ENOTFOUND, mepdir.ErrorCode(err))
		assert.Contains(t, mepdir.ErrorMessage(err), "ZZ")
	})

	t.Run("find by code", func(t *testing.T) {
		t.Parallel()

		site, err := openTable(t).FindSiteByCode(" ct ")

		require.NoError(t, err)
		assert.Equal(t, "CONNSTEP", site.Name)
	})

	t.Run("find missing code", func(t *testing.T) {
		t.Parallel()

		_, err := openTable(t).FindSiteByCode("ZZ")

		assert.Equal(t, mepdir.ENOTFOUND, mepdir.ErrorCode(err))
	})

	t.Run("invalid table is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.NewSiteService(&yaml.Config{})

		assert.Equal(t, mepdir.EINVALID, mepdir.ErrorCode(err))
	})
}

func TestExampleTable(t *testing.T) {
	t.Parallel()

	svc, err := yaml.Open("../sites.example.yaml")
	require.NoError(t, err)

	sites, err := svc.FindSites(mepdir.SiteFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, sites)

	sd, err := svc.FindSiteByCode("sd")
	require.NoError(t, err)
	assert.False(t, sd.EnrichmentEnabled())

	ct, err := svc.FindSiteByCode("CT")
	require.NoError(t, err)
	assert.Equal(t, 50, ct.MaxProfiles)
}
