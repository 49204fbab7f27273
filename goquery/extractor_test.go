package goquery_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkanaday/mepdir"
	"github.com/wkanaday/mepdir/goquery"
)

const listingURL = "https://example.org/about/team"

func TestExtractor_ExtractListing(t *testing.T) {
	t.Parallel()

	t.Run("extracts team member cards", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<nav><ul><li class="menu-item-team"><a href="/about/team">Team</a></li></ul></nav>
<div class="team-grid">
	<div class="team-member">
		<h3><a href="/team/jane-doe">Jane A. Doe, PhD</a></h3>
		<p class="position">Executive Director</p>
		<a href="mailto:JDoe@Example.org">Email</a>
		<a href="tel:501-555-0100">501-555-0100</a>
	</div>
	<div class="team-member">
		<h3>John Smith</h3>
		<p>Project Manager</p>
		<p>Contact: jsmith@example.org</p>
	</div>
</div>
</body>
</html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Equal(t, "member-class", result.Strategy)
		require.Len(t, result.Listings, 2)

		jane := result.Listings[0]
		assert.Equal(t, "Jane A. Doe", jane.Record.Name)
		assert.Equal(t, "Executive Director", jane.Record.Title)
		assert.Equal(t, "JDoe@Example.org", jane.Record.Email)
		assert.Equal(t, "(501) 555-0100", jane.Record.Phone)
		assert.Empty(t, jane.Record.Mobile)
		assert.Equal(t, listingURL, jane.Record.SourceURL)
		assert.Equal(t, "https://example.org/team/jane-doe", jane.ProfileURL)

		john := result.Listings[1]
		assert.Equal(t, "John Smith", john.Record.Name)
		assert.Equal(t, "Project Manager", john.Record.Title)
		assert.Equal(t, "jsmith@example.org", john.Record.Email)
		assert.Empty(t, john.ProfileURL)
	})

	t.Run("returns empty result for page without people", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>About Us</h1>
<p>We help manufacturers grow through training and consulting.</p>
<div class="content"><p>Our programs cover lean, quality and workforce.</p></div>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Listings)
		assert.Empty(t, result.Strategy)
		assert.Zero(t, result.Containers)
	})

	t.Run("returns empty result for empty page", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().ExtractListing("", listingURL, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Listings)
	})

	t.Run("falls back to heading sections", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>Our Staff</h1>
<h3>Mary Major, P.E.</h3>
<p>Senior Engineer</p>
<p>Phone: 501.555.0111</p>
<h3>Bob Brown</h3>
<p>Account Manager</p>
<p>bob@example.org</p>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Equal(t, "headings", result.Strategy)
		require.Len(t, result.Listings, 2)
		assert.Equal(t, "Mary Major", result.Listings[0].Record.Name)
		assert.Equal(t, "Senior Engineer", result.Listings[0].Record.Title)
		assert.Equal(t, "(501) 555-0111", result.Listings[0].Record.Phone)
		assert.Equal(t, "Bob Brown", result.Listings[1].Record.Name)
		assert.Equal(t, "bob@example.org", result.Listings[1].Record.Email)
	})

	t.Run("ignores headings without contact details", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h2>Training</h2><p>Courses for every skill level.</p>
<h2>Consulting</h2><p>Experts on the shop floor.</p>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Listings)
	})

	t.Run("does not descend into selected containers", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="staff-member">
	<div class="member-name"><h4>Ann Lee</h4></div>
	<div class="member-title">Controller</div>
</div>
<div class="staff-member">
	<div class="member-name"><h4>Raj Patel</h4></div>
	<div class="member-title">Engineer</div>
</div>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Containers)
		require.Len(t, result.Listings, 2)
		assert.Equal(t, "Ann Lee", result.Listings[0].Record.Name)
		assert.Equal(t, "Controller", result.Listings[0].Record.Title)
		assert.Equal(t, "Raj Patel", result.Listings[1].Record.Name)
		assert.Equal(t, "Engineer", result.Listings[1].Record.Title)
	})

	t.Run("prefers member classes over card classes", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="card"><div class="person"><h3>Ann Lee</h3></div><div class="person"><h3>Raj Patel</h3></div></div>
<div class="card"><h3>Newsletter</h3></div>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Equal(t, "member-class", result.Strategy)
		require.Len(t, result.Listings, 2)
		assert.Equal(t, "Ann Lee", result.Listings[0].Record.Name)
		assert.Equal(t, "Raj Patel", result.Listings[1].Record.Name)
	})

	t.Run("uses card classes when nothing else matches", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="card"><h5>Ann Lee</h5><span>Controller</span></div>
<div class="card"><h5>Raj Patel</h5><span>Engineer</span></div>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Equal(t, "card-class", result.Strategy)
		require.Len(t, result.Listings, 2)
		assert.Equal(t, "Controller", result.Listings[0].Record.Title)
	})

	t.Run("site rules take precedence", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="team-container">
	<div class="team-author-name"><a href="/ann">Ann Lee</a></div>
	<div class="team-author"><p>Controller</p></div>
</div>
<div class="team-container">
	<div class="team-author-name"><a href="/raj">Raj Patel</a></div>
	<div class="team-author"><p>Engineer</p></div>
</div>
</body></html>`
		rules := &mepdir.SiteRules{
			Containers: []string{"div.team-container"},
			Names:      []string{"div.team-author-name a"},
			Titles:     []string{"div.team-author p"},
		}

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, rules)

		require.NoError(t, err)
		assert.Equal(t, "rules", result.Strategy)
		require.Len(t, result.Listings, 2)
		assert.Equal(t, "Ann Lee", result.Listings[0].Record.Name)
		assert.Equal(t, "Controller", result.Listings[0].Record.Title)
		assert.Equal(t, "https://example.org/ann", result.Listings[0].ProfileURL)
	})

	t.Run("uses children of the directory root", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<ul id="staff-directory">
	<li><span>Ann Lee</span> <span>Controller</span></li>
	<li><span>Raj Patel</span> <span>Engineer</span></li>
</ul>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Equal(t, "root-children", result.Strategy)
		assert.Equal(t, 2, result.Containers)
	})

	t.Run("drops containers without a name", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="staff"><h3>Ann Lee</h3></div>
<div class="staff"><p>jobs@example.org</p></div>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Containers)
		require.Len(t, result.Listings, 1)
		assert.Equal(t, "Ann Lee", result.Listings[0].Record.Name)
	})

	t.Run("rejects names over the length limit", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 101)
		limit := strings.Repeat("b", 100)
		html := `<html><body>
<div class="staff"><h3>` + long + `</h3></div>
<div class="staff"><h3>` + limit + `</h3></div>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		require.Len(t, result.Listings, 1)
		assert.Equal(t, limit, result.Listings[0].Record.Name)
	})

	t.Run("extraction is idempotent", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="team-member"><h3>Ann Lee</h3><p>Controller</p><a href="tel:5015550100">call</a></div>
<div class="team-member"><h3>Raj Patel</h3><p>Engineer</p><a href="mailto:raj@example.org">mail</a></div>
</body></html>`
		x := goquery.NewExtractor()

		first, err := x.ExtractListing(html, listingURL, nil)
		require.NoError(t, err)
		second, err := x.ExtractListing(html, listingURL, nil)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("extractions differ (-first +second):\n%s", diff)
		}
	})

	t.Run("reads every field from the whole card, not the name heading", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="team-member">
	<h3>Jane A. Doe, PhD</h3>
	<p class="title">Executive Director</p>
	<p>Contact: jdoe@example.org</p>
</div>
<div class="team-member">
	<h3>John Roe</h3>
	<p>Field Engineer</p>
	<a href="tel:5015550100">501-555-0100</a>
	<a href="tel:5015550199">501-555-0199</a> Mobile
	<p>John has spent twenty years helping Arkansas manufacturers adopt lean practices.</p>
</div>
</body></html>`

		result, err := goquery.NewExtractor().ExtractListing(html, listingURL, nil)

		require.NoError(t, err)
		require.Len(t, result.Listings, 2)

		jane := result.Listings[0].Record
		assert.Equal(t, "Jane A. Doe", jane.Name)
		assert.Equal(t, "Executive Director", jane.Title)
		assert.Equal(t, "jdoe@example.org", jane.Email)

		john := result.Listings[1].Record
		assert.Equal(t, "John Roe", john.Name)
		assert.Equal(t, "Field Engineer", john.Title)
		assert.Equal(t, "(501) 555-0100", john.Phone)
		assert.Equal(t, "(501) 555-0199", john.Mobile)
		assert.Equal(t, "John has spent twenty years helping Arkansas manufacturers adopt lean practices.", john.Bio)
	})

	t.Run("returns error for invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().ExtractListing("<html></html>", "://bad", nil)

		require.Error(t, err)
		assert.Equal(t, mepdir.EINVALID, mepdir.ErrorCode(err))
	})
}

func TestExtractor_ExtractProfile(t *testing.T) {
	t.Parallel()

	t.Run("reads fields from the main region", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Jane Doe</title></head><body>
<header><h1>Example MEP</h1><a href="tel:8005550000">800-555-0000</a></header>
<main>
	<h1>Jane Doe</h1>
	<p class="job-title">Executive Director</p>
	<p><a href="tel:5015550100">501-555-0100</a> <a href="tel:5015550199">501-555-0199</a> Mobile</p>
	<p>Jane has led the center since 2015 and spent twenty years in automotive manufacturing.</p>
</main>
</body></html>`

		rec, err := goquery.NewExtractor().ExtractProfile(html, "https://example.org/team/jane", nil)

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", rec.Name)
		assert.Equal(t, "Executive Director", rec.Title)
		assert.Equal(t, "(501) 555-0100", rec.Phone)
		assert.Equal(t, "(501) 555-0199", rec.Mobile)
		assert.Equal(t, "Jane has led the center since 2015 and spent twenty years in automotive manufacturing.", rec.Bio)
		assert.Equal(t, "https://example.org/team/jane", rec.SourceURL)
	})

	t.Run("takes name from title suffix", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Jane Doe - GaMEP</title></head><body>
<div class="entry-content"><p class="subtitle">Project Manager</p></div>
</body></html>`
		rules := &mepdir.SiteRules{TitleSuffix: " - GaMEP"}

		rec, err := goquery.NewExtractor().ExtractProfile(html, "https://example.org/staff/jane", rules)

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", rec.Name)
		assert.Equal(t, "Project Manager", rec.Title)
	})

	t.Run("returns fields without a name", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>Reach me at jane@example.org any time.</p></article></body></html>`

		rec, err := goquery.NewExtractor().ExtractProfile(html, "https://example.org/staff/jane", nil)

		require.NoError(t, err)
		assert.Empty(t, rec.Name)
		assert.Equal(t, "jane@example.org", rec.Email)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().ExtractProfile("", "https://example.org/staff/jane", nil)

		require.Error(t, err)
		assert.Equal(t, mepdir.EINVALID, mepdir.ErrorCode(err))
	})
}
