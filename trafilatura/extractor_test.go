package trafilatura_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkanaday/mepdir"
	"github.com/wkanaday/mepdir/trafilatura"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts profile biography", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>John Roe - Example MEP</title>
<meta property="og:title" content="John Roe">
</head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>John Roe</h1>
<h2>Senior Project Manager</h2>
<p>John works with food processors and plastics manufacturers on plant layout, safety programs
and ISO 9001 certification. He has led more than forty implementation projects for the center.</p>
</article>
<footer>Copyright 2026 Example MEP</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "ISO 9001 certification")
		assert.NotContains(t, result.ContentHTML, "Copyright 2026")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, mepdir.EINVALID, mepdir.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(`<html><body><p>Short.</p></body></html>`)

		if err == nil {
			assert.NotNil(t, result)
		}
	})
}
