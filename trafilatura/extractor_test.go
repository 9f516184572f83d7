package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements docharvest.Extractor at compile time.
var _ docharvest.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Expressions - n8n Docs</title></head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<article>
<h1>Expressions</h1>
<p>Expressions let you set node parameters dynamically based on data from previous nodes,
the workflow, or your n8n environment. They are evaluated for every item a node processes.</p>
<p>Wrap an expression in double curly braces to use it inside any parameter field that
accepts expressions. The expression editor previews the result for the current item.</p>
<pre><code>{{ $json.name }}</code></pre>
</article>
<footer>Copyright 2024</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "Expressions let you set node parameters dynamically")
		assert.NotContains(t, result.ContentHTML, "Copyright 2024")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("")

		require.Error(t, err)
		assert.Equal(t, docharvest.EINVALID, docharvest.ErrorCode(err))
	})
}
