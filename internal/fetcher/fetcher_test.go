package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Go &amp; Vectors</title>
  <style>body { color: red; }</style>
  <script>console.log("ignored");</script>
</head>
<body>
  <!-- navigation -->
  <h1>Go and Vectors</h1>
  <p>The first paragraph has some text.</p>
  <p>The second paragraph has <b>bold</b> text.</p>
</body>
</html>`

func TestStripHTML(t *testing.T) {
	text := StripHTML(samplePage)

	assert.Contains(t, text, "Go and Vectors")
	assert.Contains(t, text, "The first paragraph has some text.")
	assert.Contains(t, text, "The second paragraph has bold text.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "<")
	assert.NotContains(t, text, "navigation")
}

func TestStripHTML_BlockBoundaries(t *testing.T) {
	text := StripHTML("<p>one sentence.</p><p>two sentence.</p>")
	assert.Equal(t, "one sentence.\ntwo sentence.", text)
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Go & Vectors", ExtractTitle(samplePage))
	assert.Equal(t, "", ExtractTitle("<html><body>no title</body></html>"))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	article, err := Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, article.URL)
	assert.Equal(t, "Go & Vectors", article.Title)
	assert.Contains(t, article.Text, "The first paragraph has some text.")
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL, 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_BadURL(t *testing.T) {
	_, err := Fetch(context.Background(), "http://127.0.0.1:1/unreachable", 500*time.Millisecond)
	assert.Error(t, err)
}
