package assertions

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertRedirectHome checks for the 302 back to the map page
func AssertRedirectHome(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

// AssertHTMLContains checks if the response body contains text (ignoring tags)
func AssertHTMLContains(t *testing.T, resp *http.Response, text string) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, stripHTMLTags(string(body)), text)
}

func stripHTMLTags(html string) string {
	var b strings.Builder
	inTag := false

	for _, char := range html {
		switch {
		case char == '<':
			inTag = true
		case char == '>':
			inTag = false
		case !inTag:
			b.WriteRune(char)
		}
	}

	return b.String()
}
