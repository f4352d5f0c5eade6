package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"script with content", "<script>x</script>hello", "hello"},
		{"plain text", "just words", "just words"},
		{"keeps emphasis", "<strong>bold</strong> move", "<strong>bold</strong> move"},
		{"drops event handler", `<p onclick="steal()">hi</p>`, "<p>hi</p>"},
		{"drops style element", "<style>body{}</style>ok", "ok"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Clean(tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	s := New()

	assert.Equal(t, "bold text", s.Excerpt("<p><strong>bold</strong>\n text</p>", 100))
	assert.Equal(t, "héllo...", s.Excerpt("héllo wörld", 5))
	assert.Equal(t, "Tom & Jerry", s.Excerpt("Tom &amp; Jerry", 0))
}
