package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/restful-blog/internal/model"
	"github.com/d60-Lab/restful-blog/internal/sanitize"
)

func TestTemplates_RenderEveryView(t *testing.T) {
	tmpl, err := Templates(sanitize.New())
	require.NoError(t, err)

	post := &model.Post{
		ID:      "abc",
		Title:   "Hi <there>",
		Image:   "https://example.com/a.png",
		Body:    "<p>hello</p><script>alert(1)</script>",
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	for _, view := range []string{ViewIndex, ViewNew, ViewShow, ViewEdit} {
		var buf bytes.Buffer
		page := Page{Title: "Blog Posts", Posts: []*model.Post{post}, Post: post}
		require.NoError(t, tmpl.ExecuteTemplate(&buf, view, page), view)
		out := buf.String()
		assert.NotContains(t, out, "<script>alert", view)
		assert.NotContains(t, out, "Hi <there>", view)
	}
}

func TestTemplates_ShowRendersSanitizedBody(t *testing.T) {
	tmpl, err := Templates(sanitize.New())
	require.NoError(t, err)

	var buf bytes.Buffer
	post := &model.Post{ID: "abc", Title: "t", Body: "<p>hello</p>"}
	require.NoError(t, tmpl.ExecuteTemplate(&buf, ViewShow, Page{Post: post}))

	out := buf.String()
	assert.Contains(t, out, "<p>hello</p>")
	assert.Contains(t, out, `action="/posts/abc?_method=DELETE"`)
}

func TestStatic_ServesStylesheet(t *testing.T) {
	f, err := Static().Open("app.css")
	require.NoError(t, err)
	defer f.Close()
	st, err := f.Stat()
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}
