package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/restful-blog/internal/api/handler"
	"github.com/d60-Lab/restful-blog/internal/model"
	"github.com/d60-Lab/restful-blog/internal/repository"
	"github.com/d60-Lab/restful-blog/internal/sanitize"
	"github.com/d60-Lab/restful-blog/internal/service"
	"github.com/d60-Lab/restful-blog/internal/web"
)

type testApp struct {
	http.Handler
	repo repository.PostRepository
}

func setupApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := repository.NewGormPostRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })

	s := sanitize.New()
	tmpl, err := web.Templates(s)
	require.NoError(t, err)

	h := handler.NewHandler(service.NewPostService(repo, s), repo)
	r := NewRouter(h, tmpl, Options{Gzip: true})
	return &testApp{Handler: NewHTTPHandler(r), repo: repo}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	a.ServeHTTP(w, req)
	return w
}

func (a *testApp) allPosts(t *testing.T) []*model.Post {
	t.Helper()
	posts, err := a.repo.FindAll(context.Background())
	require.NoError(t, err)
	return posts
}

func postForm(title, image, body string) url.Values {
	return url.Values{
		"post[title]": {title},
		"post[image]": {image},
		"post[body]":  {body},
	}
}

func TestRootRedirectsToList(t *testing.T) {
	app := setupApp(t)
	w := app.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts", w.Header().Get("Location"))
}

func TestNewFormRenders(t *testing.T) {
	app := setupApp(t)
	w := app.do(t, http.MethodGet, "/posts/new", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="post[title]"`)
}

func TestEndToEnd_CreateListShowDelete(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodPost, "/posts", postForm("Hi", "", "<script>x</script>hello"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts", w.Header().Get("Location"))

	posts := app.allPosts(t)
	require.Len(t, posts, 1)
	post := posts[0]
	assert.Equal(t, "Hi", post.Title)
	assert.Equal(t, "hello", post.Body)
	assert.False(t, post.Created.IsZero())

	w = app.do(t, http.MethodGet, "/posts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/posts/"+post.ID)
	assert.Contains(t, w.Body.String(), "Hi")

	w = app.do(t, http.MethodGet, "/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")
	assert.NotContains(t, w.Body.String(), "<script>x")

	w = app.do(t, http.MethodPost, "/posts/"+post.ID+"?_method=DELETE", url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts", w.Header().Get("Location"))
	assert.Empty(t, app.allPosts(t))

	w = app.do(t, http.MethodGet, "/posts", nil)
	assert.NotContains(t, w.Body.String(), "/posts/"+post.ID)

	w = app.do(t, http.MethodGet, "/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts", w.Header().Get("Location"))
}

func TestCreateAddsExactlyOnePost(t *testing.T) {
	app := setupApp(t)
	app.do(t, http.MethodPost, "/posts", postForm("first", "", "a"))
	before := len(app.allPosts(t))

	app.do(t, http.MethodPost, "/posts", postForm("second", "https://example.com/p.png", `<img src=x onerror="alert(1)">b`))
	after := app.allPosts(t)
	require.Len(t, after, before+1)
	for _, p := range after {
		if p.Title == "second" {
			assert.NotContains(t, p.Body, "onerror")
			assert.Equal(t, "https://example.com/p.png", p.Image)
		}
	}
}

func TestCreateInvalidReRendersForm(t *testing.T) {
	app := setupApp(t)
	w := app.do(t, http.MethodPost, "/posts", postForm("Hi", "not a url", "body"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/posts"`)
	assert.NotContains(t, w.Body.String(), "not a url")
	assert.Empty(t, app.allPosts(t))
}

func TestUpdateViaMethodOverride(t *testing.T) {
	app := setupApp(t)
	app.do(t, http.MethodPost, "/posts", postForm("old", "", "old body"))
	orig := app.allPosts(t)[0]

	w := app.do(t, http.MethodGet, "/posts/"+orig.ID+"/edit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="old"`)

	form := postForm("new", "", "<script>bad()</script>new body")
	form.Set("_method", "PUT")
	w = app.do(t, http.MethodPost, "/posts/"+orig.ID, form)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts/"+orig.ID, w.Header().Get("Location"))

	posts := app.allPosts(t)
	require.Len(t, posts, 1)
	assert.Equal(t, orig.ID, posts[0].ID)
	assert.True(t, orig.Created.Equal(posts[0].Created))
	assert.Equal(t, "new", posts[0].Title)
	assert.Equal(t, "new body", posts[0].Body)
}

func TestDeleteViaMultipartOverride(t *testing.T) {
	app := setupApp(t)
	app.do(t, http.MethodPost, "/posts", postForm("doomed", "", "x"))
	post := app.allPosts(t)[0]

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("_method", "DELETE"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/"+post.ID, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts", w.Header().Get("Location"))
	assert.Empty(t, app.allPosts(t))
}

func TestMissingPostRedirects(t *testing.T) {
	app := setupApp(t)

	for _, tc := range []struct {
		method string
		target string
		form   url.Values
	}{
		{http.MethodGet, "/posts/nope", nil},
		{http.MethodGet, "/posts/nope/edit", nil},
		{http.MethodPost, "/posts/nope?_method=PUT", postForm("x", "", "y")},
		{http.MethodPost, "/posts/nope?_method=DELETE", url.Values{}},
	} {
		w := app.do(t, tc.method, tc.target, tc.form)
		assert.Equal(t, http.StatusFound, w.Code, tc.target)
		assert.Equal(t, "/posts", w.Header().Get("Location"), tc.target)
	}
}

func TestJSONAPI(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(`{"title":"Hi","body":"<script>x</script>hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data model.Post `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hello", created.Data.Body)
	require.NotEmpty(t, created.Data.ID)

	w = app.do(t, http.MethodGet, "/api/v1/posts/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/posts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/posts/"+created.Data.ID, strings.NewReader(`{"title":"x","image":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	app.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodDelete, "/api/v1/posts/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, "/api/v1/posts/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndStatic(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/static/app.css", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
