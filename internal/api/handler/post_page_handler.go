package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/d60-Lab/restful-blog/internal/service"
	"github.com/d60-Lab/restful-blog/internal/web"
)

// PostsPath 文章列表页
const PostsPath = "/posts"

func postPath(id string) string { return PostsPath + "/" + id }

// bindForm 读取 post[title] / post[image] / post[body]
func bindForm(c *gin.Context, in *service.PostInput) error {
	if err := c.ShouldBindWith(in, binding.Form); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidPost, err)
	}
	return nil
}

func redirectToList(c *gin.Context) {
	c.Redirect(http.StatusFound, PostsPath)
}

// Root 跳转到列表页
func (h *Handler) Root(c *gin.Context) {
	redirectToList(c)
}

// Index 文章列表；查询失败时渲染空列表
func (h *Handler) Index(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		logFailure(c, "list", "", err)
	}
	c.HTML(http.StatusOK, web.ViewIndex, web.Page{Title: "Blog Posts", Posts: posts})
}

// New 新建表单
func (h *Handler) New(c *gin.Context) {
	c.HTML(http.StatusOK, web.ViewNew, web.Page{Title: "New Post"})
}

// Create 新建文章；失败时重新渲染空表单，不回显错误
func (h *Handler) Create(c *gin.Context) {
	var in service.PostInput
	if err := bindForm(c, &in); err != nil {
		logFailure(c, "create", "", err)
		h.New(c)
		return
	}
	if _, err := h.postService.Create(c.Request.Context(), in); err != nil {
		logFailure(c, "create", "", err)
		h.New(c)
		return
	}
	redirectToList(c)
}

// Show 文章详情；不存在或出错时回到列表
func (h *Handler) Show(c *gin.Context) {
	id := c.Param("id")
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		logFailure(c, "show", id, err)
		redirectToList(c)
		return
	}
	c.HTML(http.StatusOK, web.ViewShow, web.Page{Title: post.Title, Post: post})
}

// Edit 编辑表单
func (h *Handler) Edit(c *gin.Context) {
	id := c.Param("id")
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		logFailure(c, "edit", id, err)
		redirectToList(c)
		return
	}
	c.HTML(http.StatusOK, web.ViewEdit, web.Page{Title: "Edit " + post.Title, Post: post})
}

// Update 成功跳转详情页，失败回到列表
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	var in service.PostInput
	if err := bindForm(c, &in); err != nil {
		logFailure(c, "update", id, err)
		redirectToList(c)
		return
	}
	if _, err := h.postService.Update(c.Request.Context(), id, in); err != nil {
		logFailure(c, "update", id, err)
		redirectToList(c)
		return
	}
	c.Redirect(http.StatusFound, postPath(id))
}

// Destroy 删除后总是回到列表
func (h *Handler) Destroy(c *gin.Context) {
	id := c.Param("id")
	if err := h.postService.Delete(c.Request.Context(), id); err != nil {
		logFailure(c, "delete", id, err)
	}
	redirectToList(c)
}
