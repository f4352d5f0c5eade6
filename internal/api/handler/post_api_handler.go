package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/restful-blog/internal/service"
	"github.com/d60-Lab/restful-blog/pkg/response"
)

// writeServiceError 把错误分类映射为 JSON 状态码
func writeServiceError(c *gin.Context, op, id string, err error) {
	logFailure(c, op, id, err)
	switch service.KindOf(err) {
	case service.KindNotFound:
		response.NotFound(c, "post not found")
	case service.KindValidation:
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// ListPosts 查询全部文章
// @Summary 文章列表
// @Tags 文章
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Post}
// @Failure 500 {object} response.Response
// @Router /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, "list", "", err)
		return
	}
	response.Success(c, posts)
}

// GetPost 查询单篇文章
// @Summary 文章详情
// @Tags 文章
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id := c.Param("id")
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, "show", id, err)
		return
	}
	response.Success(c, post)
}

// CreatePost 新建文章，body 会被清洗
// @Summary 新建文章
// @Tags 文章
// @Accept json
// @Produce json
// @Param request body service.PostInput true "文章内容"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var in service.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Create(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, "create", "", err)
		return
	}
	response.Created(c, post)
}

// UpdatePost 覆盖 title/image/body
// @Summary 更新文章
// @Tags 文章
// @Accept json
// @Produce json
// @Param id path string true "文章ID"
// @Param request body service.PostInput true "文章内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	id := c.Param("id")
	var in service.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Update(c.Request.Context(), id, in)
	if err != nil {
		writeServiceError(c, "update", id, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章
// @Summary 删除文章
// @Tags 文章
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.postService.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, "delete", id, err)
		return
	}
	response.Success(c, nil)
}
