package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一 JSON 返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

// Success 200
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "success", data)
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data)
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, message, nil)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, message, nil)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: http.StatusTooManyRequests, Message: "too many requests"})
}

// InternalError 500；不向调用方暴露内部错误细节
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	write(c, http.StatusInternalServerError, "internal server error", nil)
}
