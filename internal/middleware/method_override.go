package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideParam 表单 / 查询参数名，HTML 表单借此发送 PUT 和 DELETE
const MethodOverrideParam = "_method"

// MethodOverride 在路由之前改写 POST 请求的方法。
// gin 在执行中间件前已完成路由匹配，因此需包在 engine 外层。
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := r.URL.Query().Get(MethodOverrideParam)
			if method == "" && isForm(r) {
				if err := parseForm(r); err != nil {
					http.Error(w, "Failed to parse form", http.StatusBadRequest)
					return
				}
				method = r.PostForm.Get(MethodOverrideParam)
			}
			switch strings.ToUpper(method) {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = strings.ToUpper(method)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// maxMultipartMemory 与 gin 默认值一致
const maxMultipartMemory = 32 << 20

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || isMultipart(ct)
}

func isMultipart(ct string) bool {
	return strings.HasPrefix(ct, "multipart/form-data")
}

// parseForm ParseForm 不解析 multipart，需单独处理
func parseForm(r *http.Request) error {
	if isMultipart(r.Header.Get("Content-Type")) {
		return r.ParseMultipartForm(maxMultipartMemory)
	}
	return r.ParseForm()
}
