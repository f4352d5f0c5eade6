// Package sanitize 清洗用户提交的 HTML
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer 零值不可用，需通过 New 创建
type Sanitizer struct {
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

// New 保留 UGC 常用格式标签，去掉 script、style 与事件属性
func New() *Sanitizer {
	return &Sanitizer{
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

// Clean 移除可执行标记，<script>/<style> 连同内容一起删除
func (s *Sanitizer) Clean(text string) string {
	return s.ugc.Sanitize(text)
}

// Excerpt 取纯文本前 n 个字符，截断时追加省略号
func (s *Sanitizer) Excerpt(text string, n int) string {
	plain := html.UnescapeString(s.strict.Sanitize(text))
	plain = strings.Join(strings.Fields(plain), " ")
	if n <= 0 || utf8.RuneCountInString(plain) <= n {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:n])) + "..."
}
