package model

import "time"

// Post 博客文章；ID 由存储后端在创建时分配，Created 只写一次
type Post struct {
	ID      string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title   string    `json:"title" gorm:"type:varchar(200)"`
	Image   string    `json:"image" gorm:"type:text"`
	Body    string    `json:"body" gorm:"type:text"`
	Created time.Time `json:"created" gorm:"column:created;not null;index:idx_post_created"`
}

func (Post) TableName() string { return "posts" }

// PostFields 可被更新的字段（不含 ID 与 Created）
type PostFields struct {
	Title string
	Image string
	Body  string
}

// Apply 用 f 覆盖 p 的可变字段
func (f PostFields) Apply(p *Post) {
	p.Title = f.Title
	p.Image = f.Image
	p.Body = f.Body
}
