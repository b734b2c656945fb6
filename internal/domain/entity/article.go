// Package entity 定义领域实体
package entity

import (
	"time"
)

// ArticleStatus 文章状态
type ArticleStatus string

const (
	ArticleStatusActive   ArticleStatus = "active"
	ArticleStatusArchived ArticleStatus = "archived"
	ArticleStatusDeleted  ArticleStatus = "deleted"
)

// Article 文章实体
type Article struct {
	ID          string        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string        `json:"title" gorm:"type:varchar(500);not null"`
	Body        string        `json:"body" gorm:"type:text"`
	Author      string        `json:"author,omitempty" gorm:"type:varchar(200)"`
	SectionID   *string       `json:"section_id,omitempty" gorm:"type:uuid;index"`
	Section     *Section      `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	ProjectID   *string       `json:"project_id,omitempty" gorm:"type:uuid;index"`
	LLMConfigID *string       `json:"llm_config_id,omitempty" gorm:"type:uuid;index"`
	Status      ArticleStatus `json:"status" gorm:"type:varchar(50);default:'active'"`
	AISummary   string        `json:"ai_summary,omitempty" gorm:"type:text"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// IsDraft 是否为未持久化的草稿（预览生成使用）
func (a *Article) IsDraft() bool {
	return a.ID == ""
}

// SectionName 返回所属栏目名，未设置时为空
func (a *Article) SectionName() string {
	if a.Section != nil {
		return a.Section.Name
	}
	return ""
}
