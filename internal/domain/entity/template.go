// Package entity 定义领域实体
package entity

import (
	"sort"
	"time"
)

// Template 提示词模板实体
// 有效模板文本由片段按序拼接而成
type Template struct {
	ID        string             `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string             `json:"name" gorm:"type:varchar(100);not null"`
	Fragments []TemplateFragment `json:"fragments,omitempty" gorm:"foreignKey:TemplateID"`
	Active    bool               `json:"active" gorm:"default:true"`
	CreatedAt time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Template) TableName() string {
	return "templates"
}

// TemplateFragment 模板片段，内容可包含 {variable} 占位符
type TemplateFragment struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TemplateID string    `json:"template_id" gorm:"type:uuid;index;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	SortOrder  int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (TemplateFragment) TableName() string {
	return "template_fragments"
}

// OrderedFragments 返回按 SortOrder 升序排列的片段
func (t *Template) OrderedFragments() []TemplateFragment {
	fragments := make([]TemplateFragment, len(t.Fragments))
	copy(fragments, t.Fragments)
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].SortOrder < fragments[j].SortOrder
	})
	return fragments
}
