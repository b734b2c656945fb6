// Package entity 定义领域实体
package entity

import (
	"sort"
	"time"
)

// Style 风格实体
// Directives 为自由格式的指令映射（如 tone、length、structure）
type Style struct {
	ID         string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string          `json:"name" gorm:"type:varchar(100);not null"`
	Directives map[string]any  `json:"directives,omitempty" gorm:"type:jsonb;serializer:json"`
	Fragments  []StyleFragment `json:"fragments,omitempty" gorm:"foreignKey:StyleID"`
	Active     bool            `json:"active" gorm:"default:true"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Style) TableName() string {
	return "styles"
}

// StyleFragment 风格片段（规则/示例文本，无占位符）
type StyleFragment struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StyleID   string    `json:"style_id" gorm:"type:uuid;index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (StyleFragment) TableName() string {
	return "style_fragments"
}

// OrderedFragments 返回按 SortOrder 升序排列的片段
func (s *Style) OrderedFragments() []StyleFragment {
	fragments := make([]StyleFragment, len(s.Fragments))
	copy(fragments, s.Fragments)
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].SortOrder < fragments[j].SortOrder
	})
	return fragments
}
