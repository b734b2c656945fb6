// Package entity 定义领域实体
package entity

import (
	"time"
)

// Section 栏目实体，为其下文章提供继承的模板和风格
type Section struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Color       string    `json:"color,omitempty" gorm:"type:varchar(20)"`
	Icon        string    `json:"icon,omitempty" gorm:"type:varchar(50)"`
	TemplateID  *string   `json:"template_id,omitempty" gorm:"type:uuid;index"`
	StyleID     *string   `json:"style_id,omitempty" gorm:"type:uuid;index"`
	Template    *Template `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
	Style       *Style    `json:"style,omitempty" gorm:"foreignKey:StyleID"`
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Section) TableName() string {
	return "sections"
}
