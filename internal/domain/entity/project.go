package entity

import (
	"time"
)

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Project 编辑项目，文章的可选分组
type Project struct {
	ID          string        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string        `json:"name" gorm:"type:varchar(200);not null"`
	Description string        `json:"description,omitempty" gorm:"type:text"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}
