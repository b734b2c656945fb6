// Package entity 定义领域实体
package entity

import (
	"time"
)

// ChannelKind 输出渠道类型
type ChannelKind string

const (
	ChannelKindPrint   ChannelKind = "print"
	ChannelKindDigital ChannelKind = "digital"
	ChannelKindSocial  ChannelKind = "social"
	ChannelKindEmail   ChannelKind = "email"
	ChannelKindPodcast ChannelKind = "podcast"
)

// 渠道配置中可识别的键，按使用点校验
const (
	ConfigKeyMergeMode        = "merge_mode"
	ConfigKeyMaxCharacters    = "max_characters"
	ConfigKeyAllowEmojis      = "allow_emojis"
	ConfigKeyTruncateStrategy = "truncate_strategy"
)

// OutputChannel 输出渠道实体
// Configuration 为渠道独有的自由格式配置映射，仅通过合并步骤与风格配置交互
type OutputChannel struct {
	ID            string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Kind          ChannelKind    `json:"kind" gorm:"type:varchar(50);not null"`
	Configuration map[string]any `json:"configuration,omitempty" gorm:"type:jsonb;serializer:json"`
	Active        bool           `json:"active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (OutputChannel) TableName() string {
	return "output_channels"
}
