// Package entity 定义领域实体
package entity

import (
	"time"
)

// GeneratedOutput 渠道生成结果实体
// 每个 (文章, 渠道) 组合最多保留一行未删除记录，重新生成时原地更新
type GeneratedOutput struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ArticleID   string    `json:"article_id" gorm:"type:uuid;index:idx_outputs_article_channel;not null"`
	ChannelID   string    `json:"channel_id" gorm:"type:uuid;index:idx_outputs_article_channel;not null"`
	Title       string    `json:"title" gorm:"type:varchar(500)"`
	Content     string    `json:"content" gorm:"type:text"`
	TokensUsed  int       `json:"tokens_used" gorm:"default:0"`
	LatencyMs   int64     `json:"latency_ms" gorm:"default:0"`
	Simulated   bool      `json:"simulated" gorm:"default:false"`
	GeneratedAt time.Time `json:"generated_at"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (GeneratedOutput) TableName() string {
	return "generated_outputs"
}

// SetResult 写入一次生成的结果
func (o *GeneratedOutput) SetResult(title, content string, tokens int, latencyMs int64, simulated bool) {
	o.Title = title
	o.Content = content
	o.TokensUsed = tokens
	o.LatencyMs = latencyMs
	o.Simulated = simulated
	o.GeneratedAt = time.Now()
	o.UpdatedAt = time.Now()
}

// HasUsableContent 内容是否达到可用的最小长度
func (o *GeneratedOutput) HasUsableContent(minChars int) bool {
	return len([]rune(o.Content)) >= minChars
}
