// Package entity 定义领域实体
package entity

import (
	"time"
)

// ArticleType 文章类型，用于人工耗时估算
type ArticleType string

const (
	ArticleTypeBreaking ArticleType = "breaking"
	ArticleTypeStandard ArticleType = "standard"
	ArticleTypeFeature  ArticleType = "feature"
	ArticleTypeAnalysis ArticleType = "analysis"
)

// Complexity 内容复杂度
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ValueMetric 单次生成运行的价值指标
// 同一文章在短时间窗口内的重复运行原地更新，不产生新行
type ValueMetric struct {
	ID                string      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ArticleID         *string     `json:"article_id,omitempty" gorm:"type:uuid;index"`
	SessionID         *string     `json:"session_id,omitempty" gorm:"type:uuid;index"`
	GenerationSeconds float64     `json:"generation_seconds"`
	ManualMinutes     float64     `json:"manual_minutes"`
	SavedMinutes      float64     `json:"saved_minutes"`
	TokensTotal       int         `json:"tokens_total"`
	GenerationCost    float64     `json:"generation_cost"`
	ManualCost        float64     `json:"manual_cost"`
	SavedCost         float64     `json:"saved_cost"`
	ChannelCount      int         `json:"channel_count"`
	WordsPerSecond    float64     `json:"words_per_second"`
	ModelUsed         string      `json:"model_used" gorm:"type:varchar(100)"`
	ArticleType       ArticleType `json:"article_type" gorm:"type:varchar(50)"`
	Complexity        Complexity  `json:"complexity" gorm:"type:varchar(50)"`
	ROIPercent        float64     `json:"roi_percent"`
	CreatedAt         time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (ValueMetric) TableName() string {
	return "value_metrics"
}
