// Package config 提供运行时可变配置
package config

import (
	"sync"
)

// RuntimeSettings 进程级运行时可覆盖配置
// 覆盖值在进程重启后失效，未设置时回退到配置文件的默认值
type RuntimeSettings struct {
	mu             sync.RWMutex
	defaults       *GenerationConfig
	maxPromptChars *int
}

// NewRuntimeSettings 创建运行时配置
func NewRuntimeSettings(defaults *GenerationConfig) *RuntimeSettings {
	return &RuntimeSettings{defaults: defaults}
}

// MaxPromptChars 返回当前生效的提示词长度上限
func (s *RuntimeSettings) MaxPromptChars() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.maxPromptChars != nil {
		return *s.maxPromptChars
	}
	return s.defaults.MaxPromptChars
}

// SetMaxPromptChars 设置提示词长度上限覆盖值
func (s *RuntimeSettings) SetMaxPromptChars(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxPromptChars = &limit
}

// ResetMaxPromptChars 清除覆盖值，恢复默认上限
func (s *RuntimeSettings) ResetMaxPromptChars() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxPromptChars = nil
}

// IsOverridden 当前上限是否为运行时覆盖值
func (s *RuntimeSettings) IsOverridden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxPromptChars != nil
}
