// Package generation 实现多渠道文章生成核心流程
package generation

import (
	"regexp"
	"strings"

	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/domain/entity"
)

// fragmentSeparator 模板片段之间的可见分隔
const fragmentSeparator = "\n\n"

// minTemplateChars 拼接结果低于此长度时换用内置默认模板
const minTemplateChars = 20

// defaultTemplate 内置默认模板，包含全部必需占位符
const defaultTemplate = `Rewrite the following news article for the {channel_kind} channel "{channel_name}".

Article title: {title}
Author: {author}
Section: {section}
Topic: {topic}
Date: {date}

Article body:
{body}`

// placeholderPattern 匹配未替换的 {identifier} 占位符
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// TemplateResolver 拼接模板片段并替换变量
type TemplateResolver struct {
	settings *config.RuntimeSettings
}

// NewTemplateResolver 创建模板解析器
func NewTemplateResolver(settings *config.RuntimeSettings) *TemplateResolver {
	return &TemplateResolver{settings: settings}
}

// Resolve 生成最终的提示词文本
// 替换必须完整，残留占位符即失败；结果受进程级长度上限约束
func (r *TemplateResolver) Resolve(tpl *entity.Template, vars map[string]string) (string, error) {
	text := ""
	if tpl != nil {
		parts := make([]string, 0, len(tpl.Fragments))
		for _, f := range tpl.OrderedFragments() {
			if c := strings.TrimSpace(f.Content); c != "" {
				parts = append(parts, c)
			}
		}
		text = strings.Join(parts, fragmentSeparator)
	}
	if len([]rune(strings.TrimSpace(text))) < minTemplateChars {
		text = defaultTemplate
	}

	for name, value := range vars {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}

	if matches := placeholderPattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		names := make([]string, 0, len(matches))
		seen := make(map[string]struct{}, len(matches))
		for _, m := range matches {
			if _, ok := seen[m[1]]; ok {
				continue
			}
			seen[m[1]] = struct{}{}
			names = append(names, m[1])
		}
		return "", &MissingVariableError{Names: names}
	}

	if len([]rune(strings.TrimSpace(text))) < minTemplateChars {
		return "", ErrEmptyTemplate
	}

	return capLength(text, r.settings.MaxPromptChars()), nil
}

// capLength 按字符数截断文本
func capLength(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
