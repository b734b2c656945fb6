package generation

import (
	"fmt"
	"sort"
	"strings"

	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/domain/entity"
)

// 风格内容追加时使用的固定标题
const (
	directivesHeading = "**STYLE DIRECTIVES:**"
	fragmentsHeading  = "**STYLE RULES AND EXAMPLES:**"
)

// priorityDirectiveKeys 指令块中优先展示的键，其余按字母序排列
var priorityDirectiveKeys = []string{"tone", "length", "format", "structure"}

// StyleApplier 向解析后的模板追加风格指令和风格片段
type StyleApplier struct {
	settings *config.RuntimeSettings
}

// NewStyleApplier 创建风格应用器
func NewStyleApplier(settings *config.RuntimeSettings) *StyleApplier {
	return &StyleApplier{settings: settings}
}

// Apply 返回追加风格内容后的文本，仍受进程级长度上限约束
func (a *StyleApplier) Apply(text string, style *entity.Style) string {
	if style == nil {
		return capLength(text, a.settings.MaxPromptChars())
	}

	var b strings.Builder
	b.WriteString(text)

	if block := buildDirectiveBlock(style.Directives); block != "" {
		b.WriteString("\n\n")
		b.WriteString(directivesHeading)
		b.WriteString("\n")
		b.WriteString(block)
	}

	fragments := style.OrderedFragments()
	if len(fragments) > 0 {
		parts := make([]string, 0, len(fragments))
		for _, f := range fragments {
			if c := strings.TrimSpace(f.Content); c != "" {
				parts = append(parts, c)
			}
		}
		if len(parts) > 0 {
			b.WriteString("\n\n")
			b.WriteString(fragmentsHeading)
			b.WriteString("\n")
			b.WriteString(strings.Join(parts, fragmentSeparator))
		}
	}

	return capLength(b.String(), a.settings.MaxPromptChars())
}

// buildDirectiveBlock 以稳定顺序构造人类可读的指令块
// tone、length、format、structure 优先，其余键按字母序
func buildDirectiveBlock(directives map[string]any) string {
	if len(directives) == 0 {
		return ""
	}

	ordered := make([]string, 0, len(directives))
	used := make(map[string]struct{}, len(directives))
	for _, key := range priorityDirectiveKeys {
		if _, ok := directives[key]; ok {
			ordered = append(ordered, key)
			used[key] = struct{}{}
		}
	}
	rest := make([]string, 0, len(directives))
	for key := range directives {
		if _, ok := used[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	var b strings.Builder
	for _, key := range ordered {
		b.WriteString(fmt.Sprintf("- %s: %v\n", titleCase(key), directives[key]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// titleCase 将指令键转为展示用的首字母大写形式
func titleCase(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
