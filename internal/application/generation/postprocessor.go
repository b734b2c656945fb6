package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"newsroom-ai-api/internal/domain/entity"
)

// TruncateStrategy 截断策略
type TruncateStrategy string

const (
	TruncateSmart TruncateStrategy = "smart"
	TruncateHard  TruncateStrategy = "hard"
)

// emojiPattern 覆盖常见 emoji 码位区间及连接符
var emojiPattern = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}]`)

// PostProcessor 按有效配置对生成文本做确定性后处理
type PostProcessor struct{}

// NewPostProcessor 创建后处理器
func NewPostProcessor() *PostProcessor {
	return &PostProcessor{}
}

// Process 依次应用 emoji 剔除与长度截断，幂等
func (p *PostProcessor) Process(text string, effective map[string]any) string {
	if allow, ok := boolValue(effective[entity.ConfigKeyAllowEmojis]); ok && !allow {
		text = stripEmojis(text)
	}

	limit, ok := intValue(effective[entity.ConfigKeyMaxCharacters])
	if !ok || limit <= 0 {
		return text
	}

	strategy := TruncateSmart
	if raw, ok := effective[entity.ConfigKeyTruncateStrategy]; ok {
		if TruncateStrategy(fmt.Sprintf("%v", raw)) == TruncateHard {
			strategy = TruncateHard
		}
	}

	return truncate(text, limit, strategy)
}

// stripEmojis 剔除 emoji 码位并压缩残留的多余空格
func stripEmojis(text string) string {
	text = emojiPattern.ReplaceAllString(text, "")
	return strings.Join(strings.FieldsFunc(text, func(r rune) bool { return r == ' ' }), " ")
}

// truncate 按字符数截断
// smart 策略优先在句尾断开（落在上限的 50% 之后），
// 其次在空白边界断开（落在上限的 30% 之后），否则硬切
func truncate(text string, limit int, strategy TruncateStrategy) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	if strategy == TruncateHard {
		return string(runes[:limit])
	}

	window := runes[:limit]
	for i := limit - 1; i >= 0; i-- {
		if isSentenceEnd(window[i]) && float64(i+1) >= 0.5*float64(limit) {
			return strings.TrimSpace(string(window[:i+1]))
		}
	}
	for i := limit - 1; i >= 0; i-- {
		if unicode.IsSpace(window[i]) && float64(i) >= 0.3*float64(limit) {
			return strings.TrimSpace(string(window[:i]))
		}
	}
	return string(window)
}

// isSentenceEnd 是否为句尾标点
func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// boolValue 从自由格式配置中读取布尔值
func boolValue(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// intValue 从自由格式配置中读取整数值，容忍 JSON 反序列化产生的数值类型
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
