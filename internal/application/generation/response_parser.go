package generation

import (
	"regexp"
	"strings"
)

const (
	titleMinChars   = 10
	titleMaxChars   = 200
	contentMinChars = 50

	// fallbackTitle 解析不出可用标题时的占位标题
	fallbackTitle = "Generated Article"
)

// 提供商输出约定为 "TITLE: ... CONTENT: ..." 格式
var (
	// 标题在 CONTENT 标记或行尾前截止，不跨行
	titlePattern   = regexp.MustCompile(`(?im)TITLE:[ \t]*(.+?)[ \t]*(?:CONTENT:|$)`)
	contentPattern = regexp.MustCompile(`(?is)CONTENT:\s*(.+)`)
)

// ParsedResponse 从原始文本解析出的结构化字段
type ParsedResponse struct {
	Title   string
	Content string
}

// ResponseParser 将提供商原始文本解析为标题与正文
type ResponseParser struct{}

// NewResponseParser 创建响应解析器
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse 解析原始文本
// 标记缺失时启用回退启发式，保证总能返回可用的标题与正文
func (p *ResponseParser) Parse(raw string) *ParsedResponse {
	raw = strings.TrimSpace(raw)

	title := ""
	if m := titlePattern.FindStringSubmatch(raw); m != nil {
		title = strings.TrimSpace(m[1])
	}

	content := ""
	if m := contentPattern.FindStringSubmatch(raw); m != nil {
		content = strings.TrimSpace(m[1])
	}

	if title == "" {
		title = heuristicTitle(raw)
	}
	if content == "" {
		content = raw
	}

	title = normalizeTitle(title)
	if len([]rune(content)) < contentMinChars {
		content = title + "\n\n" + content
	}

	return &ParsedResponse{Title: title, Content: content}
}

// heuristicTitle 扫描前三行寻找 10~200 字符且不以句号结尾的候选标题，
// 找不到时取首个非空行并硬截到上限
func heuristicTitle(raw string) string {
	lines := strings.Split(raw, "\n")
	limit := len(lines)
	if limit > 3 {
		limit = 3
	}

	firstLine := ""
	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if firstLine == "" {
			firstLine = line
		}
		n := len([]rune(line))
		if n >= titleMinChars && n <= titleMaxChars && !strings.HasSuffix(line, ".") {
			return line
		}
	}
	return firstLine
}

// normalizeTitle 硬截到上限，过短则换用占位标题
func normalizeTitle(title string) string {
	runes := []rune(title)
	if len(runes) > titleMaxChars {
		title = string(runes[:titleMaxChars])
		runes = runes[:titleMaxChars]
	}
	if len(runes) < titleMinChars {
		return fallbackTitle
	}
	return title
}
