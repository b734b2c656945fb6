package llm

import (
	"fmt"
	"regexp"
	"strings"
)

// promptTitlePattern 从提示词中提取文章标题行
var promptTitlePattern = regexp.MustCompile(`(?im)^\s*(?:article\s+)?title:\s*(.+)$`)

// promptBodyPattern 从提示词中提取正文段起始位置
var promptBodyPattern = regexp.MustCompile(`(?is)(?:article\s+)?(?:body|content):\s*(.+)`)

const simulatedBodyLimit = 400

// buildSimulatedResponse 构造确定性的模拟响应
// 凭证缺失或认证失败时复用提示词中能解析出的标题和正文，
// 保证下游解析、后处理和落库路径在无可用凭证时仍可完整运行
func buildSimulatedResponse(req *Request) *RawResponse {
	prompt := collectUserContent(req.Messages)

	title := "Generated Article"
	if m := promptTitlePattern.FindStringSubmatch(prompt); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			title = t
		}
	}

	body := ""
	if m := promptBodyPattern.FindStringSubmatch(prompt); m != nil {
		body = strings.TrimSpace(m[1])
	}
	if body == "" {
		body = "This is placeholder content produced because no provider credential was available."
	}
	if len(body) > simulatedBodyLimit {
		body = body[:simulatedBodyLimit]
	}

	content := fmt.Sprintf("TITLE: %s\nCONTENT: [SIMULATED] %s", title, body)

	return &RawResponse{
		Content:          content,
		PromptTokens:     estimateRequestTokens(req.Messages),
		CompletionTokens: estimateTokens(content),
		TokensEstimated:  true,
	}
}

// collectUserContent 合并请求中的非 system 消息文本
func collectUserContent(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Role == "system" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}
