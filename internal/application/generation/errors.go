package generation

import (
	"errors"
	"fmt"
	"strings"
)

// 生成流程的硬失败错误，不重试、不降级
var (
	// ErrEmptyTemplate 模板文本过短，无法产出可用内容
	ErrEmptyTemplate = errors.New("template text too short to generate usable output")
	// ErrNoTemplate 无法解析出可用模板
	ErrNoTemplate = errors.New("no template available for generation")
	// ErrNoStyle 预览生成要求栏目必须配置风格
	ErrNoStyle = errors.New("no style available for generation")
)

// MissingVariableError 变量替换不完整，属调用方错误
type MissingVariableError struct {
	Names []string
}

// Error 实现 error 接口
func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template variables not substituted: %s", strings.Join(e.Names, ", "))
}

// IsMissingVariable 检查是否为变量缺失错误
func IsMissingVariable(err error) bool {
	var mv *MissingVariableError
	return errors.As(err, &mv)
}
