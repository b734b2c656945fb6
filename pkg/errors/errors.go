// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 资源错误 (3xxx)
	CodeArticleNotFound   ErrorCode = "3001"
	CodeChannelNotFound   ErrorCode = "3002"
	CodeTemplateNotFound  ErrorCode = "3003"
	CodeStyleNotFound     ErrorCode = "3004"
	CodeOutputNotFound    ErrorCode = "3005"
	CodeLLMConfigNotFound ErrorCode = "3006"

	// 业务错误 (4xxx)
	CodeGenerationFailed    ErrorCode = "4001"
	CodeMissingVariable     ErrorCode = "4002"
	CodeEmptyTemplate       ErrorCode = "4003"
	CodeNoTemplate          ErrorCode = "4004"
	CodeNoStyle             ErrorCode = "4005"
	CodeEmptyResponse       ErrorCode = "4006"
	CodeUnsupportedProvider ErrorCode = "4007"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeLLMProviderError ErrorCode = "5005"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeMissingVariable:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeArticleNotFound, CodeChannelNotFound,
		CodeTemplateNotFound, CodeStyleNotFound, CodeOutputNotFound,
		CodeLLMConfigNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeNoTemplate, CodeNoStyle, CodeUnsupportedProvider:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeLLMProviderError:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized       = New(CodeUnauthorized, "unauthorized")
	ErrForbidden          = New(CodeForbidden, "forbidden")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrArticleNotFound   = New(CodeArticleNotFound, "article not found")
	ErrChannelNotFound   = New(CodeChannelNotFound, "output channel not found")
	ErrTemplateNotFound  = New(CodeTemplateNotFound, "template not found")
	ErrStyleNotFound     = New(CodeStyleNotFound, "style not found")
	ErrOutputNotFound    = New(CodeOutputNotFound, "generated output not found")
	ErrLLMConfigNotFound = New(CodeLLMConfigNotFound, "llm config not found")

	ErrGenerationFailed = New(CodeGenerationFailed, "content generation failed")
	ErrLLMProviderError = New(CodeLLMProviderError, "LLM provider call failed")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
