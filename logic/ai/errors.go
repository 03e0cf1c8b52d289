package ai

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey 既没有调用方传入的密钥也没有配置的密钥，调用前直接失败
var ErrMissingAPIKey = errors.New("未配置API密钥，请设置ARK_API_KEY环境变量")

// UpstreamError 上游返回非 2xx，携带状态码与响应体
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API调用失败: %d, %s", e.StatusCode, e.Body)
}

// NetworkError 传输层失败（连接、超时等）
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("网络请求错误: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
