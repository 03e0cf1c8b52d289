package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/OppenHaix/MySoulLinker/types"
	"github.com/OppenHaix/MySoulLinker/vars"
)

// Config 在构造时注入，客户端内部不读任何全局状态。
// APIKey 可被单次调用传入的密钥覆盖
type Config struct {
	APIKey        string
	Endpoint      string // OpenAI 兼容接口地址，内部会拼 /chat/completions
	Model         string
	Timeout       time.Duration // 阻塞调用超时
	StreamTimeout time.Duration // 流式调用超时，生成全文耗时更长
}

// Client 上游模型客户端。单次调用、不重试，失败原样抛给编排层
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.StreamTimeout == 0 {
		cfg.StreamTimeout = 180 * time.Second
	}
	return &Client{cfg: cfg}
}

func (c *Client) resolveKey(apiKey string) (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	if c.cfg.APIKey != "" {
		return c.cfg.APIKey, nil
	}
	return "", ErrMissingAPIKey
}

func (c *Client) newAPIClient(key string) *openai.Client {
	conf := openai.DefaultConfig(key)
	conf.BaseURL = c.cfg.Endpoint
	return openai.NewClientWithConfig(conf)
}

func (c *Client) buildRequest(transcript string, stream bool) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: vars.AI_SYSTEM_PROMPT},
			{Role: openai.ChatMessageRoleUser, Content: "请分析以下聊天记录：\n\n" + transcript},
		},
		MaxTokens:   4096,
		Temperature: 0.7,
	}
	if stream {
		req.Stream = true
		req.StreamOptions = &openai.StreamOptions{IncludeUsage: true}
	}
	return req
}

// Analyze 阻塞式分析：一次请求等完整响应。
// 模型内容不是合法 JSON 时不算失败，原文放进 Raw 交给归一化层
func (c *Client) Analyze(ctx context.Context, transcript, apiKey string) (*types.ModelOutcome, error) {
	key, err := c.resolveKey(apiKey)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.newAPIClient(key).CreateChatCompletion(ctx, c.buildRequest(transcript, false))
	if err != nil {
		return nil, classifyErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &UpstreamError{StatusCode: 200, Body: "响应缺少 choices"}
	}

	outcome := &types.ModelOutcome{
		TotalTokens:      resp.Usage.TotalTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	fillContent(outcome, resp.Choices[0].Message.Content)
	return outcome, nil
}

// AnalyzeStream 流式分析：每个非空内容增量按到达顺序回调 emit，不缓冲。
// usage 帧只更新累计 token，不单独产生事件。流结束后把累积全文
// 解析成 Parsed 或 Raw 返回
func (c *Client) AnalyzeStream(ctx context.Context, transcript, apiKey string, emit func(types.StreamEvent)) (*types.ModelOutcome, error) {
	key, err := c.resolveKey(apiKey)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.StreamTimeout)
	defer cancel()

	stream, err := c.newAPIClient(key).CreateChatCompletionStream(ctx, c.buildRequest(transcript, true))
	if err != nil {
		return nil, classifyErr(err)
	}
	defer stream.Close()

	var (
		buf              strings.Builder
		totalLength      int
		totalTokens      int
		completionTokens int
	)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classifyErr(err)
		}

		if chunk.Usage != nil {
			totalTokens = chunk.Usage.TotalTokens
			completionTokens = chunk.Usage.CompletionTokens
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		buf.WriteString(delta)
		totalLength += utf8.RuneCountInString(delta)
		emit(types.StreamEvent{
			Type:             types.EventContentUpdate,
			Content:          delta,
			TotalLength:      totalLength,
			TotalTokens:      totalTokens,
			CompletionTokens: completionTokens,
		})
	}

	outcome := &types.ModelOutcome{
		TotalTokens:      totalTokens,
		CompletionTokens: completionTokens,
	}
	fillContent(outcome, buf.String())
	return outcome, nil
}

func fillContent(outcome *types.ModelOutcome, content string) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed != nil {
		outcome.Parsed = parsed
		return
	}
	outcome.Raw = content
}

func classifyErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return &NetworkError{Err: err}
}
