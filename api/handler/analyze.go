package handler

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/OppenHaix/MySoulLinker/api/response"
	"github.com/OppenHaix/MySoulLinker/service"
	"github.com/OppenHaix/MySoulLinker/types"
)

// Analyze 全量历史的阻塞式分析，等模型返回后一次性给出结果
func (h *Handler) Analyze(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	var req types.AnalyzeRequest
	_ = c.ShouldBindJSON(&req) // 请求体可为空

	info, count, err := h.analysisSvc.Analyze(c.Request.Context(), id, req.APIKey)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, gin.H{"analysis": info, "message_count": count})
}

// AnalyzeSelected 只分析勾选的聊天记录
func (h *Handler) AnalyzeSelected(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	var req types.AnalyzeSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: 请求体格式非法")
		return
	}

	info, count, err := h.analysisSvc.AnalyzeSelected(c.Request.Context(), id, req.MessageIDs, req.APIKey)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, gin.H{"analysis": info, "message_count": count})
}

// AnalyzeStream 流式分析。每帧一行 JSON，写出后立刻 flush，
// 失败帧也通过流发出，HTTP 状态码始终 200
func (h *Handler) AnalyzeStream(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	var req types.AnalyzeRequest
	_ = c.ShouldBindJSON(&req)

	h.streamFrames(c, func(send service.SendFunc) error {
		return h.analysisSvc.AnalyzeStream(c.Request.Context(), id, req.APIKey, send)
	})
}

// AnalyzeSelectedStream 选段的流式分析
func (h *Handler) AnalyzeSelectedStream(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	var req types.AnalyzeSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: 请求体格式非法")
		return
	}

	h.streamFrames(c, func(send service.SendFunc) error {
		return h.analysisSvc.AnalyzeSelectedStream(c.Request.Context(), id, req.MessageIDs, req.APIKey, send)
	})
}

func (h *Handler) streamFrames(c *gin.Context, run func(send service.SendFunc) error) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	send := func(frame any) error {
		data, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := c.Writer.Write(append(data, '\n')); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	// 业务失败已作为 error 帧发给客户端，这里不再写普通响应
	_ = run(send)
}
