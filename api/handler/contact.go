package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/OppenHaix/MySoulLinker/api/response"
	"github.com/OppenHaix/MySoulLinker/service"
	"github.com/OppenHaix/MySoulLinker/types"
)

// ListContacts 联系人列表，按最近更新排序
func (h *Handler) ListContacts(c *gin.Context) {
	infos, err := h.contactSvc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, infos)
}

// CreateContact 新建联系人，name 必填
func (h *Handler) CreateContact(c *gin.Context) {
	var req types.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: name 不能为空")
		return
	}

	info, err := h.contactSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, info)
}

func (h *Handler) GetContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	info, err := h.contactSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, info)
}

// UpdateContact 部分更新，缺省字段保持原值
func (h *Handler) UpdateContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	var req types.ContactUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: 请求体格式非法")
		return
	}

	info, err := h.contactSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, info)
}

// DeleteContact 删除联系人，关联的聊天记录和分析结果级联删除
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	if err := h.contactSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func (h *Handler) GetChatLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	infos, err := h.contactSvc.ListChatLogs(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, infos)
}

// AddChatLogs 批量录入某天的聊天记录
func (h *Handler) AddChatLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	var req types.ChatLogBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: 请求体格式非法")
		return
	}

	count, err := h.contactSvc.AppendChatLogs(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, gin.H{"added": count})
}

// GetAnalysis 查询已保存的分析结果，未分析过返回空 data
func (h *Handler) GetAnalysis(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	info, err := h.contactSvc.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	if info == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, info)
}

// HomeStats 首页统计面板
func (h *Handler) HomeStats(c *gin.Context) {
	stats, err := h.contactSvc.HomeStats(c.Request.Context())
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, stats)
}
