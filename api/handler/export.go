package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OppenHaix/MySoulLinker/api/response"
	"github.com/OppenHaix/MySoulLinker/service"
)

// ExportChatLogs 导出聊天记录文件。
// formats 逗号分隔（xlsx/csv），多格式时打成 zip
func (h *Handler) ExportChatLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	formats := splitFormats(c.DefaultQuery("formats", "xlsx"))
	includeAnalysis := c.Query("include_analysis") == "true"
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	file, err := h.exportSvc.ExportChatLogs(c.Request.Context(), id, formats, includeAnalysis, startDate, endDate)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	c.FileAttachment(file.Path, file.Name)
}

// ExportAnalysis 导出分析报告。formats 支持 xlsx/json/pdf，
// 各章节可通过 include_* 开关裁剪
func (h *Handler) ExportAnalysis(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, "参数错误: id 非法")
		return
	}

	formats := splitFormats(c.DefaultQuery("formats", "xlsx"))
	includePersonality := c.DefaultQuery("include_personality", "true") == "true"
	includeInterests := c.DefaultQuery("include_interests", "true") == "true"
	includeGuide := c.DefaultQuery("include_guide", "true") == "true"

	file, err := h.exportSvc.ExportAnalysis(c.Request.Context(), id, formats, includePersonality, includeInterests, includeGuide)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}
	c.FileAttachment(file.Path, file.Name)
}

func splitFormats(raw string) []string {
	var formats []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
