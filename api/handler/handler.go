package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OppenHaix/MySoulLinker/service"
)

type Handler struct {
	contactSvc  *service.ContactService
	analysisSvc *service.AnalysisService
	exportSvc   *service.ExportService
}

func NewHandler(contactSvc *service.ContactService, analysisSvc *service.AnalysisService, exportSvc *service.ExportService) *Handler {
	return &Handler{
		contactSvc:  contactSvc,
		analysisSvc: analysisSvc,
		exportSvc:   exportSvc,
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
