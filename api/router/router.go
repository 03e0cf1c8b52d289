package router

import (
	"github.com/gin-gonic/gin"

	"github.com/OppenHaix/MySoulLinker/api/handler"
)

func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	api := r.Group("/api")
	{
		contacts := api.Group("/contacts")
		{
			contacts.GET("", h.ListContacts)
			contacts.POST("", h.CreateContact)
			contacts.GET("/:id", h.GetContact)
			contacts.PUT("/:id", h.UpdateContact)
			contacts.DELETE("/:id", h.DeleteContact)

			contacts.GET("/:id/chat-logs", h.GetChatLogs)
			contacts.POST("/:id/chat-logs", h.AddChatLogs)

			contacts.GET("/:id/analysis", h.GetAnalysis)
			contacts.POST("/:id/analyze", h.Analyze)
			contacts.POST("/:id/analyze/stream", h.AnalyzeStream)
			contacts.POST("/:id/analyze-selected", h.AnalyzeSelected)
			contacts.POST("/:id/analyze-selected/stream", h.AnalyzeSelectedStream)

			contacts.GET("/:id/export/chat-logs", h.ExportChatLogs)
			contacts.GET("/:id/export/analysis", h.ExportAnalysis)
		}
		home := api.Group("/home")
		{
			home.GET("/stats", h.HomeStats)
		}
	}
}
