package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/OppenHaix/MySoulLinker/api/handler"
	"github.com/OppenHaix/MySoulLinker/api/router"
	"github.com/OppenHaix/MySoulLinker/job"
	"github.com/OppenHaix/MySoulLinker/logic/ai"
	"github.com/OppenHaix/MySoulLinker/service"
	"github.com/OppenHaix/MySoulLinker/storage/sqlite"
	"github.com/OppenHaix/MySoulLinker/vars"
)

func main() {
	// 1. 初始化 DB
	db, err := sqlite.InitDB(vars.DB_PATH)
	if err != nil {
		panic(err)
	}

	contactRepo := sqlite.NewContactRepo(db)
	chatRepo := sqlite.NewChatLogRepo(db)
	analysisRepo := sqlite.NewAnalysisRepo(db)

	// 启动定时任务
	job.StartCronJob(vars.EXPORT_DIR)

	// 2. 初始化模型客户端
	aiClient := ai.NewClient(ai.Config{
		APIKey:   vars.ARK_API_KEY,
		Endpoint: vars.ARK_ENDPOINT,
		Model:    vars.AI_MODEL_ID,
	})

	// 3. 初始化 Service (业务层)
	contactSvc := service.NewContactService(contactRepo, chatRepo, analysisRepo)
	analysisSvc := service.NewAnalysisService(contactRepo, chatRepo, analysisRepo, aiClient)
	exportSvc := service.NewExportService(contactRepo, chatRepo, analysisRepo, vars.EXPORT_DIR)

	// 4. 初始化 Handler (API 层)
	h := handler.NewHandler(contactSvc, analysisSvc, exportSvc)

	// 5. 启动 Web Server
	r := gin.Default()
	router.RegisterRoutes(r, h)

	log.Println("Server running on :" + vars.PORT)
	r.Run(":" + vars.PORT)
}
