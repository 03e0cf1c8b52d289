package sqlite

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化 SQLite 连接并建表
// path 形如 "database/social.db"
func InitDB(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir failed: %w", err)
		}
	}

	// 打开外键约束，删除联系人时级联清理聊天记录和分析结果
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db failed: %w", err)
	}

	if err := db.AutoMigrate(&Contact{}, &ChatLog{}, &AnalysisResult{}); err != nil {
		return nil, fmt.Errorf("migrate failed: %w", err)
	}

	log.Println("SQLite connected successfully:", path)
	return db, nil
}
