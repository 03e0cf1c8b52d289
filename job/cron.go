package job

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// 导出文件的保留期，超期的临时文件每晚清一次
const exportRetention = 7 * 24 * time.Hour

func StartCronJob(exportDir string) {
	c := cron.New()

	// 每天凌晨 3 点执行
	_, err := c.AddFunc("0 3 * * *", func() {
		removed, err := CleanExports(exportDir, exportRetention)
		if err != nil {
			log.Println("[Cron] Error:", err)
		} else {
			log.Printf("[Cron] 清理了 %d 个过期导出文件\n", removed)
		}
	})
	if err != nil {
		log.Println("[Cron] 注册清理任务失败:", err)
		return
	}

	c.Start()
}

// CleanExports 删除 dir 下修改时间早于保留期的文件，返回删除数量
func CleanExports(dir string, retention time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
