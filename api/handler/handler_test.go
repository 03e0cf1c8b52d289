package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/OppenHaix/MySoulLinker/api/handler"
	"github.com/OppenHaix/MySoulLinker/api/router"
	"github.com/OppenHaix/MySoulLinker/logic/ai"
	"github.com/OppenHaix/MySoulLinker/service"
	"github.com/OppenHaix/MySoulLinker/storage/sqlite"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	contactRepo := sqlite.NewContactRepo(db)
	chatRepo := sqlite.NewChatLogRepo(db)
	analysisRepo := sqlite.NewAnalysisRepo(db)

	aiClient := ai.NewClient(ai.Config{Endpoint: "http://127.0.0.1:0", Model: "test"})
	contactSvc := service.NewContactService(contactRepo, chatRepo, analysisRepo)
	analysisSvc := service.NewAnalysisService(contactRepo, chatRepo, analysisRepo, aiClient)
	exportSvc := service.NewExportService(contactRepo, chatRepo, analysisRepo, t.TempDir())

	r := gin.New()
	router.RegisterRoutes(r, handler.NewHandler(contactSvc, analysisSvc, exportSvc))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, envelope
}

func TestContactLifecycle(t *testing.T) {
	r := newTestRouter(t)

	// 创建
	_, created := doJSON(t, r, http.MethodPost, "/api/contacts", map[string]any{
		"name": "张明", "notes": "大学室友", "tags": "朋友",
	})
	if created["code"].(float64) != 0 {
		t.Fatalf("create failed: %v", created)
	}
	data := created["data"].(map[string]any)
	id := int(data["id"].(float64))
	if data["avatar"] == "" {
		t.Error("default avatar not applied")
	}

	// 查询
	_, got := doJSON(t, r, http.MethodGet, pathOf("/api/contacts/%d", id), nil)
	if got["data"].(map[string]any)["name"] != "张明" {
		t.Errorf("get: %v", got)
	}

	// 部分更新，未提供的字段保持原值
	_, updated := doJSON(t, r, http.MethodPut, pathOf("/api/contacts/%d", id), map[string]any{
		"notes": "现在是产品经理",
	})
	ud := updated["data"].(map[string]any)
	if ud["notes"] != "现在是产品经理" || ud["name"] != "张明" {
		t.Errorf("update: %v", ud)
	}

	// 录入聊天记录
	_, added := doJSON(t, r, http.MethodPost, pathOf("/api/contacts/%d/chat-logs", id), map[string]any{
		"date": "2026-08-15",
		"lines": []map[string]any{
			{"speaker": "张明", "content": "周末有空吗？"},
			{"speaker": "我", "content": "有的"},
			{"content": "那一起吃饭"},
		},
	})
	if added["data"].(map[string]any)["added"].(float64) != 3 {
		t.Errorf("add chat logs: %v", added)
	}

	_, logs := doJSON(t, r, http.MethodGet, pathOf("/api/contacts/%d/chat-logs", id), nil)
	items := logs["data"].([]any)
	if len(items) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(items))
	}
	last := items[2].(map[string]any)
	if last["speaker"] != "对方" {
		t.Errorf("speaker default: %v", last)
	}
	if last["chat_date"] != "2026-08-15" {
		t.Errorf("chat_date: %v", last)
	}

	// 未分析时 analysis 为空
	_, analysis := doJSON(t, r, http.MethodGet, pathOf("/api/contacts/%d/analysis", id), nil)
	if _, has := analysis["data"]; has {
		t.Errorf("expected empty data, got %v", analysis)
	}

	// 删除后 404
	doJSON(t, r, http.MethodDelete, pathOf("/api/contacts/%d", id), nil)
	w, _ := doJSON(t, r, http.MethodGet, pathOf("/api/contacts/%d", id), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status=%d", w.Code)
	}
}

func TestCreateContact_NameRequired(t *testing.T) {
	r := newTestRouter(t)

	_, envelope := doJSON(t, r, http.MethodPost, "/api/contacts", map[string]any{"notes": "无名氏"})
	if envelope["code"].(float64) != -1 {
		t.Errorf("expected failure, got %v", envelope)
	}
}

func TestGetContact_BadID(t *testing.T) {
	r := newTestRouter(t)

	_, envelope := doJSON(t, r, http.MethodGet, "/api/contacts/abc", nil)
	if envelope["code"].(float64) != -1 {
		t.Errorf("expected failure, got %v", envelope)
	}
}

func TestHomeStats_EmptyDatabase(t *testing.T) {
	r := newTestRouter(t)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/home/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	data := envelope["data"].(map[string]any)
	if data["total_contacts"].(float64) != 0 {
		t.Errorf("total_contacts=%v", data["total_contacts"])
	}
	points := data["activity_data"].([]any)
	if len(points) != 30 {
		t.Errorf("activity points=%d", len(points))
	}
	if _, has := data["insights"]; has && data["insights"] != nil {
		t.Errorf("insights should be absent on empty db: %v", data["insights"])
	}
}

func TestAnalyzeStream_EmitsErrorFrameForMissingContact(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contacts/999/analyze/stream", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var frame map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(w.Body.Bytes()), &frame); err != nil {
		t.Fatalf("decode frame %q: %v", w.Body.String(), err)
	}
	if frame["type"] != "error" {
		t.Errorf("frame=%v", frame)
	}
}

func pathOf(format string, id int) string {
	return fmt.Sprintf(format, id)
}
