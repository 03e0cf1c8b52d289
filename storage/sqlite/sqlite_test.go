package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	return db
}

func seedContact(t *testing.T, repo *ContactRepo, name string) *Contact {
	t.Helper()
	contact := &Contact{Name: name, Avatar: "😀"}
	if err := repo.Create(context.Background(), contact); err != nil {
		t.Fatalf("create contact: %v", err)
	}
	return contact
}

func TestContactRepo_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	contact := seedContact(t, repo, "张明")

	got, err := repo.GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "张明" {
		t.Errorf("name=%s", got.Name)
	}

	got.Notes = "大学室友"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.GetByID(ctx, contact.ID)
	if got.Notes != "大学室友" {
		t.Errorf("notes=%s", got.Notes)
	}

	if err := repo.Delete(ctx, contact.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, contact.ID); err == nil {
		t.Error("expected not found after delete")
	}
}

func TestDeleteContact_CascadesChatLogsAndAnalysis(t *testing.T) {
	db := newTestDB(t)
	contactRepo := NewContactRepo(db)
	chatRepo := NewChatLogRepo(db)
	analysisRepo := NewAnalysisRepo(db)
	ctx := context.Background()

	contact := seedContact(t, contactRepo, "李雪")
	err := chatRepo.BatchCreate(ctx, contact.ID, []ChatLog{
		{ContactID: contact.ID, Speaker: "李雪", Content: "在吗", ChatDate: time.Now()},
		{ContactID: contact.ID, Speaker: "我", Content: "在的", ChatDate: time.Now()},
	})
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}
	if err := analysisRepo.Upsert(ctx, &AnalysisResult{ContactID: contact.ID, Summary: "测试"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := contactRepo.Delete(ctx, contact.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if n, _ := chatRepo.CountByContact(ctx, contact.ID); n != 0 {
		t.Errorf("expected chat logs cascaded, got %d", n)
	}
	result, err := analysisRepo.GetByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if result != nil {
		t.Error("expected analysis cascaded")
	}
}

func TestChatLogRepo_OrderAndSelection(t *testing.T) {
	db := newTestDB(t)
	contactRepo := NewContactRepo(db)
	chatRepo := NewChatLogRepo(db)
	ctx := context.Background()

	contact := seedContact(t, contactRepo, "王强")
	day := func(offset int) time.Time {
		return time.Date(2026, 8, 1+offset, 0, 0, 0, 0, time.UTC)
	}
	// 故意乱序写入
	err := chatRepo.BatchCreate(ctx, contact.ID, []ChatLog{
		{ContactID: contact.ID, Speaker: "我", Content: "第三天", ChatDate: day(2)},
		{ContactID: contact.ID, Speaker: "我", Content: "第一天", ChatDate: day(0)},
		{ContactID: contact.ID, Speaker: "我", Content: "第二天", ChatDate: day(1)},
	})
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}

	logs, err := chatRepo.ListByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"第一天", "第二天", "第三天"}
	for i, w := range want {
		if logs[i].Content != w {
			t.Errorf("logs[%d]=%s, want %s", i, logs[i].Content, w)
		}
	}

	selected, err := chatRepo.ListSelected(ctx, contact.ID, []uint{logs[2].ID, logs[0].ID})
	if err != nil {
		t.Fatalf("list selected: %v", err)
	}
	if len(selected) != 2 || selected[0].Content != "第一天" || selected[1].Content != "第三天" {
		t.Errorf("selection wrong: %+v", selected)
	}

	start, end := day(1), day(1)
	ranged, err := chatRepo.ListByContactRange(ctx, contact.ID, &start, &end)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Content != "第二天" {
		t.Errorf("range wrong: %+v", ranged)
	}

	if days, _ := chatRepo.CountActiveDays(ctx, contact.ID); days != 3 {
		t.Errorf("active days=%d", days)
	}
}

func TestChatLogRepo_BatchCreateTouchesContact(t *testing.T) {
	db := newTestDB(t)
	contactRepo := NewContactRepo(db)
	chatRepo := NewChatLogRepo(db)
	ctx := context.Background()

	contact := seedContact(t, contactRepo, "陈思")
	before := contact.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	err := chatRepo.BatchCreate(ctx, contact.ID, []ChatLog{
		{ContactID: contact.ID, Speaker: "陈思", Content: "今天练了吗", ChatDate: time.Now()},
	})
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}

	after, _ := contactRepo.GetByID(ctx, contact.ID)
	if !after.UpdatedAt.After(before) {
		t.Errorf("updated_at not bumped: before=%v after=%v", before, after.UpdatedAt)
	}
}

func TestAnalysisRepo_UpsertKeepsSingleRow(t *testing.T) {
	db := newTestDB(t)
	contactRepo := NewContactRepo(db)
	analysisRepo := NewAnalysisRepo(db)
	ctx := context.Background()

	contact := seedContact(t, contactRepo, "张明")

	if err := analysisRepo.Upsert(ctx, &AnalysisResult{ContactID: contact.ID, Summary: "第一版"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	first, _ := analysisRepo.GetByContact(ctx, contact.ID)

	if err := analysisRepo.Upsert(ctx, &AnalysisResult{ContactID: contact.ID, Summary: "第二版"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if n, _ := analysisRepo.CountByContact(ctx, contact.ID); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
	second, _ := analysisRepo.GetByContact(ctx, contact.ID)
	if second.Summary != "第二版" {
		t.Errorf("summary=%s", second.Summary)
	}
	if second.ID != first.ID {
		t.Errorf("row replaced instead of updated: %d != %d", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on update")
	}
}

func TestAnalysisRepo_GetByContactMissingIsNil(t *testing.T) {
	db := newTestDB(t)
	analysisRepo := NewAnalysisRepo(db)

	result, err := analysisRepo.GetByContact(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil, got %+v", result)
	}
}

func TestAnalysisResult_ParsedData(t *testing.T) {
	a := &AnalysisResult{
		CoreTraits: `{"rationality": "务实"}`,
		Interests:  `["健身", "跑步"]`,
		Summary:    "自律的教练",
	}
	parsed := a.ParsedData()

	traits, ok := parsed["core_traits"].(map[string]any)
	if !ok || traits["rationality"] != "务实" {
		t.Errorf("core_traits=%v", parsed["core_traits"])
	}
	interests, ok := parsed["interests"].([]any)
	if !ok || len(interests) != 2 {
		t.Errorf("interests=%v", parsed["interests"])
	}
	if parsed["summary"] != "自律的教练" {
		t.Errorf("summary=%v", parsed["summary"])
	}
}
