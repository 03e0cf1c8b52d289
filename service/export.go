package service

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/OppenHaix/MySoulLinker/storage/sqlite"
)

var (
	ErrNoChatLogsToExport = errors.New("没有聊天记录可导出")
	ErrNoAnalysisToExport = errors.New("没有分析结果可导出")
)

// ExportFile 生成的导出文件：Path 是磁盘位置（uuid 命名避免同名覆盖），
// Name 是下载时展示的文件名
type ExportFile struct {
	Path string
	Name string
}

// ExportService 聊天记录与分析报告的文件导出
type ExportService struct {
	contactRepo  *sqlite.ContactRepo
	chatRepo     *sqlite.ChatLogRepo
	analysisRepo *sqlite.AnalysisRepo
	exportDir    string
}

func NewExportService(contactRepo *sqlite.ContactRepo, chatRepo *sqlite.ChatLogRepo, analysisRepo *sqlite.AnalysisRepo, exportDir string) *ExportService {
	_ = os.MkdirAll(exportDir, 0o755)
	return &ExportService{
		contactRepo:  contactRepo,
		chatRepo:     chatRepo,
		analysisRepo: analysisRepo,
		exportDir:    exportDir,
	}
}

// ExportChatLogs 导出聊天记录。多格式或含 csv+xlsx 时打包成 zip
func (s *ExportService) ExportChatLogs(ctx context.Context, contactID uint, formats []string, includeAnalysis bool, startDate, endDate string) (*ExportFile, error) {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, ErrContactNotFound
	}

	// 非法日期直接忽略，不中断导出
	var start, end *time.Time
	if t, err := time.Parse("2006-01-02", startDate); err == nil {
		start = &t
	}
	if t, err := time.Parse("2006-01-02", endDate); err == nil {
		end = &t
	}

	logs, err := s.chatRepo.ListByContactRange(ctx, contactID, start, end)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrNoChatLogsToExport
	}

	hasCSV := containsFormat(formats, "csv")
	hasXLSX := containsFormat(formats, "xlsx")
	switch {
	case hasCSV && hasXLSX:
		xlsxPath, err := s.writeChatLogsExcel(logs, includeAnalysis)
		if err != nil {
			return nil, err
		}
		csvPath, err := s.writeChatLogsCSV(logs)
		if err != nil {
			return nil, err
		}
		return s.zipEntries("聊天记录", contact.Name, []zipEntry{
			{Name: fmt.Sprintf("聊天记录_%s.xlsx", contact.Name), Path: xlsxPath},
			{Name: fmt.Sprintf("聊天记录_%s.csv", contact.Name), Path: csvPath},
		})
	case hasCSV:
		path, err := s.writeChatLogsCSV(logs)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Path: path, Name: downloadName("聊天记录", contact.Name, "csv")}, nil
	default:
		path, err := s.writeChatLogsExcel(logs, includeAnalysis)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Path: path, Name: downloadName("聊天记录", contact.Name, "xlsx")}, nil
	}
}

// ExportAnalysis 导出分析报告。formats 支持 xlsx/json/pdf（pdf 以纯文本报告代替）
func (s *ExportService) ExportAnalysis(ctx context.Context, contactID uint, formats []string, includePersonality, includeInterests, includeGuide bool) (*ExportFile, error) {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, ErrContactNotFound
	}
	analysis, err := s.analysisRepo.GetByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, ErrNoAnalysisToExport
	}

	if len(formats) > 1 {
		var entries []zipEntry
		for _, format := range formats {
			switch format {
			case "xlsx":
				path, err := s.writeAnalysisExcel(analysis, contact.Name, includePersonality, includeInterests, includeGuide)
				if err != nil {
					return nil, err
				}
				entries = append(entries, zipEntry{Name: fmt.Sprintf("分析报告_%s.xlsx", contact.Name), Path: path})
			case "json":
				path, err := s.writeAnalysisJSON(analysis, contact.Name)
				if err != nil {
					return nil, err
				}
				entries = append(entries, zipEntry{Name: fmt.Sprintf("分析报告_%s.json", contact.Name), Path: path})
			case "pdf":
				path, err := s.writeAnalysisText(analysis, contact.Name)
				if err != nil {
					return nil, err
				}
				entries = append(entries, zipEntry{Name: fmt.Sprintf("分析报告_%s.txt", contact.Name), Path: path})
			}
		}
		return s.zipEntries("分析报告", contact.Name, entries)
	}

	format := "xlsx"
	if len(formats) == 1 {
		format = formats[0]
	}
	switch format {
	case "json":
		path, err := s.writeAnalysisJSON(analysis, contact.Name)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Path: path, Name: downloadName("分析报告", contact.Name, "json")}, nil
	case "pdf":
		path, err := s.writeAnalysisText(analysis, contact.Name)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Path: path, Name: downloadName("分析报告", contact.Name, "txt")}, nil
	default:
		path, err := s.writeAnalysisExcel(analysis, contact.Name, includePersonality, includeInterests, includeGuide)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Path: path, Name: downloadName("分析报告", contact.Name, "xlsx")}, nil
	}
}

// traitDimensions 画像四维度在报表中的展示顺序
var traitDimensions = []struct {
	Label string
	Field string
}{
	{"核心特质", "core_traits"},
	{"行为偏好", "behavior_preferences"},
	{"社交互动", "social_interaction"},
	{"认知思维", "cognitive_thinking"},
}

func (s *ExportService) writeChatLogsExcel(logs []sqlite.ChatLog, includeAnalysis bool) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "聊天记录"
	f.SetSheetName("Sheet1", sheet)

	headers := []any{"日期", "发言者", "内容"}
	if includeAnalysis {
		headers = append(headers, "分析备注")
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return "", err
	}
	for i, l := range logs {
		row := []any{l.ChatDate.Format("2006-01-02"), l.Speaker, l.Content}
		if includeAnalysis {
			row = append(row, "")
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", err
		}
	}

	path := s.diskPath("xlsx")
	return path, f.SaveAs(path)
}

func (s *ExportService) writeChatLogsCSV(logs []sqlite.ChatLog) (string, error) {
	path := s.diskPath("csv")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// BOM 让 Excel 按 UTF-8 打开
	if _, err := file.WriteString("\xEF\xBB\xBF"); err != nil {
		return "", err
	}
	w := csv.NewWriter(file)
	if err := w.Write([]string{"日期", "发言者", "内容"}); err != nil {
		return "", err
	}
	for _, l := range logs {
		if err := w.Write([]string{l.ChatDate.Format("2006-01-02"), l.Speaker, l.Content}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

func (s *ExportService) writeAnalysisExcel(analysis *sqlite.AnalysisResult, contactName string, includePersonality, includeInterests, includeGuide bool) (string, error) {
	parsed := analysis.ParsedData()

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "摘要"
	f.SetSheetName("Sheet1", summarySheet)
	if err := f.SetSheetRow(summarySheet, "A1", &[]any{"联系人", "分析摘要", "创建时间"}); err != nil {
		return "", err
	}
	if err := f.SetSheetRow(summarySheet, "A2", &[]any{
		contactName,
		stringField(parsed["summary"]),
		analysis.CreatedAt.Format("2006-01-02 15:04:05"),
	}); err != nil {
		return "", err
	}

	if includeInterests {
		if interests := listField(parsed["interests"]); len(interests) > 0 {
			sheet := "兴趣关键词"
			if _, err := f.NewSheet(sheet); err != nil {
				return "", err
			}
			if err := f.SetSheetRow(sheet, "A1", &[]any{"关键词"}); err != nil {
				return "", err
			}
			for i, kw := range interests {
				cell, err := excelize.CoordinatesToCellName(1, i+2)
				if err != nil {
					return "", err
				}
				if err := f.SetSheetRow(sheet, cell, &[]any{kw}); err != nil {
					return "", err
				}
			}
		}
	}

	if includePersonality {
		type traitRow struct{ dimension, trait, desc string }
		var rows []traitRow
		for _, dim := range traitDimensions {
			for key, value := range mapField(parsed[dim.Field]) {
				rows = append(rows, traitRow{dim.Label, key, fmt.Sprint(value)})
			}
		}
		if len(rows) > 0 {
			sheet := "性格特质"
			if _, err := f.NewSheet(sheet); err != nil {
				return "", err
			}
			if err := f.SetSheetRow(sheet, "A1", &[]any{"维度", "特质", "描述"}); err != nil {
				return "", err
			}
			for i, row := range rows {
				cell, err := excelize.CoordinatesToCellName(1, i+2)
				if err != nil {
					return "", err
				}
				if err := f.SetSheetRow(sheet, cell, &[]any{row.dimension, row.trait, row.desc}); err != nil {
					return "", err
				}
			}
		}
	}

	if includeGuide {
		guide := mapField(parsed["dos_and_donts"])
		var rows [][]any
		for _, item := range listField(guide["dos"]) {
			rows = append(rows, []any{"应该做", item})
		}
		for _, item := range listField(guide["donts"]) {
			rows = append(rows, []any{"不应该做", item})
		}
		if len(rows) > 0 {
			sheet := "相处指南"
			if _, err := f.NewSheet(sheet); err != nil {
				return "", err
			}
			if err := f.SetSheetRow(sheet, "A1", &[]any{"类型", "事项"}); err != nil {
				return "", err
			}
			for i, row := range rows {
				cell, err := excelize.CoordinatesToCellName(1, i+2)
				if err != nil {
					return "", err
				}
				if err := f.SetSheetRow(sheet, cell, &row); err != nil {
					return "", err
				}
			}
		}
	}

	path := s.diskPath("xlsx")
	return path, f.SaveAs(path)
}

func (s *ExportService) writeAnalysisJSON(analysis *sqlite.AnalysisResult, contactName string) (string, error) {
	parsed := analysis.ParsedData()

	export := map[string]any{
		"contact_name":         contactName,
		"summary":              stringField(parsed["summary"]),
		"interests":            orEmptyList(parsed["interests"]),
		"core_traits":          orEmptyMap(parsed["core_traits"]),
		"behavior_preferences": orEmptyMap(parsed["behavior_preferences"]),
		"social_interaction":   orEmptyMap(parsed["social_interaction"]),
		"cognitive_thinking":   orEmptyMap(parsed["cognitive_thinking"]),
		"dos_and_donts":        orEmptyMap(parsed["dos_and_donts"]),
		"created_at":           analysis.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", err
	}
	path := s.diskPath("json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *ExportService) writeAnalysisText(analysis *sqlite.AnalysisResult, contactName string) (string, error) {
	parsed := analysis.ParsedData()

	var b strings.Builder
	fmt.Fprintf(&b, "分析报告 - %s\n%s\n\n", contactName, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "分析摘要\n%s\n%s\n\n", strings.Repeat("-", 30), stringField(parsed["summary"]))

	var keywords []string
	for _, kw := range listField(parsed["interests"]) {
		keywords = append(keywords, fmt.Sprint(kw))
	}
	fmt.Fprintf(&b, "兴趣关键词\n%s\n%s\n\n", strings.Repeat("-", 30), strings.Join(keywords, ", "))

	fmt.Fprintf(&b, "性格特质\n%s\n", strings.Repeat("-", 30))
	for _, dim := range traitDimensions {
		fields := mapField(parsed[dim.Field])
		if len(fields) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", dim.Label)
		for key, value := range fields {
			fmt.Fprintf(&b, "  - %s: %v\n", key, value)
		}
	}

	guide := mapField(parsed["dos_and_donts"])
	if len(guide) > 0 {
		fmt.Fprintf(&b, "\n相处指南\n%s\n", strings.Repeat("-", 30))
		b.WriteString("应该做:\n")
		for _, item := range listField(guide["dos"]) {
			fmt.Fprintf(&b, "  + %v\n", item)
		}
		b.WriteString("不应该做:\n")
		for _, item := range listField(guide["donts"]) {
			fmt.Fprintf(&b, "  - %v\n", item)
		}
	}

	path := s.diskPath("txt")
	return path, os.WriteFile(path, []byte(b.String()), 0o644)
}

type zipEntry struct {
	Name string
	Path string
}

func (s *ExportService) zipEntries(prefix, contactName string, entries []zipEntry) (*ExportFile, error) {
	path := s.diskPath("zip")
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	zw := zip.NewWriter(file)
	for _, entry := range entries {
		src, err := os.Open(entry.Path)
		if err != nil {
			zw.Close()
			return nil, err
		}
		dst, err := zw.Create(entry.Name)
		if err != nil {
			src.Close()
			zw.Close()
			return nil, err
		}
		if _, err := io.Copy(dst, src); err != nil {
			src.Close()
			zw.Close()
			return nil, err
		}
		src.Close()
		_ = os.Remove(entry.Path)
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return &ExportFile{Path: path, Name: downloadName(prefix, contactName, "zip")}, nil
}

// diskPath 磁盘文件名用 uuid，避免同一秒的并发导出互相覆盖
func (s *ExportService) diskPath(ext string) string {
	return filepath.Join(s.exportDir, uuid.NewString()+"."+ext)
}

func downloadName(prefix, contactName, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", prefix, contactName, time.Now().Format("20060102_150405"), ext)
}

func containsFormat(formats []string, want string) bool {
	for _, f := range formats {
		if strings.TrimSpace(f) == want {
			return true
		}
	}
	return false
}

func mapField(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func listField(v any) []any {
	l, _ := v.([]any)
	return l
}

func orEmptyMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func orEmptyList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{}
}
