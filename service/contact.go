package service

import (
	"context"
	"fmt"
	"time"

	"github.com/OppenHaix/MySoulLinker/storage/sqlite"
	"github.com/OppenHaix/MySoulLinker/types"
	"github.com/OppenHaix/MySoulLinker/vars"
)

// ContactService 联系人与聊天记录的增删查，以及首页统计
type ContactService struct {
	contactRepo  *sqlite.ContactRepo
	chatRepo     *sqlite.ChatLogRepo
	analysisRepo *sqlite.AnalysisRepo
}

func NewContactService(contactRepo *sqlite.ContactRepo, chatRepo *sqlite.ChatLogRepo, analysisRepo *sqlite.AnalysisRepo) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		chatRepo:     chatRepo,
		analysisRepo: analysisRepo,
	}
}

func (s *ContactService) List(ctx context.Context) ([]types.ContactInfo, error) {
	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toContactInfos(ctx, contacts)
}

func (s *ContactService) Get(ctx context.Context, id uint) (*types.ContactInfo, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrContactNotFound
	}
	info, err := s.toContactInfo(ctx, contact)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *ContactService) Create(ctx context.Context, req *types.ContactRequest) (*types.ContactInfo, error) {
	avatar := req.Avatar
	if avatar == "" {
		avatar = vars.DEFAULT_AVATAR
	}
	contact := &sqlite.Contact{
		Name:   req.Name,
		Avatar: avatar,
		Notes:  req.Notes,
		Tags:   req.Tags,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return s.toContactInfo(ctx, contact)
}

func (s *ContactService) Update(ctx context.Context, id uint, req *types.ContactUpdateRequest) (*types.ContactInfo, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrContactNotFound
	}
	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Avatar != nil {
		contact.Avatar = *req.Avatar
	}
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}
	if req.Tags != nil {
		contact.Tags = *req.Tags
	}
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return s.toContactInfo(ctx, contact)
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if _, err := s.contactRepo.GetByID(ctx, id); err != nil {
		return ErrContactNotFound
	}
	return s.contactRepo.Delete(ctx, id)
}

func (s *ContactService) ListChatLogs(ctx context.Context, contactID uint) ([]types.ChatLogInfo, error) {
	logs, err := s.chatRepo.ListByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	infos := make([]types.ChatLogInfo, 0, len(logs))
	for _, l := range logs {
		infos = append(infos, types.ChatLogInfo{
			ID:        l.ID,
			ContactID: l.ContactID,
			Speaker:   l.Speaker,
			Content:   l.Content,
			ChatDate:  l.ChatDate.Format("2006-01-02"),
			CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return infos, nil
}

// AppendChatLogs 批量录入某天的聊天记录，date 缺省为今天，speaker 缺省为"对方"
func (s *ContactService) AppendChatLogs(ctx context.Context, contactID uint, req *types.ChatLogBatchRequest) (int, error) {
	if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
		return 0, ErrContactNotFound
	}

	// chat_date 只保留日历日期，落库前统一截断到零点
	chatDate := truncateToDay(time.Now())
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return 0, err
		}
		chatDate = parsed
	}

	logs := make([]sqlite.ChatLog, 0, len(req.Lines))
	for _, line := range req.Lines {
		speaker := line.Speaker
		if speaker == "" {
			speaker = vars.SPEAKER_OTHER
		}
		logs = append(logs, sqlite.ChatLog{
			ContactID: contactID,
			Speaker:   speaker,
			Content:   line.Content,
			ChatDate:  chatDate,
		})
	}
	if err := s.chatRepo.BatchCreate(ctx, contactID, logs); err != nil {
		return 0, err
	}
	return len(logs), nil
}

// GetAnalysis 查询已保存的分析结果，不存在时返回 (nil, nil)
func (s *ContactService) GetAnalysis(ctx context.Context, contactID uint) (*types.AnalysisInfo, error) {
	result, err := s.analysisRepo.GetByContact(ctx, contactID)
	if err != nil || result == nil {
		return nil, err
	}
	return toAnalysisInfo(result), nil
}

// HomeStats 首页统计：总量、本月新增、30 天活跃、分析覆盖率、
// 最近联系人、待关注提示和 30 天活跃度曲线
func (s *ContactService) HomeStats(ctx context.Context) (*types.HomeStats, error) {
	now := time.Now()

	totalContacts, err := s.contactRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalMessages, err := s.chatRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalAnalyses, err := s.analysisRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	newThisMonth, err := s.contactRepo.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	activeRelationships, err := s.contactRepo.CountUpdatedSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	analysisRate := 0
	if totalContacts > 0 {
		analysisRate = int(totalAnalyses * 100 / totalContacts)
	}

	recent, err := s.contactRepo.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}
	recentInfos, err := s.toContactInfos(ctx, recent)
	if err != nil {
		return nil, err
	}

	var needAttention []types.AttentionItem
	for i, info := range recentInfos {
		if info.ChatCount > 0 && !info.HasAnalysis {
			needAttention = append(needAttention, types.AttentionItem{
				ID:     info.ID,
				Name:   info.Name,
				Reason: "有待分析的聊天记录",
			})
		}
		if i < 2 && info.ChatCount > 30 && !info.HasAnalysis {
			needAttention = append(needAttention, types.AttentionItem{
				ID:     info.ID,
				Name:   info.Name,
				Reason: "积累了大量聊天记录",
			})
		}
	}
	if len(needAttention) > 3 {
		needAttention = needAttention[:3]
	}

	since := now.AddDate(0, 0, -29)
	daily, err := s.chatRepo.DailyCounts(ctx, time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location()))
	if err != nil {
		return nil, err
	}
	activity := make([]types.ActivityPoint, 0, 30)
	for i := 0; i < 30; i++ {
		date := now.AddDate(0, 0, i-29).Format("2006-01-02")
		activity = append(activity, types.ActivityPoint{Date: date, Count: daily[date]})
	}

	var insights *types.Insights
	if totalContacts > 0 {
		mostActive, err := s.contactRepo.MostActiveName(ctx)
		if err != nil {
			return nil, err
		}
		insights = &types.Insights{
			AvgMessagesPerContact: formatAvg(totalMessages, totalContacts),
			MostActiveContact:     mostActive,
			AnalysisCoverage:      analysisRate,
		}
	}

	return &types.HomeStats{
		TotalContacts:       totalContacts,
		TotalMessages:       totalMessages,
		TotalAnalyses:       totalAnalyses,
		NewThisMonth:        newThisMonth,
		ActiveRelationships: activeRelationships,
		AnalysisRate:        analysisRate,
		RecentContacts:      recentInfos,
		NeedAttention:       needAttention,
		ActivityData:        activity,
		Insights:            insights,
	}, nil
}

func (s *ContactService) toContactInfo(ctx context.Context, contact *sqlite.Contact) (*types.ContactInfo, error) {
	chatCount, err := s.chatRepo.CountByContact(ctx, contact.ID)
	if err != nil {
		return nil, err
	}
	activeDays, err := s.chatRepo.CountActiveDays(ctx, contact.ID)
	if err != nil {
		return nil, err
	}
	analysisCount, err := s.analysisRepo.CountByContact(ctx, contact.ID)
	if err != nil {
		return nil, err
	}
	return &types.ContactInfo{
		ID:            contact.ID,
		Name:          contact.Name,
		Avatar:        contact.Avatar,
		Notes:         contact.Notes,
		Tags:          contact.Tags,
		CreatedAt:     contact.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     contact.UpdatedAt.Format("2006-01-02 15:04:05"),
		ChatCount:     chatCount,
		Sessions:      activeDays,
		ActiveDays:    activeDays,
		AnalysisCount: analysisCount,
		HasAnalysis:   analysisCount > 0,
	}, nil
}

func (s *ContactService) toContactInfos(ctx context.Context, contacts []sqlite.Contact) ([]types.ContactInfo, error) {
	infos := make([]types.ContactInfo, 0, len(contacts))
	for i := range contacts {
		info, err := s.toContactInfo(ctx, &contacts[i])
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatAvg(total, count int64) string {
	if count == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(total)/float64(count))
}
