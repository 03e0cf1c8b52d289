package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/OppenHaix/MySoulLinker/logic/ai"
	"github.com/OppenHaix/MySoulLinker/storage/sqlite"
	"github.com/OppenHaix/MySoulLinker/types"
	"github.com/OppenHaix/MySoulLinker/vars"
)

var (
	ErrContactNotFound    = errors.New("联系人不存在")
	ErrNoChatLogs         = errors.New("没有聊天记录可分析")
	ErrNoneSelected       = errors.New("请选择要分析的聊天记录")
	ErrSelectionNotFound  = errors.New("没有找到选中的聊天记录")
	ErrTranscriptTooShort = errors.New("聊天记录内容太少，无法进行有效分析")
)

// 选段分析的最小可用长度（字符数），低于该值的片段无法得出有意义的画像
const minTranscriptRunes = 50

// SendFunc 流式分析时向调用方推送一帧（写出并立刻 flush）
type SendFunc func(frame any) error

// AnalysisService 串起一次完整的分析流程：
// 取聊天记录 → 调模型 → 归一化 → 落库 → 返回（流式时沿途转发进度）
type AnalysisService struct {
	contactRepo  *sqlite.ContactRepo
	chatRepo     *sqlite.ChatLogRepo
	analysisRepo *sqlite.AnalysisRepo
	aiClient     *ai.Client
}

func NewAnalysisService(contactRepo *sqlite.ContactRepo, chatRepo *sqlite.ChatLogRepo, analysisRepo *sqlite.AnalysisRepo, aiClient *ai.Client) *AnalysisService {
	return &AnalysisService{
		contactRepo:  contactRepo,
		chatRepo:     chatRepo,
		analysisRepo: analysisRepo,
		aiClient:     aiClient,
	}
}

// BuildTranscript 把聊天记录渲染成发给模型的文本。
// 每行 [日期]【我】内容 或 [日期]【对方】内容，按时间顺序用换行连接。
// 这个格式是系统提示词约定的输入契约，不能改
func BuildTranscript(logs []sqlite.ChatLog) string {
	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		tag := "【" + vars.SPEAKER_OTHER + "】"
		if l.Speaker == vars.SPEAKER_ME {
			tag = "【" + vars.SPEAKER_ME + "】"
		}
		lines = append(lines, fmt.Sprintf("[%s]%s%s", l.ChatDate.Format("2006-01-02"), tag, l.Content))
	}
	return strings.Join(lines, "\n")
}

// Analyze 全量历史的阻塞式分析
func (s *AnalysisService) Analyze(ctx context.Context, contactID uint, apiKey string) (*types.AnalysisInfo, int, error) {
	return s.run(ctx, contactID, nil, false, apiKey)
}

// AnalyzeSelected 选段的阻塞式分析
func (s *AnalysisService) AnalyzeSelected(ctx context.Context, contactID uint, messageIDs []uint, apiKey string) (*types.AnalysisInfo, int, error) {
	return s.run(ctx, contactID, messageIDs, true, apiKey)
}

// AnalyzeStream 全量历史的流式分析，进度帧通过 send 逐条推送
func (s *AnalysisService) AnalyzeStream(ctx context.Context, contactID uint, apiKey string, send SendFunc) error {
	return s.runStream(ctx, contactID, nil, false, apiKey, send)
}

// AnalyzeSelectedStream 选段的流式分析
func (s *AnalysisService) AnalyzeSelectedStream(ctx context.Context, contactID uint, messageIDs []uint, apiKey string, send SendFunc) error {
	return s.runStream(ctx, contactID, messageIDs, true, apiKey, send)
}

func (s *AnalysisService) run(ctx context.Context, contactID uint, messageIDs []uint, selected bool, apiKey string) (*types.AnalysisInfo, int, error) {
	logs, transcript, err := s.fetchTranscript(ctx, contactID, messageIDs, selected)
	if err != nil {
		return nil, 0, err
	}

	outcome, err := s.aiClient.Analyze(ctx, transcript, apiKey)
	if err != nil {
		return nil, 0, err
	}

	result, err := s.persist(ctx, contactID, outcome)
	if err != nil {
		return nil, 0, err
	}
	return toAnalysisInfo(result), len(logs), nil
}

func (s *AnalysisService) runStream(ctx context.Context, contactID uint, messageIDs []uint, selected bool, apiKey string, send SendFunc) error {
	fail := func(err error) error {
		_ = send(types.ErrorFrame{Type: types.EventError, Message: err.Error()})
		return err
	}

	logs, transcript, err := s.fetchTranscript(ctx, contactID, messageIDs, selected)
	if err != nil {
		return fail(err)
	}

	outcome, err := s.aiClient.AnalyzeStream(ctx, transcript, apiKey, func(ev types.StreamEvent) {
		switch ev.Type {
		case types.EventContentUpdate:
			_ = send(types.ContentUpdateFrame{
				Type:             ev.Type,
				ContentLength:    ev.TotalLength,
				TotalTokens:      ev.TotalTokens,
				CompletionTokens: ev.CompletionTokens,
			})
		case types.EventTokenUpdate:
			_ = send(types.TokenUpdateFrame{
				Type:             ev.Type,
				TotalTokens:      ev.TotalTokens,
				CompletionTokens: ev.CompletionTokens,
			})
		}
	})
	if err != nil {
		return fail(err)
	}

	result, err := s.persist(ctx, contactID, outcome)
	if err != nil {
		return fail(err)
	}

	return send(types.CompleteFrame{
		Type:             types.EventComplete,
		Analysis:         toAnalysisInfo(result),
		MessageCount:     len(logs),
		TotalTokens:      outcome.TotalTokens,
		CompletionTokens: outcome.CompletionTokens,
	})
}

// fetchTranscript 取出待分析的聊天记录并渲染成文本，所有前置校验都在
// 任何网络调用之前完成
func (s *AnalysisService) fetchTranscript(ctx context.Context, contactID uint, messageIDs []uint, selected bool) ([]sqlite.ChatLog, string, error) {
	if selected && len(messageIDs) == 0 {
		return nil, "", ErrNoneSelected
	}

	if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
		return nil, "", ErrContactNotFound
	}

	var (
		logs []sqlite.ChatLog
		err  error
	)
	if selected {
		logs, err = s.chatRepo.ListSelected(ctx, contactID, messageIDs)
	} else {
		logs, err = s.chatRepo.ListByContact(ctx, contactID)
	}
	if err != nil {
		return nil, "", err
	}
	if len(logs) == 0 {
		if selected {
			return nil, "", ErrSelectionNotFound
		}
		return nil, "", ErrNoChatLogs
	}

	transcript := BuildTranscript(logs)
	if selected && utf8.RuneCountInString(transcript) < minTranscriptRunes {
		return nil, "", ErrTranscriptTooShort
	}
	return logs, transcript, nil
}

// persist 归一化后原子落库。覆盖已有行或新建，并同步刷新联系人时间戳
func (s *AnalysisService) persist(ctx context.Context, contactID uint, outcome *types.ModelOutcome) (*sqlite.AnalysisResult, error) {
	parsed := ai.Normalize(outcome)

	result := &sqlite.AnalysisResult{
		ContactID:           contactID,
		CoreTraits:          marshalField(parsed["core_traits"]),
		BehaviorPreferences: marshalField(parsed["behavior_preferences"]),
		SocialInteraction:   marshalField(parsed["social_interaction"]),
		CognitiveThinking:   marshalField(parsed["cognitive_thinking"]),
		Summary:             stringField(parsed["summary"]),
		Interests:           marshalField(parsed["interests"]),
		DosAndDonts:         marshalField(parsed["dos_and_donts"]),
		TopicSuggestions:    marshalField(parsed["topic_suggestions"]),
		GiftSuggestions:     marshalField(parsed["gift_suggestions"]),
		RawResponse:         rawPayload(outcome),
	}
	if err := s.analysisRepo.Upsert(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func marshalField(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// rawPayload 审计用的原始产出：解析成功时存序列化后的对象，失败时存原文
func rawPayload(outcome *types.ModelOutcome) string {
	if outcome == nil {
		return ""
	}
	if outcome.IsParsed() {
		return marshalField(outcome.Parsed)
	}
	return outcome.Raw
}

func toAnalysisInfo(a *sqlite.AnalysisResult) *types.AnalysisInfo {
	return &types.AnalysisInfo{
		ID:                  a.ID,
		ContactID:           a.ContactID,
		CoreTraits:          a.CoreTraits,
		BehaviorPreferences: a.BehaviorPreferences,
		SocialInteraction:   a.SocialInteraction,
		CognitiveThinking:   a.CognitiveThinking,
		Summary:             a.Summary,
		Interests:           a.Interests,
		DosAndDonts:         a.DosAndDonts,
		TopicSuggestions:    a.TopicSuggestions,
		GiftSuggestions:     a.GiftSuggestions,
		CreatedAt:           a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:           a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
