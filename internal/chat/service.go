package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/channel"
	"github.com/Sanjaykumaar123/sentinelnet/internal/metrics"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
	"github.com/Sanjaykumaar123/sentinelnet/internal/telemetry"
)

// Repository 는 메시징에 필요한 저장소다.
type Repository interface {
	CreateMessage(ctx context.Context, msg *store.Message) error
	MessageByID(ctx context.Context, id uint) (*store.Message, error)
	ChannelMessages(ctx context.Context, channelID string, now time.Time, limit int) ([]store.Message, error)
	DirectChannelsFor(ctx context.Context, userID uint) ([]string, error)
	UserByID(ctx context.Context, id uint) (*store.User, error)
	UserByEmail(ctx context.Context, email string) (*store.User, error)
	UsersByIDs(ctx context.Context, ids []uint) (map[uint]store.User, error)
}

// Analyzer 는 메시지 위험 분석기다.
type Analyzer interface {
	Scan(text string) scanner.Result
}

// Service 는 메시지 전송/조회와 1:1 대화를 담당한다.
type Service struct {
	repo     Repository
	analyzer Analyzer
	metrics  *metrics.Store
	logger   *slog.Logger
	now      func() time.Time
}

// NewService 는 메시징 서비스를 생성한다.
func NewService(repo Repository, analyzer Analyzer, metricsStore *metrics.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		analyzer: analyzer,
		metrics:  metricsStore,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze 는 저장 없이 분석만 한다.
func (s *Service) Analyze(text string) scanner.Result {
	start := time.Now()
	result := s.analyzer.Scan(text)
	s.metrics.RecordScan(result, time.Since(start))
	return result
}

// Send 는 메시지를 분석하고 결과와 함께 저장한다.
// 차단된 메시지도 저장되며 목록에서 blocked 상태로 표시된다.
func (s *Service) Send(ctx context.Context, sender *store.User, req SendRequest) (*SendResponse, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "chat.send")
	defer span.End()

	if !auth.CanSendMessage(auth.Role(sender.Role)) {
		return nil, ErrSendForbidden
	}

	if req.TTLSeconds != nil && *req.TTLSeconds > MaxTTLSeconds {
		return nil, ErrTTLOutOfRange
	}

	if req.ReplyToID != nil {
		if _, err := s.repo.MessageByID(ctx, *req.ReplyToID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrReplyNotFound
			}
			return nil, fmt.Errorf("load reply target: %w", err)
		}
	}

	result := s.Analyze(req.Lines)
	now := s.now().UTC()
	channelID := channel.Normalize(req.ChannelID)

	score := result.AIScore
	msg := &store.Message{
		SenderID:         sender.ID,
		ContentEncrypted: req.Lines,
		Timestamp:        now,
		AIScore:          &score,
		OpsecRisk:        string(result.OpsecRisk),
		PhishingRisk:     string(result.PhishingRisk),
		VulgarRisk:       string(result.VulgarRisk),
		IsBlocked:        result.Blocked(),
		FileURL:          req.FileURL,
		FileType:         req.FileType,
		FileSize:         req.FileSize,
		IntegrityHash:    req.IntegrityHash,
		ChannelID:        channelID,
		ReplyToID:        req.ReplyToID,
		SenderIP:         req.SenderIP,
	}
	if receiver, ok := channel.Counterpart(channelID, sender.ID); ok {
		msg.ReceiverID = &receiver
	}
	if req.TTLSeconds != nil && *req.TTLSeconds > 0 {
		expiration := now.Add(time.Duration(*req.TTLSeconds) * time.Second)
		msg.Expiration = &expiration
	}

	span.SetAttributes(
		attribute.String("sentinel.channel_id", channelID),
		attribute.String("sentinel.opsec_risk", string(result.OpsecRisk)),
		attribute.String("sentinel.phishing_risk", string(result.PhishingRisk)),
		attribute.String("sentinel.vulgar_risk", string(result.VulgarRisk)),
		attribute.Bool("sentinel.blocked", msg.IsBlocked),
	)
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist message")
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.logger.Info("message_scanned",
		"message_id", msg.ID,
		"channel_id", channelID,
		"opsec_risk", result.OpsecRisk,
		"phishing_risk", result.PhishingRisk,
		"vulgar_risk", result.VulgarRisk,
		"blocked", msg.IsBlocked,
	)

	return &SendResponse{
		MessageID:    msg.ID,
		AIScore:      result.AIScore,
		OpsecRisk:    string(result.OpsecRisk),
		PhishingRisk: string(result.PhishingRisk),
		VulgarRisk:   string(result.VulgarRisk),
		IsBlocked:    msg.IsBlocked,
		Explanation:  result.Explanation,
	}, nil
}

// StartDM 은 상대를 찾아 1:1 채널 ID 를 돌려준다.
// 숫자 식별자는 ID 로 먼저 찾고, 없으면 이메일로 찾는다.
func (s *Service) StartDM(ctx context.Context, me *store.User, identifier string) (*DMResponse, error) {
	identifier = strings.TrimSpace(identifier)
	target, err := s.findUser(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if target.ID == me.ID {
		return nil, ErrSelfDM
	}
	return &DMResponse{
		ChannelID: channel.DirectID(me.ID, target.ID),
		TargetUser: TargetUser{
			ID:       target.ID,
			FullName: target.FullName,
			Email:    target.Email,
		},
	}, nil
}

func (s *Service) findUser(ctx context.Context, identifier string) (*store.User, error) {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		user, err := s.repo.UserByID(ctx, uint(id))
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("find user by id: %w", err)
		}
	}

	user, err := s.repo.UserByEmail(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// ListDMs 는 사용자가 보냈거나 받은 1:1 대화 목록을 반환한다. 상대가 없는 채널은 빠진다.
func (s *Service) ListDMs(ctx context.Context, me *store.User) ([]DMEntry, error) {
	channelIDs, err := s.repo.DirectChannelsFor(ctx, me.ID)
	if err != nil {
		return nil, err
	}

	others := make(map[string]uint, len(channelIDs))
	ids := make([]uint, 0, len(channelIDs))
	for _, id := range channelIDs {
		other, ok := channel.Counterpart(id, me.ID)
		if !ok {
			continue
		}
		others[id] = other
		ids = append(ids, other)
	}

	users, err := s.repo.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]DMEntry, 0, len(others))
	for _, id := range channelIDs {
		otherID, ok := others[id]
		if !ok {
			continue
		}
		other, ok := users[otherID]
		if !ok {
			continue
		}
		entries = append(entries, DMEntry{ID: id, Name: other.DisplayName(), Status: DirectStatus})
	}
	return entries, nil
}

// ListMessages 는 만료되지 않은 채널 메시지를 오래된 순으로 반환한다.
func (s *Service) ListMessages(ctx context.Context, me *store.User, channelID string, limit int) ([]MessageView, error) {
	messages, err := s.repo.ChannelMessages(ctx, channel.Normalize(channelID), s.now().UTC(), ClampLimit(limit))
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, toView(msg, me.ID))
	}
	return views, nil
}

// ClampLimit 는 목록 건수를 기본값/상한 안으로 맞춘다.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

func toView(msg store.Message, viewerID uint) MessageView {
	status := StatusSent
	if msg.IsBlocked {
		status = StatusBlocked
	}

	view := MessageView{
		ID:            msg.ID,
		Text:          msg.ContentEncrypted,
		Sender:        senderLabel(msg.SenderID, viewerID),
		Timestamp:     msg.Timestamp,
		Status:        status,
		Risk:          storedRisk(msg),
		FileURL:       msg.FileURL,
		FileType:      msg.FileType,
		FileSize:      msg.FileSize,
		IntegrityHash: msg.IntegrityHash,
	}
	if msg.ReplyTo != nil {
		view.ReplyTo = &ReplyView{
			ID:     msg.ReplyTo.ID,
			Text:   msg.ReplyTo.ContentEncrypted,
			Sender: senderLabel(msg.ReplyTo.SenderID, viewerID),
		}
	}
	return view
}

func senderLabel(senderID uint, viewerID uint) string {
	if senderID == viewerID {
		return SenderMe
	}
	return SenderThem
}

func storedRisk(msg store.Message) Risk {
	risk := Risk{
		OpsecRisk:    orDefault(msg.OpsecRisk, string(scanner.OpsecSafe)),
		PhishingRisk: orDefault(msg.PhishingRisk, string(scanner.PhishingLow)),
		VulgarRisk:   orDefault(msg.VulgarRisk, string(scanner.VulgarClean)),
		Explanation:  storedExplanation,
	}
	if msg.AIScore != nil {
		risk.AIScore = *msg.AIScore
	}
	return risk
}

func orDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}
