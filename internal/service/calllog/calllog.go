package calllog

import (
	"context"
	"database/sql"
	"strings"

	"crm-service/internal/cache"
	"crm-service/internal/domain/calllog"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// CallLogRepository is the persistence surface the recorder needs.
type CallLogRepository interface {
	Create(ctx context.Context, l *calllog.CallLog) error
	FindByID(ctx context.Context, id string) (*calllog.CallLog, error)
	List(ctx context.Context) ([]calllog.CallLog, error)
	Delete(ctx context.Context, id string) error
}

// CallLogService records completed call sessions. Logs are append-only
// facts: created once at the end of a call, deletable, never edited.
type CallLogService struct {
	callLogRepo CallLogRepository
	cache       *cache.Store
	logger      *zap.Logger
}

func NewCallLogService(callLogRepo CallLogRepository, cacheStore *cache.Store, logger *zap.Logger) *CallLogService {
	return &CallLogService{
		callLogRepo: callLogRepo,
		cache:       cacheStore,
		logger:      logger,
	}
}

// CreateCallLog records one completed call.
func (s *CallLogService) CreateCallLog(ctx context.Context, actor *user.Actor, req *calllog.CreateCallLogRequest) (*calllog.CallLog, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	if strings.TrimSpace(req.ClientID) == "" || strings.TrimSpace(req.ClientName) == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, xerrors.Invalid("client id, client name and phone are required")
	}

	l := &calllog.CallLog{
		ID:         ulid.Make().String(),
		ClientID:   req.ClientID,
		ClientName: req.ClientName,
		Phone:      req.Phone,
		StartedAt:  req.StartedAt,
		CreatedBy:  sql.NullString{String: actor.ID, Valid: true},
	}
	if req.EndedAt != nil {
		l.EndedAt = sql.NullTime{Time: *req.EndedAt, Valid: true}
	}
	if req.DurationSec != nil {
		l.DurationSec = sql.NullInt32{Int32: int32(*req.DurationSec), Valid: true}
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) != "" {
		l.Notes = sql.NullString{String: *req.Notes, Valid: true}
	}
	if req.Recording != nil {
		l.RecordingMime = sql.NullString{String: req.Recording.Mime, Valid: true}
		l.RecordingData = sql.NullString{String: req.Recording.DataBase64, Valid: true}
	}

	if err := s.callLogRepo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create call log", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionCallLogs)

	s.logger.Info("call log created", zap.String("call_log_id", l.ID), zap.String("client_id", l.ClientID))
	return l, nil
}

// GetCallLog retrieves one call log by ID.
func (s *CallLogService) GetCallLog(ctx context.Context, id string) (*calllog.CallLog, error) {
	return s.callLogRepo.FindByID(ctx, id)
}

// ListCallLogs retrieves all call logs, newest first.
func (s *CallLogService) ListCallLogs(ctx context.Context) ([]calllog.CallLog, error) {
	logs := []calllog.CallLog{}
	if s.cache.GetList(ctx, cache.CollectionCallLogs, &logs) {
		return logs, nil
	}

	logs, err := s.callLogRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetList(ctx, cache.CollectionCallLogs, logs)
	return logs, nil
}

// DeleteCallLog removes a call log permanently. No capability gate: any
// authenticated actor may delete a log, matching the recorder's contract.
func (s *CallLogService) DeleteCallLog(ctx context.Context, actor *user.Actor, id string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}

	if err := s.callLogRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete call log", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionCallLogs)

	s.logger.Info("call log deleted", zap.String("call_log_id", id), zap.String("by", actor.ID))
	return nil
}
