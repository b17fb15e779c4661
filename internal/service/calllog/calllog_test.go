package calllog

import (
	"context"
	"testing"
	"time"

	"crm-service/internal/domain/calllog"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCallLogRepo struct {
	logs map[string]*calllog.CallLog
}

func newStubCallLogRepo() *stubCallLogRepo {
	return &stubCallLogRepo{logs: map[string]*calllog.CallLog{}}
}

func (r *stubCallLogRepo) Create(ctx context.Context, l *calllog.CallLog) error {
	l.CreatedAt = time.Now()
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *stubCallLogRepo) FindByID(ctx context.Context, id string) (*calllog.CallLog, error) {
	if l, ok := r.logs[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, xerrors.ErrNotFound
}

func (r *stubCallLogRepo) List(ctx context.Context) ([]calllog.CallLog, error) {
	out := []calllog.CallLog{}
	for _, l := range r.logs {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubCallLogRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.logs[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.logs, id)
	return nil
}

func newTestService(t *testing.T) (*CallLogService, *stubCallLogRepo) {
	t.Helper()
	repo := newStubCallLogRepo()
	return NewCallLogService(repo, nil, zap.NewNop()), repo
}

var associate = &user.Actor{ID: "01ASSOC", FullName: "Associate", Role: user.RoleAssociate}

func TestCreateCallLog_WithRecording(t *testing.T) {
	svc, _ := newTestService(t)

	started := time.Now().Add(-3 * time.Minute)
	ended := time.Now()
	dur := 180

	l, err := svc.CreateCallLog(context.Background(), associate, &calllog.CreateCallLogRequest{
		ClientID:    "01CLIENT",
		ClientName:  "Jane Doe",
		Phone:       "+100200300",
		StartedAt:   started,
		EndedAt:     &ended,
		DurationSec: &dur,
		Recording:   &calllog.Recording{Mime: "audio/webm", DataBase64: "AAAA"},
	})
	require.NoError(t, err)
	require.Equal(t, "01CLIENT", l.ClientID)
	require.True(t, l.EndedAt.Valid)
	require.Equal(t, int32(180), l.DurationSec.Int32)
	require.Equal(t, "audio/webm", l.RecordingMime.String)
	require.Equal(t, "AAAA", l.RecordingData.String)
	require.Equal(t, "01ASSOC", l.CreatedBy.String)
}

func TestCreateCallLog_WithoutRecording(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.CreateCallLog(context.Background(), associate, &calllog.CreateCallLogRequest{
		ClientID:   "01CLIENT",
		ClientName: "Jane Doe",
		Phone:      "+100200300",
		StartedAt:  time.Now(),
	})
	require.NoError(t, err)
	require.False(t, l.RecordingMime.Valid)
	require.False(t, l.RecordingData.Valid)
}

func TestCreateCallLog_MissingFieldsRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateCallLog(context.Background(), associate, &calllog.CreateCallLogRequest{
		ClientID:  "01CLIENT",
		Phone:     "+100200300",
		StartedAt: time.Now(),
	})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestDeleteCallLog_AnyActor(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	l, err := svc.CreateCallLog(ctx, associate, &calllog.CreateCallLogRequest{
		ClientID:   "01CLIENT",
		ClientName: "Jane Doe",
		Phone:      "+100200300",
		StartedAt:  time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCallLog(ctx, associate, l.ID))
	require.Empty(t, repo.logs)

	require.ErrorIs(t, svc.DeleteCallLog(ctx, associate, l.ID), xerrors.ErrNotFound)
}
