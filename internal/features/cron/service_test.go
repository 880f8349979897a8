package cron_feature

import (
	"context"
	"errors"
	"testing"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/features/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryLogs struct {
	logs []CronJobLog
}

func (m *memoryLogs) CreateLog(ctx context.Context, log *CronJobLog) error {
	log.ID = "log-1"
	return nil
}

func (m *memoryLogs) GetLogs(ctx context.Context, jobName string, limit int) ([]CronJobLog, error) {
	return m.logs, nil
}

func (m *memoryLogs) UpdateLog(ctx context.Context, log *CronJobLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

type nopAudit struct {
	audit.AuditService
	actors []string
}

func (a *nopAudit) LogChange(ctx context.Context, action audit.Action, module, recordID string, changes map[string]audit.Change, actor models.Actor) error {
	a.actors = append(a.actors, actor.ID)
	return nil
}

func TestExecuteJobRecordsOutcome(t *testing.T) {
	logs := &memoryLogs{}
	aud := &nopAudit{}
	svc := NewCronService(logs, aud, zap.NewNop())

	runs := 0
	require.NoError(t, svc.RegisterJob(Job{
		Name:     "stale-candidate-sweep",
		Schedule: "@every 1h",
		Run: func(ctx context.Context) (int, int, error) {
			runs++
			return 4, 2, nil
		},
	}))

	require.NoError(t, svc.ExecuteJob(context.Background(), "stale-candidate-sweep"))
	assert.Equal(t, 1, runs)
	require.Len(t, logs.logs, 1)
	assert.Equal(t, "success", logs.logs[0].Status)
	assert.Equal(t, 4, logs.logs[0].RecordsProcessed)
	assert.Equal(t, 2, logs.logs[0].RecordsAffected)
	assert.Equal(t, []string{"system"}, aud.actors)

	jobs := svc.ListJobs()
	require.Len(t, jobs, 1)
	assert.NotNil(t, jobs[0].LastRun)
}

func TestExecuteJobFailure(t *testing.T) {
	logs := &memoryLogs{}
	svc := NewCronService(logs, &nopAudit{}, zap.NewNop())
	require.NoError(t, svc.RegisterJob(Job{
		Name:     "broken",
		Schedule: "@hourly",
		Run: func(ctx context.Context) (int, int, error) {
			return 0, 0, errors.New("store unavailable")
		},
	}))

	assert.Error(t, svc.ExecuteJob(context.Background(), "broken"))
	assert.Equal(t, "failed", logs.logs[0].Status)
	assert.Equal(t, "store unavailable", logs.logs[0].Error)
}

func TestRegisterJobValidation(t *testing.T) {
	svc := NewCronService(&memoryLogs{}, &nopAudit{}, zap.NewNop())
	run := func(ctx context.Context) (int, int, error) { return 0, 0, nil }

	assert.Error(t, svc.RegisterJob(Job{Name: "x", Schedule: "whenever", Run: run}))
	assert.True(t, errs.Is(svc.RegisterJob(Job{Schedule: "@hourly", Run: run}), errs.KindValidation))

	err := svc.ExecuteJob(context.Background(), "missing")
	assert.True(t, errs.Is(err, errs.KindNotFound))

	require.NoError(t, svc.RegisterJob(Job{Name: "x", Schedule: "@hourly", Run: run}))
	require.NoError(t, svc.UnregisterJob("x"))
	assert.Empty(t, svc.ListJobs())
}

func TestSchedulerStartStop(t *testing.T) {
	svc := NewCronService(&memoryLogs{}, &nopAudit{}, zap.NewNop())
	require.NoError(t, svc.InitializeScheduler(context.Background()))
	require.NoError(t, svc.StopScheduler())
}
