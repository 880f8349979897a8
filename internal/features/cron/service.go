package cron_feature

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/features/audit"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type CronService interface {
	RegisterJob(job Job) error
	UnregisterJob(name string) error
	ListJobs() []JobInfo
	ExecuteJob(ctx context.Context, name string) error
	GetJobLogs(ctx context.Context, name string, limit int) ([]CronJobLog, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type registered struct {
	job     Job
	entryID cron.EntryID
	lastRun *time.Time
}

type CronServiceImpl struct {
	repo         CronRepository
	auditService audit.AuditService
	logger       *zap.Logger

	scheduler *cron.Cron
	jobs      map[string]*registered
	mu        sync.RWMutex
}

func NewCronService(repo CronRepository, auditService audit.AuditService, logger *zap.Logger) CronService {
	return &CronServiceImpl{
		repo:         repo,
		auditService: auditService,
		logger:       logger,
		scheduler:    cron.New(),
		jobs:         make(map[string]*registered),
	}
}

// RegisterHooks starts the scheduler with the app and drains it on shutdown.
func RegisterHooks(lc fx.Lifecycle, svc CronService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.InitializeScheduler(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return svc.StopScheduler()
		},
	})
}

func (s *CronServiceImpl) RegisterJob(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errs.Validation("cron.register", "job needs a name and a run function")
	}
	if _, err := cron.ParseStandard(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.jobs[job.Name]; exists {
		s.scheduler.Remove(old.entryID)
	}

	name := job.Name
	entryID, err := s.scheduler.AddFunc(job.Schedule, func() {
		if err := s.ExecuteJob(context.Background(), name); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job to scheduler: %w", err)
	}

	s.jobs[job.Name] = &registered{job: job, entryID: entryID}
	s.logger.Info("cron job registered", zap.String("job", job.Name), zap.String("schedule", job.Schedule))
	return nil
}

func (s *CronServiceImpl) UnregisterJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, exists := s.jobs[name]; exists {
		s.scheduler.Remove(r.entryID)
		delete(s.jobs, name)
	}
	return nil
}

func (s *CronServiceImpl) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, r := range s.jobs {
		info := JobInfo{Name: r.job.Name, Schedule: r.job.Schedule, LastRun: r.lastRun}
		if next := s.scheduler.Entry(r.entryID).Next; !next.IsZero() {
			info.NextRun = &next
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (s *CronServiceImpl) ExecuteJob(ctx context.Context, name string) error {
	s.mu.RLock()
	r, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return errs.NotFound("cron.execute", "cron job %s not found", name)
	}

	startTime := time.Now()
	logEntry := &CronJobLog{
		JobName:   name,
		StartTime: startTime,
		Status:    "running",
	}
	if err := s.repo.CreateLog(ctx, logEntry); err != nil {
		s.logger.Warn("failed to create cron log entry", zap.String("job", name), zap.Error(err))
	}

	processed, affected, execError := r.job.Run(ctx)

	endTime := time.Now()
	logEntry.EndTime = &endTime
	logEntry.RecordsProcessed = processed
	logEntry.RecordsAffected = affected
	if execError != nil {
		logEntry.Status = "failed"
		logEntry.Error = execError.Error()
	} else {
		logEntry.Status = "success"
	}
	if err := s.repo.UpdateLog(ctx, logEntry); err != nil {
		s.logger.Warn("failed to update cron log entry", zap.String("job", name), zap.Error(err))
	}

	if err := s.auditService.LogChange(ctx, audit.ActionCron, "cron", name, map[string]audit.Change{
		"status":   {New: logEntry.Status},
		"affected": {New: affected},
		"error":    {New: logEntry.Error},
	}, models.SystemActor()); err != nil {
		s.logger.Warn("failed to audit cron run", zap.String("job", name), zap.Error(err))
	}

	s.mu.Lock()
	r.lastRun = &startTime
	s.mu.Unlock()

	s.logger.Info("cron job finished",
		zap.String("job", name), zap.String("status", logEntry.Status),
		zap.Int("processed", processed), zap.Int("affected", affected))
	return execError
}

func (s *CronServiceImpl) GetJobLogs(ctx context.Context, name string, limit int) ([]CronJobLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetLogs(ctx, name, limit)
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.logger.Info("starting cron scheduler", zap.Int("jobs", len(s.ListJobs())))
	s.scheduler.Start()
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
	return nil
}
