package recruiting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/config"
	"go-backoffice/internal/features/audit"
	"go-backoffice/internal/features/messaging"
	"go-backoffice/internal/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type RecruitingService interface {
	CreateCandidate(ctx context.Context, req CreateCandidateRequest, actor models.Actor) (*Candidate, error)
	GetCandidate(ctx context.Context, id string) (*Candidate, error)
	ListCandidates(ctx context.Context, status Status, page, limit int64) ([]Candidate, error)
	Transition(ctx context.Context, candidateID string, target Status, actor models.Actor) (*TransitionResult, error)
	ListStale(ctx context.Context, now time.Time) ([]Candidate, error)
	SweepStale(ctx context.Context) (processed, moved int, err error)
}

type RecruitingServiceImpl struct {
	Repo    CandidateRepository
	Gateway messaging.Gateway
	Audit   audit.AuditService
	Logger  *zap.Logger
	Keyword string
	nowFn   func() time.Time
}

func NewRecruitingService(repo CandidateRepository, gateway messaging.Gateway, auditService audit.AuditService, cfg *config.Config, logger *zap.Logger) RecruitingService {
	return &RecruitingServiceImpl{
		Repo:    repo,
		Gateway: gateway,
		Audit:   auditService,
		Logger:  logger,
		Keyword: cfg.ConfirmationKeyword,
		nowFn:   time.Now,
	}
}

func (s *RecruitingServiceImpl) CreateCandidate(ctx context.Context, req CreateCandidateRequest, actor models.Actor) (*Candidate, error) {
	const op = "recruiting.create"

	if !actor.CanManageRecruiting() {
		return nil, errs.Validation(op, "actor %s may not manage recruiting", actor.ID)
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, errs.Validation(op, "full name is required")
	}
	phone := normalizePhone(req.WhatsAppNumber)
	if len(phone) < 8 {
		return nil, errs.Validation(op, "whatsapp number %q is not valid", req.WhatsAppNumber)
	}
	if req.Score < 0 || req.Score > 100 {
		return nil, errs.Validation(op, "score must be between 0 and 100")
	}

	now := s.nowFn().UTC()
	c := &Candidate{
		ID:                   primitive.NewObjectID().Hex(),
		FullName:             name,
		WhatsAppNumber:       phone,
		PipelineStatus:       StatusNewApplicant,
		LastStatusChangeDate: now,
		Score:                req.Score,
		CreatedAt:            now,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := s.Audit.LogChange(ctx, audit.ActionCreate, "candidates", c.ID, map[string]audit.Change{
		"candidate": {New: c},
	}, actor); err != nil {
		s.Logger.Warn("failed to audit candidate creation", zap.String("candidate_id", c.ID), zap.Error(err))
	}
	return c, nil
}

// normalizePhone keeps digits only.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *RecruitingServiceImpl) GetCandidate(ctx context.Context, id string) (*Candidate, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *RecruitingServiceImpl) ListCandidates(ctx context.Context, status Status, page, limit int64) ([]Candidate, error) {
	if status != "" && !status.Valid() {
		return nil, errs.Validation("recruiting.list", "unknown status %q", status)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.Repo.List(ctx, status, limit, (page-1)*limit)
}

func (s *RecruitingServiceImpl) Transition(ctx context.Context, candidateID string, target Status, actor models.Actor) (*TransitionResult, error) {
	const op = "recruiting.transition"

	if !actor.CanManageRecruiting() {
		return nil, errs.Validation(op, "actor %s may not manage recruiting", actor.ID)
	}
	if !target.Valid() {
		return nil, errs.Validation(op, "unknown status %q", target)
	}

	c, err := s.Repo.FindByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	from := c.PipelineStatus
	if !CanTransition(from, target) {
		metrics.RecordTransition(string(target), false)
		return nil, errs.IllegalTransition(op, "%s -> %s is not allowed", from, target)
	}

	now := s.nowFn().UTC()
	if err := s.Repo.UpdateStatus(ctx, candidateID, from, target, now); err != nil {
		metrics.RecordTransition(string(target), false)
		if errors.Is(err, ErrStatusChanged) {
			return nil, errs.IllegalTransition(op, "candidate %s is no longer %s", candidateID, from)
		}
		return nil, err
	}
	metrics.RecordTransition(string(target), true)

	c.PipelineStatus = target
	c.LastStatusChangeDate = now
	res := &TransitionResult{Candidate: *c, From: from, To: target}

	if err := s.runEntryAction(ctx, *c); err != nil {
		metrics.RecordSideEffectFailure("messaging")
		s.Logger.Warn("entry action failed",
			zap.String("candidate_id", c.ID), zap.String("status", string(target)),
			zap.String("actor_id", actor.ID), zap.Error(err))
		res.Warnings = append(res.Warnings, errs.SideEffectFailed(op, "message to candidate not sent", err))
	}

	if err := s.Audit.LogChange(ctx, audit.ActionTransition, "candidates", c.ID, map[string]audit.Change{
		"pipeline_status": {Old: from, New: target},
	}, actor); err != nil {
		metrics.RecordSideEffectFailure("audit")
		s.Logger.Warn("failed to audit transition", zap.String("candidate_id", c.ID), zap.Error(err))
		res.Warnings = append(res.Warnings, errs.SideEffectFailed(op, "audit entry not written", err))
	}

	return res, nil
}

func (s *RecruitingServiceImpl) runEntryAction(ctx context.Context, c Candidate) error {
	text, ok, err := entryMessage(c.PipelineStatus, c, s.Keyword)
	if !ok {
		return nil
	}
	if err != nil {
		return fmt.Errorf("render %s message: %w", c.PipelineStatus, err)
	}

	res, err := s.Gateway.Send(ctx, c.WhatsAppNumber, text)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("gateway refused message: %s", res.Message)
	}
	return nil
}

func (s *RecruitingServiceImpl) ListStale(ctx context.Context, now time.Time) ([]Candidate, error) {
	candidates, err := s.Repo.ListStale(ctx, now.Add(-StaleAfter))
	if err != nil {
		return nil, err
	}
	stale := candidates[:0]
	for _, c := range candidates {
		if IsStale(c, now) {
			stale = append(stale, c)
		}
	}
	return stale, nil
}

// SweepStale moves every stale candidate to Inactive as the system actor.
func (s *RecruitingServiceImpl) SweepStale(ctx context.Context) (int, int, error) {
	stale, err := s.ListStale(ctx, s.nowFn().UTC())
	if err != nil {
		return 0, 0, err
	}

	moved := 0
	for _, c := range stale {
		if _, err := s.Transition(ctx, c.ID, StatusInactive, models.SystemActor()); err != nil {
			s.Logger.Warn("stale sweep skipped candidate", zap.String("candidate_id", c.ID), zap.Error(err))
			continue
		}
		moved++
	}
	return len(stale), moved, nil
}
