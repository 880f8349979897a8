package audit

import (
	"context"
	"time"

	"go-backoffice/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditService interface {
	LogChange(ctx context.Context, action Action, module, recordID string, changes map[string]Change, actor models.Actor) error
	ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]AuditLog, error)
}

type AuditServiceImpl struct {
	Repo  AuditRepository
	nowFn func() time.Time
}

func NewAuditService(repo AuditRepository) AuditService {
	return &AuditServiceImpl{
		Repo:  repo,
		nowFn: time.Now,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action Action, module, recordID string, changes map[string]Change, actor models.Actor) error {
	log := AuditLog{
		ID:        primitive.NewObjectID().Hex(),
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   actor.ID,
		ActorName: actor.DisplayName(),
		Changes:   changes,
		Timestamp: s.nowFn().UTC(),
	}
	if log.ActorID == "" {
		system := models.SystemActor()
		log.ActorID, log.ActorName = system.ID, system.Name
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.Repo.List(ctx, filters, limit, offset)
}
