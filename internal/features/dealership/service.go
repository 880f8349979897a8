package dealership

import (
	"context"
	"strings"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NameSynchronizer rewrites a dealership name together with the lead caches.
type NameSynchronizer interface {
	PropagateDealershipRename(ctx context.Context, dealershipID, newName string, actor models.Actor) error
}

type DealershipService interface {
	CreateDealership(ctx context.Context, name string, actor models.Actor) (*Dealership, error)
	GetDealership(ctx context.Context, id string) (*Dealership, error)
	ListDealerships(ctx context.Context) ([]Dealership, error)
	RenameDealership(ctx context.Context, id, name string, actor models.Actor) error
}

type DealershipServiceImpl struct {
	Repo   DealershipRepository
	Names  NameSynchronizer
	Audit  audit.AuditService
	Logger *zap.Logger
}

func NewDealershipService(repo DealershipRepository, names NameSynchronizer, auditService audit.AuditService, logger *zap.Logger) DealershipService {
	return &DealershipServiceImpl{Repo: repo, Names: names, Audit: auditService, Logger: logger}
}

func (s *DealershipServiceImpl) CreateDealership(ctx context.Context, name string, actor models.Actor) (*Dealership, error) {
	if !actor.CanManageStaff() {
		return nil, errs.Validation("dealership.create", "actor %s may not manage dealerships", actor.ID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("dealership.create", "name is required")
	}
	now := time.Now()
	d := &Dealership{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, err
	}
	if err := s.Audit.LogChange(ctx, audit.ActionCreate, "dealerships", d.ID, map[string]audit.Change{"dealership": {New: d}}, actor); err != nil {
		s.Logger.Warn("failed to audit dealership creation", zap.String("dealership_id", d.ID), zap.Error(err))
	}
	return d, nil
}

func (s *DealershipServiceImpl) GetDealership(ctx context.Context, id string) (*Dealership, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *DealershipServiceImpl) ListDealerships(ctx context.Context) ([]Dealership, error) {
	return s.Repo.List(ctx)
}

func (s *DealershipServiceImpl) RenameDealership(ctx context.Context, id, name string, actor models.Actor) error {
	if !actor.CanManageStaff() {
		return errs.Validation("dealership.rename", "actor %s may not manage dealerships", actor.ID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Validation("dealership.rename", "name is required")
	}
	old, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Names.PropagateDealershipRename(ctx, id, name, actor); err != nil {
		return err
	}
	if err := s.Audit.LogChange(ctx, audit.ActionUpdate, "dealerships", id, map[string]audit.Change{"name": {Old: old.Name, New: name}}, actor); err != nil {
		s.Logger.Warn("failed to audit dealership rename", zap.String("dealership_id", id), zap.Error(err))
	}
	return nil
}
