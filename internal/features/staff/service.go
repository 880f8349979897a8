package staff

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

// NameSynchronizer rewrites the staff name together with every denormalized copy of it.
type NameSynchronizer interface {
	PropagateStaffRename(ctx context.Context, staffID, newName string, actor models.Actor) error
}

type StaffService interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest, actor models.Actor) (*Staff, error)
	GetStaff(ctx context.Context, id string) (*Staff, error)
	ListStaff(ctx context.Context, role models.Role) ([]Staff, error)
	RenameStaff(ctx context.Context, id, name string, actor models.Actor) error
}

type StaffServiceImpl struct {
	Repo   StaffRepository
	Names  NameSynchronizer
	Audit  audit.AuditService
	Logger *zap.Logger
	nowFn  func() time.Time
}

func NewStaffService(repo StaffRepository, names NameSynchronizer, auditService audit.AuditService, logger *zap.Logger) StaffService {
	return &StaffServiceImpl{
		Repo:   repo,
		Names:  names,
		Audit:  auditService,
		Logger: logger,
		nowFn:  time.Now,
	}
}

func (s *StaffServiceImpl) CreateStaff(ctx context.Context, req CreateStaffRequest, actor models.Actor) (*Staff, error) {
	if !actor.CanManageStaff() {
		return nil, errs.Validation("staff.create", "actor %s may not manage staff", actor.ID)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("staff.create", "name is required")
	}
	if !req.Role.Valid() {
		return nil, errs.Validation("staff.create", "unknown role %q", req.Role)
	}
	if req.Commission < 0 {
		return nil, errs.Validation("staff.create", "commission must not be negative")
	}
	if req.SupervisorID != "" {
		sup, err := s.Repo.FindByID(ctx, req.SupervisorID)
		if err != nil {
			if errs.Is(err, errs.KindNotFound) {
				return nil, errs.Validation("staff.create", "supervisor %s does not exist", req.SupervisorID)
			}
			return nil, err
		}
		if sup.Role == models.RoleBroker {
			return nil, errs.Validation("staff.create", "supervisor %s is a broker", req.SupervisorID)
		}
	}

	now := s.nowFn()
	member := &Staff{
		ID:           primitive.NewObjectID().Hex(),
		Name:         name,
		Role:         req.Role,
		SupervisorID: req.SupervisorID,
		Commission:   req.Commission,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, member); err != nil {
		return nil, err
	}
	s.audit(ctx, audit.ActionCreate, member.ID, map[string]audit.Change{"staff": {New: member}}, actor)
	return member, nil
}

func (s *StaffServiceImpl) GetStaff(ctx context.Context, id string) (*Staff, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *StaffServiceImpl) ListStaff(ctx context.Context, role models.Role) ([]Staff, error) {
	filter := map[string]interface{}{}
	if role != "" {
		filter["role"] = string(role)
	}
	return s.Repo.List(ctx, filter)
}

// RenameStaff never writes the name directly: lead owner_name caches must change in the same commit.
func (s *StaffServiceImpl) RenameStaff(ctx context.Context, id, name string, actor models.Actor) error {
	if !actor.CanManageStaff() {
		return errs.Validation("staff.rename", "actor %s may not manage staff", actor.ID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Validation("staff.rename", "name is required")
	}
	old, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Names.PropagateStaffRename(ctx, id, name, actor); err != nil {
		return err
	}
	s.audit(ctx, audit.ActionUpdate, id, map[string]audit.Change{"name": {Old: old.Name, New: name}}, actor)
	return nil
}

func (s *StaffServiceImpl) audit(ctx context.Context, action audit.Action, id string, changes map[string]audit.Change, actor models.Actor) {
	if err := s.Audit.LogChange(ctx, action, "staff", id, changes, actor); err != nil {
		s.Logger.Warn("failed to audit staff change", zap.String("staff_id", id), zap.Error(err))
	}
}
