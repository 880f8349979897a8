package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/features/dealership"
	"go-backoffice/internal/features/note"
	"go-backoffice/internal/features/staff"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type StaffFinder interface {
	FindByID(ctx context.Context, id string) (*staff.Staff, error)
}

type DealershipFinder interface {
	FindByID(ctx context.Context, id string) (*dealership.Dealership, error)
}

type LeadService interface {
	CreateLead(ctx context.Context, req CreateLeadRequest, actor models.Actor) (*Lead, error)
	GetLead(ctx context.Context, id string, actor models.Actor) (*Lead, error)
	ListLeads(ctx context.Context, filter Filter, page, limit int64, actor models.Actor) ([]Lead, int64, error)
	AddManualNote(ctx context.Context, leadID, content string, actor models.Actor) error
}

type LeadServiceImpl struct {
	Repo        LeadRepository
	Staff       StaffFinder
	Dealerships DealershipFinder
	Notes       note.NoteService
	Logger      *zap.Logger
	nowFn       func() time.Time
}

func NewLeadService(repo LeadRepository, staffRepo staff.StaffRepository, dealerships dealership.DealershipRepository, notes note.NoteService, logger *zap.Logger) LeadService {
	return &LeadServiceImpl{
		Repo:        repo,
		Staff:       staffRepo,
		Dealerships: dealerships,
		Notes:       notes,
		Logger:      logger,
		nowFn:       time.Now,
	}
}

func (s *LeadServiceImpl) CreateLead(ctx context.Context, req CreateLeadRequest, actor models.Actor) (*Lead, error) {
	const op = "lead.create"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation(op, "name is required")
	}
	if req.Channel == "" {
		req.Channel = ChannelOther
	}
	if !req.Channel.Valid() {
		return nil, errs.Validation(op, "unknown channel %q", req.Channel)
	}
	// Brokers always own what they create
	if req.OwnerID == "" || actor.Role == models.RoleBroker {
		req.OwnerID = actor.ID
	}

	owner, err := s.Staff.FindByID(ctx, req.OwnerID)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return nil, errs.Validation(op, "owner %s does not exist", req.OwnerID)
		}
		return nil, err
	}

	var dealershipName string
	if req.DealershipID != "" {
		d, err := s.Dealerships.FindByID(ctx, req.DealershipID)
		if err != nil {
			if errs.Is(err, errs.KindNotFound) {
				return nil, errs.Validation(op, "dealership %s does not exist", req.DealershipID)
			}
			return nil, err
		}
		dealershipName = d.Name
	}

	now := s.nowFn().UTC()
	l := &Lead{
		ID:             primitive.NewObjectID().Hex(),
		Name:           name,
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		Channel:        req.Channel,
		Stage:          models.StageNuevo,
		OwnerID:        owner.ID,
		OwnerName:      owner.Name,
		DealershipID:   req.DealershipID,
		DealershipName: dealershipName,
		CreatedAt:      now,
		LastActivity:   now,
	}
	if err := s.Repo.Create(ctx, l); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Lead created by %s via %s", actor.DisplayName(), l.Channel)
	if err := s.Notes.Record(ctx, l.ID, content, actor.DisplayName(), note.TypeSystem); err != nil {
		s.Logger.Warn("failed to record lead creation note",
			zap.String("lead_id", l.ID), zap.String("actor_id", actor.ID), zap.Error(err))
	}
	return l, nil
}

func (s *LeadServiceImpl) GetLead(ctx context.Context, id string, actor models.Actor) (*Lead, error) {
	l, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleBroker && l.OwnerID != actor.ID {
		return nil, errs.NotFound("lead.get", "lead %s not found", id)
	}
	return l, nil
}

func (s *LeadServiceImpl) ListLeads(ctx context.Context, filter Filter, page, limit int64, actor models.Actor) ([]Lead, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if actor.Role == models.RoleBroker {
		filter.OwnerID = actor.ID
	}
	if filter.Stage != "" && !filter.Stage.Valid() {
		return nil, 0, errs.Validation("lead.list", "unknown stage %q", filter.Stage)
	}
	return s.Repo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *LeadServiceImpl) AddManualNote(ctx context.Context, leadID, content string, actor models.Actor) error {
	if _, err := s.GetLead(ctx, leadID, actor); err != nil {
		return err
	}
	return s.Notes.Record(ctx, leadID, strings.TrimSpace(content), actor.DisplayName(), note.TypeManual)
}
