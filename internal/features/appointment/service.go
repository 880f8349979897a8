package appointment

import (
	"context"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/features/lead"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeadFinder interface {
	FindByID(ctx context.Context, id string) (*lead.Lead, error)
}

type AppointmentService interface {
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest, actor models.Actor) (*Appointment, error)
	GetAppointment(ctx context.Context, id string) (*Appointment, error)
	ListForOwner(ctx context.Context, ownerID string, from, to time.Time, actor models.Actor) ([]Appointment, error)
	DeleteAppointment(ctx context.Context, id string, actor models.Actor) error
}

type AppointmentServiceImpl struct {
	Repo  AppointmentRepository
	Leads LeadFinder
	nowFn func() time.Time
}

func NewAppointmentService(repo AppointmentRepository, leads lead.LeadRepository) AppointmentService {
	return &AppointmentServiceImpl{Repo: repo, Leads: leads, nowFn: time.Now}
}

// CreateAppointment snapshots the lead's owner, stage and name at creation time.
func (s *AppointmentServiceImpl) CreateAppointment(ctx context.Context, req CreateAppointmentRequest, actor models.Actor) (*Appointment, error) {
	const op = "appointment.create"

	if req.LeadID == "" {
		return nil, errs.Validation(op, "lead id is required")
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errs.Validation(op, "start and end time are required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, errs.Validation(op, "end time must be after start time")
	}

	l, err := s.Leads.FindByID(ctx, req.LeadID)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return nil, errs.Validation(op, "lead %s does not exist", req.LeadID)
		}
		return nil, err
	}
	if actor.Role == models.RoleBroker && l.OwnerID != actor.ID {
		return nil, errs.Validation(op, "broker %s does not own lead %s", actor.ID, l.ID)
	}

	a := &Appointment{
		ID:        primitive.NewObjectID().Hex(),
		LeadID:    l.ID,
		LeadName:  l.Name,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		OwnerID:   l.OwnerID,
		Stage:     l.Stage,
		CreatedAt: s.nowFn().UTC(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentServiceImpl) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *AppointmentServiceImpl) ListForOwner(ctx context.Context, ownerID string, from, to time.Time, actor models.Actor) ([]Appointment, error) {
	if actor.Role == models.RoleBroker {
		ownerID = actor.ID
	}
	if ownerID == "" {
		return nil, errs.Validation("appointment.list", "owner id is required")
	}
	if !to.After(from) {
		return nil, errs.Validation("appointment.list", "empty interval")
	}
	return s.Repo.ListByOwner(ctx, ownerID, from, to)
}

func (s *AppointmentServiceImpl) DeleteAppointment(ctx context.Context, id string, actor models.Actor) error {
	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanDelete() && a.OwnerID != actor.ID {
		return errs.Validation("appointment.delete", "actor %s may not delete appointment %s", actor.ID, id)
	}
	return s.Repo.Delete(ctx, id)
}
