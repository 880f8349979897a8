package cascade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/database"
	"go-backoffice/internal/features/appointment"
	"go-backoffice/internal/features/dealership"
	"go-backoffice/internal/features/lead"
	"go-backoffice/internal/features/note"
	"go-backoffice/internal/features/notification"
	"go-backoffice/internal/features/staff"
	"go-backoffice/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is the part of the notification feature the cascade needs.
type Notifier interface {
	Notify(ctx context.Context, userID string, subject notification.LeadRef, message, authorName, eventID string) error
}

// CascadeService is the only writer of lead fields that are copied elsewhere.
type CascadeService interface {
	ApplyLeadMutation(ctx context.Context, leadID string, patch lead.Patch, actor models.Actor) (*Result, error)
	LinkVehicle(ctx context.Context, leadID, vehicleID string, actor models.Actor) (*Result, error)
	DeleteLead(ctx context.Context, leadID string, actor models.Actor) (*Result, error)
	PropagateStaffRename(ctx context.Context, staffID, newName string, actor models.Actor) error
	PropagateDealershipRename(ctx context.Context, dealershipID, newName string, actor models.Actor) error
}

type CascadeServiceImpl struct {
	Leads        lead.LeadRepository
	Appointments appointment.AppointmentRepository
	Staff        staff.StaffRepository
	Dealerships  dealership.DealershipRepository
	Committer    Committer
	Tx           database.Transactor
	Notes        note.NoteService
	Notifier     Notifier
	Logger       *zap.Logger
	nowFn        func() time.Time
	eventIDFn    func() string
}

func NewCascadeService(
	leads lead.LeadRepository,
	appointments appointment.AppointmentRepository,
	staffRepo staff.StaffRepository,
	dealerships dealership.DealershipRepository,
	committer Committer,
	tx database.Transactor,
	notes note.NoteService,
	notifier notification.NotificationService,
	logger *zap.Logger,
) CascadeService {
	return &CascadeServiceImpl{
		Leads:        leads,
		Appointments: appointments,
		Staff:        staffRepo,
		Dealerships:  dealerships,
		Committer:    committer,
		Tx:           tx,
		Notes:        notes,
		Notifier:     notifier,
		Logger:       logger,
		nowFn:        time.Now,
		eventIDFn:    uuid.NewString,
	}
}

// loadFor fetches the lead; brokers only see their own.
func (s *CascadeServiceImpl) loadFor(ctx context.Context, op, leadID string, actor models.Actor) (*lead.Lead, error) {
	l, err := s.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleBroker && l.OwnerID != actor.ID {
		return nil, errs.NotFound(op, "lead %s not found", leadID)
	}
	return l, nil
}

// resolve validates the referenced ids. Name caches always come from the referenced records.
func (s *CascadeServiceImpl) resolve(ctx context.Context, op string, p lead.Patch) (lead.Patch, error) {
	if p.Stage != nil && !p.Stage.Valid() {
		return p, errs.Validation(op, "unknown stage %q", *p.Stage)
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return p, errs.Validation(op, "name must not be empty")
		}
		p.Name = &name
	}
	if p.OwnerID != nil {
		owner, err := s.Staff.FindByID(ctx, *p.OwnerID)
		if err != nil {
			if errs.Is(err, errs.KindNotFound) {
				return p, errs.Validation(op, "owner %s does not exist", *p.OwnerID)
			}
			return p, err
		}
		if p.OwnerName != nil && *p.OwnerName != owner.Name {
			return p, errs.Validation(op, "owner name %q does not match staff %s", *p.OwnerName, owner.ID)
		}
		p.OwnerName = &owner.Name
	} else if p.OwnerName != nil {
		return p, errs.Validation(op, "owner name follows the staff record and cannot be set without owner id")
	}
	if p.DealershipID != nil {
		d, err := s.Dealerships.FindByID(ctx, *p.DealershipID)
		if err != nil {
			if errs.Is(err, errs.KindNotFound) {
				return p, errs.Validation(op, "dealership %s does not exist", *p.DealershipID)
			}
			return p, err
		}
		if p.DealershipName != nil && *p.DealershipName != d.Name {
			return p, errs.Validation(op, "dealership name %q does not match dealership %s", *p.DealershipName, d.ID)
		}
		p.DealershipName = &d.Name
	} else if p.DealershipName != nil {
		return p, errs.Validation(op, "dealership name follows the dealership record and cannot be set without dealership id")
	}
	return p, nil
}

func (s *CascadeServiceImpl) ApplyLeadMutation(ctx context.Context, leadID string, patch lead.Patch, actor models.Actor) (*Result, error) {
	const op = "cascade.apply"

	if patch.IsEmpty() {
		return nil, errs.Validation(op, "patch must change at least one field")
	}
	if patch.Stage != nil && !actor.CanTransitionTo(*patch.Stage) {
		return nil, errs.Validation(op, "actor %s may not move a lead to %s", actor.ID, *patch.Stage)
	}
	patch, err := s.resolve(ctx, op, patch)
	if err != nil {
		return nil, err
	}

	before, err := s.loadFor(ctx, op, leadID, actor)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().UTC()
	if patch.Stage != nil && *patch.Stage == models.StageGanado && before.Stage != models.StageGanado {
		patch.WonAt = &now
	}
	open, err := s.Appointments.FindOpenByLead(ctx, leadID, now)
	if err != nil {
		return nil, err
	}

	batch := Batch{
		LeadID: leadID,
		Patch:  patch,
		At:     now,
		Mirror: appointment.Mirror{OwnerID: patch.OwnerID, Stage: patch.Stage, LeadName: patch.Name},
	}
	for _, a := range open {
		batch.AppointmentIDs = append(batch.AppointmentIDs, a.ID)
	}
	if batch.Mirror.IsEmpty() {
		batch.AppointmentIDs = nil
	}

	if err := s.Committer.Commit(ctx, batch); err != nil {
		metrics.RecordCascadeCommit(false, 0)
		s.Logger.Error("lead cascade rejected",
			zap.String("lead_id", leadID), zap.String("actor_id", actor.ID), zap.Error(err))
		return nil, errs.CommitFailed(op, err)
	}
	metrics.RecordCascadeCommit(true, len(batch.AppointmentIDs))

	after := before.Apply(patch, now)
	res := &Result{Lead: after, Appointments: len(batch.AppointmentIDs)}

	content, noteType := describe(*before, after, actor)
	if err := s.Notes.Record(ctx, leadID, content, actor.DisplayName(), noteType); err != nil {
		res.Warnings = append(res.Warnings, s.sideEffect(op, "audit note not written", "note", leadID, actor, err))
	}

	if after.OwnerID != before.OwnerID {
		eventID := s.eventIDFn()
		message := fmt.Sprintf("Lead '%s' reassigned from %s to %s by %s",
			after.Name, before.OwnerName, after.OwnerName, actor.DisplayName())
		subject := notification.LeadRef{ID: after.ID, Name: after.Name}
		for _, userID := range notification.Recipients(after.OwnerID, before.OwnerID, actor.ID) {
			if err := s.Notifier.Notify(ctx, userID, subject, message, actor.DisplayName(), eventID); err != nil {
				res.Warnings = append(res.Warnings, s.sideEffect(op, "notification to "+userID+" not delivered", "notification", leadID, actor, err))
			}
		}
	}

	return res, nil
}

func (s *CascadeServiceImpl) sideEffect(op, message, kind, leadID string, actor models.Actor, err error) error {
	metrics.RecordSideEffectFailure(kind)
	s.Logger.Warn(message,
		zap.String("lead_id", leadID), zap.String("actor_id", actor.ID), zap.Error(err))
	return errs.SideEffectFailed(op, message, err)
}

// describe renders the change as one sentence and picks the most specific note type.
func describe(before, after lead.Lead, actor models.Actor) (string, note.Type) {
	var parts []string
	noteType := note.TypeSystem

	if before.Stage != after.Stage {
		parts = append(parts, fmt.Sprintf("stage changed from '%s' to '%s'", before.Stage, after.Stage))
	}
	if before.OwnerID != after.OwnerID {
		parts = append(parts, fmt.Sprintf("owner changed from '%s' to '%s'", before.OwnerName, after.OwnerName))
	}
	if before.DealershipID != after.DealershipID {
		parts = append(parts, fmt.Sprintf("dealership changed from '%s' to '%s'", before.DealershipName, after.DealershipName))
	}
	if before.Name != after.Name {
		parts = append(parts, fmt.Sprintf("name changed from '%s' to '%s'", before.Name, after.Name))
	}

	switch {
	case before.OwnerID != after.OwnerID:
		noteType = note.TypeOwnerChange
	case before.Stage != after.Stage:
		noteType = note.TypeStageChange
	case before.DealershipID != after.DealershipID:
		noteType = note.TypeDealershipChange
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Lead updated by %s", actor.DisplayName()), noteType
	}
	return fmt.Sprintf("%s by %s", capitalize(joinList(parts)), actor.DisplayName()), noteType
}

func joinList(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *CascadeServiceImpl) LinkVehicle(ctx context.Context, leadID, vehicleID string, actor models.Actor) (*Result, error) {
	const op = "cascade.link_vehicle"

	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, errs.Validation(op, "vehicle id is required")
	}
	l, err := s.loadFor(ctx, op, leadID, actor)
	if err != nil {
		return nil, err
	}

	now := s.nowFn().UTC()
	if err := s.Leads.SetInterestedVehicle(ctx, leadID, vehicleID, now); err != nil {
		return nil, errs.CommitFailed(op, err)
	}

	l.InterestedVehicleID = &vehicleID
	l.LastActivity = now
	res := &Result{Lead: *l}

	content := fmt.Sprintf("Vehicle %s linked by %s", vehicleID, actor.DisplayName())
	if err := s.Notes.Record(ctx, leadID, content, actor.DisplayName(), note.TypeVehicleLink); err != nil {
		res.Warnings = append(res.Warnings, s.sideEffect(op, "audit note not written", "note", leadID, actor, err))
	}
	return res, nil
}

// DeleteLead removes the lead and all its appointments together. Notes stay behind.
func (s *CascadeServiceImpl) DeleteLead(ctx context.Context, leadID string, actor models.Actor) (*Result, error) {
	const op = "cascade.delete"

	if !actor.CanDelete() {
		return nil, errs.Validation(op, "actor %s may not delete leads", actor.ID)
	}
	l, err := s.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	var removed int64
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.Appointments.DeleteByLead(ctx, leadID)
		if err != nil {
			return err
		}
		removed = n
		return s.Leads.Delete(ctx, leadID)
	})
	if err != nil {
		metrics.RecordCascadeCommit(false, 0)
		return nil, errs.CommitFailed(op, err)
	}
	metrics.RecordCascadeCommit(true, int(removed))

	res := &Result{Lead: *l, Appointments: int(removed)}
	content := fmt.Sprintf("Lead '%s' deleted by %s", l.Name, actor.DisplayName())
	if err := s.Notes.Record(ctx, leadID, content, actor.DisplayName(), note.TypeSystem); err != nil {
		res.Warnings = append(res.Warnings, s.sideEffect(op, "audit note not written", "note", leadID, actor, err))
	}
	return res, nil
}

func (s *CascadeServiceImpl) PropagateStaffRename(ctx context.Context, staffID, newName string, actor models.Actor) error {
	const op = "cascade.rename_staff"

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errs.Validation(op, "name is required")
	}

	var leads int64
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Staff.SetName(ctx, staffID, newName); err != nil {
			return err
		}
		n, err := s.Leads.SetOwnerNameFor(ctx, staffID, newName)
		leads = n
		return err
	})
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return err
		}
		return errs.CommitFailed(op, err)
	}

	s.Logger.Info("staff renamed",
		zap.String("staff_id", staffID), zap.String("actor_id", actor.ID), zap.Int64("leads", leads))
	return nil
}

func (s *CascadeServiceImpl) PropagateDealershipRename(ctx context.Context, dealershipID, newName string, actor models.Actor) error {
	const op = "cascade.rename_dealership"

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errs.Validation(op, "name is required")
	}

	var leads int64
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Dealerships.SetName(ctx, dealershipID, newName); err != nil {
			return err
		}
		n, err := s.Leads.SetDealershipNameFor(ctx, dealershipID, newName)
		leads = n
		return err
	})
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return err
		}
		return errs.CommitFailed(op, err)
	}

	s.Logger.Info("dealership renamed",
		zap.String("dealership_id", dealershipID), zap.String("actor_id", actor.ID), zap.Int64("leads", leads))
	return nil
}
