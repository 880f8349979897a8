package cascade

import (
	"context"

	"go-backoffice/internal/database"
	"go-backoffice/internal/features/appointment"
	"go-backoffice/internal/features/lead"
)

type Committer interface {
	Commit(ctx context.Context, b Batch) error
}

// StoreCommitter writes a Batch inside one database transaction.
type StoreCommitter struct {
	Tx           database.Transactor
	Leads        lead.LeadRepository
	Appointments appointment.AppointmentRepository
}

func NewCommitter(tx database.Transactor, leads lead.LeadRepository, appointments appointment.AppointmentRepository) Committer {
	return &StoreCommitter{
		Tx:           tx,
		Leads:        leads,
		Appointments: appointments,
	}
}

func (c *StoreCommitter) Commit(ctx context.Context, b Batch) error {
	return c.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := c.Leads.ApplyPatch(ctx, b.LeadID, b.Patch, b.At); err != nil {
			return err
		}
		if len(b.AppointmentIDs) == 0 || b.Mirror.IsEmpty() {
			return nil
		}
		_, err := c.Appointments.ApplyMirror(ctx, b.AppointmentIDs, b.Mirror)
		return err
	})
}
