package cascade

import (
	"time"

	"go-backoffice/internal/features/appointment"
	"go-backoffice/internal/features/lead"
)

// Batch is everything one lead mutation writes. It is committed as a unit.
type Batch struct {
	LeadID         string
	Patch          lead.Patch
	At             time.Time
	AppointmentIDs []string
	Mirror         appointment.Mirror
}

// Result reports a committed mutation. Warnings are side effects that failed after the
// commit; they never undo it.
type Result struct {
	Lead         lead.Lead `json:"lead"`
	Appointments int       `json:"appointments_mirrored"`
	Warnings     []error   `json:"-"`
}

type VehicleLinkRequest struct {
	VehicleID string `json:"vehicle_id"`
}
