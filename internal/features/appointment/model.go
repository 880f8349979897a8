package appointment

import (
	"time"

	"go-backoffice/internal/common/models"
)

// Appointment mirrors LeadName, OwnerID and Stage from its lead. Only the cascade
// package rewrites those three fields after creation.
type Appointment struct {
	ID        string       `bson:"_id" json:"id"`
	LeadID    string       `bson:"lead_id" json:"lead_id"`
	LeadName  string       `bson:"lead_name" json:"lead_name"`
	StartTime time.Time    `bson:"start_time" json:"start_time"`
	EndTime   time.Time    `bson:"end_time" json:"end_time"`
	OwnerID   string       `bson:"owner_id" json:"owner_id"`
	Stage     models.Stage `bson:"stage" json:"stage"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

// IsOpen reports whether the appointment has not ended yet.
func (a Appointment) IsOpen(now time.Time) bool {
	return !a.EndTime.Before(now)
}

// Mirror holds the lead fields copied onto open appointments; nil leaves a field alone.
type Mirror struct {
	OwnerID  *string
	Stage    *models.Stage
	LeadName *string
}

func (m Mirror) IsEmpty() bool {
	return m.OwnerID == nil && m.Stage == nil && m.LeadName == nil
}

func (a Appointment) ApplyMirror(m Mirror) Appointment {
	if m.OwnerID != nil {
		a.OwnerID = *m.OwnerID
	}
	if m.Stage != nil {
		a.Stage = *m.Stage
	}
	if m.LeadName != nil {
		a.LeadName = *m.LeadName
	}
	return a
}

type CreateAppointmentRequest struct {
	LeadID    string    `json:"lead_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
