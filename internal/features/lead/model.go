package lead

import (
	"time"

	"go-backoffice/internal/common/models"
)

type Channel string

const (
	ChannelFacebook Channel = "Facebook"
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelCall     Channel = "Call"
	ChannelVisit    Channel = "Visit"
	ChannelOther    Channel = "Other"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelFacebook, ChannelWhatsApp, ChannelCall, ChannelVisit, ChannelOther:
		return true
	}
	return false
}

// Lead is a sales prospect. OwnerName and DealershipName are caches of the referenced
// documents' names and are only rewritten by the cascade package.
type Lead struct {
	ID                  string       `bson:"_id" json:"id"`
	Name                string       `bson:"name" json:"name"`
	Phone               string       `bson:"phone" json:"phone"`
	Email               string       `bson:"email" json:"email"`
	Channel             Channel      `bson:"channel" json:"channel"`
	Stage               models.Stage `bson:"stage" json:"stage"`
	OwnerID             string       `bson:"owner_id" json:"owner_id"`
	OwnerName           string       `bson:"owner_name" json:"owner_name"`
	DealershipID        string       `bson:"dealership_id" json:"dealership_id"`
	DealershipName      string       `bson:"dealership_name" json:"dealership_name"`
	InterestedVehicleID *string      `bson:"interested_vehicle_id,omitempty" json:"interested_vehicle_id,omitempty"`
	BrokerCommission    *float64     `bson:"broker_commission,omitempty" json:"broker_commission,omitempty"`
	WonAt               *time.Time   `bson:"won_at,omitempty" json:"won_at,omitempty"` // set when the stage enters Ganado
	CreatedAt           time.Time    `bson:"created_at" json:"created_at"`
	LastActivity        time.Time    `bson:"last_activity" json:"last_activity"`
}

// Patch lists the cascading lead fields; nil means "leave unchanged".
type Patch struct {
	Stage          *models.Stage `json:"stage,omitempty"`
	OwnerID        *string       `json:"owner_id,omitempty"`
	OwnerName      *string       `json:"owner_name,omitempty"`
	DealershipID   *string       `json:"dealership_id,omitempty"`
	DealershipName *string       `json:"dealership_name,omitempty"`
	Name           *string       `json:"name,omitempty"`

	// WonAt is stamped by the cascade when the stage moves into Ganado.
	WonAt *time.Time `json:"-"`
}

func (p Patch) IsEmpty() bool {
	return p.Stage == nil && p.OwnerID == nil && p.OwnerName == nil &&
		p.DealershipID == nil && p.DealershipName == nil && p.Name == nil
}

// Apply returns a copy of l with the patch applied.
func (l Lead) Apply(p Patch, at time.Time) Lead {
	if p.Stage != nil {
		l.Stage = *p.Stage
	}
	if p.OwnerID != nil {
		l.OwnerID = *p.OwnerID
	}
	if p.OwnerName != nil {
		l.OwnerName = *p.OwnerName
	}
	if p.DealershipID != nil {
		l.DealershipID = *p.DealershipID
	}
	if p.DealershipName != nil {
		l.DealershipName = *p.DealershipName
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.WonAt != nil {
		l.WonAt = p.WonAt
	}
	l.LastActivity = at
	return l
}

// Filter narrows lead listings; empty fields are ignored.
type Filter struct {
	OwnerID      string
	DealershipID string
	Stage        models.Stage
}

type CreateLeadRequest struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Channel      Channel `json:"channel"`
	OwnerID      string  `json:"owner_id"`
	DealershipID string  `json:"dealership_id"`
}

type ManualNoteRequest struct {
	Content string `json:"content"`
}
