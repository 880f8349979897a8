package note

import "time"

type Type string

const (
	TypeManual           Type = "Manual"
	TypeSystem           Type = "System"
	TypeStageChange      Type = "StageChange"
	TypeOwnerChange      Type = "OwnerChange"
	TypeDealershipChange Type = "DealershipChange"
	TypeVehicleLink      Type = "VehicleLink"
	TypeAIAnalysis       Type = "AIAnalysis"
)

func (t Type) Valid() bool {
	switch t {
	case TypeManual, TypeSystem, TypeStageChange, TypeOwnerChange, TypeDealershipChange, TypeVehicleLink, TypeAIAnalysis:
		return true
	}
	return false
}

// NoteEntry is an immutable line of a lead's history. LeadID may outlive the lead itself.
type NoteEntry struct {
	ID      string    `bson:"_id" json:"id"`
	LeadID  string    `bson:"lead_id" json:"lead_id"`
	Content string    `bson:"content" json:"content"`
	Author  string    `bson:"author" json:"author"`
	Date    time.Time `bson:"date" json:"date"`
	Type    Type      `bson:"type" json:"type"`
}
