package staff

import (
	"time"

	"go-backoffice/internal/common/models"
)

type Staff struct {
	ID           string      `bson:"_id" json:"id"`
	Name         string      `bson:"name" json:"name"`
	Role         models.Role `bson:"role" json:"role"`
	SupervisorID string      `bson:"supervisor_id,omitempty" json:"supervisor_id,omitempty"`
	Commission   float64     `bson:"commission" json:"commission"` // flat rate paid per closed sale
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updated_at"`
}

type CreateStaffRequest struct {
	Name         string      `json:"name"`
	Role         models.Role `json:"role"`
	SupervisorID string      `json:"supervisor_id,omitempty"`
	Commission   float64     `json:"commission"`
}

type RenameStaffRequest struct {
	Name string `json:"name"`
}
