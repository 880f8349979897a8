package models

import "fmt"

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSupervisor Role = "Supervisor"
	RoleBroker     Role = "Broker"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleBroker:
		return true
	}
	return false
}

// Capabilities is what a role is allowed to do. Policy lives here so callers ask
// predicates instead of comparing role strings.
type Capabilities struct {
	CloseDeals       bool // may move a lead into a closing stage
	DeleteRecords    bool
	ManageRecruiting bool
	ManageStaff      bool
	ReadAudit        bool
}

var roleCapabilities = map[Role]Capabilities{
	RoleAdmin:      {CloseDeals: true, DeleteRecords: true, ManageRecruiting: true, ManageStaff: true, ReadAudit: true},
	RoleSupervisor: {CloseDeals: true, DeleteRecords: true, ManageRecruiting: true, ReadAudit: true},
	RoleBroker:     {},
}

// Actor is the authenticated caller, supplied explicitly to every core operation.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// SystemActor is used by scheduled jobs.
func SystemActor() Actor {
	return Actor{ID: "system", Name: "System", Role: RoleAdmin}
}

func (a Actor) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("actor id is required")
	}
	if !a.Role.Valid() {
		return fmt.Errorf("unknown actor role %q", a.Role)
	}
	return nil
}

func (a Actor) Capabilities() Capabilities {
	return roleCapabilities[a.Role]
}

func (a Actor) CanTransitionTo(stage Stage) bool {
	if stage.IsClosing() {
		return a.Capabilities().CloseDeals
	}
	return true
}

func (a Actor) CanDelete() bool {
	return a.Capabilities().DeleteRecords
}

func (a Actor) CanManageRecruiting() bool {
	return a.Capabilities().ManageRecruiting
}

func (a Actor) CanManageStaff() bool {
	return a.Capabilities().ManageStaff
}

func (a Actor) CanReadAudit() bool {
	return a.Capabilities().ReadAudit
}

// DisplayName falls back to the id when no name was supplied.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
