package audit

import "time"

type Action string

const (
	ActionCreate     Action = "CREATE"
	ActionUpdate     Action = "UPDATE"
	ActionDelete     Action = "DELETE"
	ActionTransition Action = "TRANSITION"
	ActionCron       Action = "CRON"
)

type Change struct {
	Old interface{} `bson:"old,omitempty" json:"old,omitempty"`
	New interface{} `bson:"new,omitempty" json:"new,omitempty"`
}

// AuditLog records changes to records that have no lead history of their own.
type AuditLog struct {
	ID        string            `bson:"_id" json:"id"`
	Action    Action            `bson:"action" json:"action"`
	Module    string            `bson:"module" json:"module"`
	RecordID  string            `bson:"record_id" json:"record_id"`
	ActorID   string            `bson:"actor_id" json:"actor_id"`
	ActorName string            `bson:"actor_name" json:"actor_name"`
	Changes   map[string]Change `bson:"changes" json:"changes"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
}
