package recruiting

import "time"

type Status string

const (
	StatusNewApplicant Status = "NewApplicant"
	StatusInterviews   Status = "Interviews"
	StatusApproved     Status = "Approved"
	StatusOnboarding   Status = "Onboarding"
	StatusActive       Status = "Active"
	StatusRejected     Status = "Rejected"
	StatusInactive     Status = "Inactive"
)

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

type Candidate struct {
	ID                   string    `bson:"_id" json:"id"`
	FullName             string    `bson:"full_name" json:"full_name"`
	WhatsAppNumber       string    `bson:"whatsapp_number" json:"whatsapp_number"`
	PipelineStatus       Status    `bson:"pipeline_status" json:"pipeline_status"`
	LastStatusChangeDate time.Time `bson:"last_status_change_date" json:"last_status_change_date"`
	Score                int       `bson:"score" json:"score"`
	CreatedAt            time.Time `bson:"created_at" json:"created_at"`
}

type CreateCandidateRequest struct {
	FullName       string `json:"full_name"`
	WhatsAppNumber string `json:"whatsapp_number"`
	Score          int    `json:"score"`
}

type TransitionRequest struct {
	Status Status `json:"status"`
}

// TransitionResult is returned once the new status is stored. Warnings are entry
// actions or audit writes that failed afterwards.
type TransitionResult struct {
	Candidate Candidate `json:"candidate"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Warnings  []error   `json:"-"`
}
