package cron_feature

import (
	"context"
	"time"
)

// Job is a built-in scheduled task. Run reports how many records it looked at and
// how many it changed.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (processed, affected int, err error)
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name     string     `json:"name"`
	Schedule string     `json:"schedule"`
	LastRun  *time.Time `json:"last_run,omitempty"`
	NextRun  *time.Time `json:"next_run,omitempty"`
}

// CronJobLog represents a single execution of a job
type CronJobLog struct {
	ID               string     `json:"id" bson:"_id"`
	JobName          string     `json:"job_name" bson:"job_name"`
	StartTime        time.Time  `json:"start_time" bson:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status           string     `json:"status" bson:"status"` // "success", "failed", "running"
	RecordsProcessed int        `json:"records_processed" bson:"records_processed"`
	RecordsAffected  int        `json:"records_affected" bson:"records_affected"`
	Error            string     `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
}
