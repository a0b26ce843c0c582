package job

import (
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeFullTime JobType = "full_time"
	JobTypePartTime JobType = "part_time"
	JobTypeContract JobType = "contract"
)

type WorkMode string

const (
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeOnsite WorkMode = "onsite"
)

// ExtractedJobRecord is produced fresh by every scrape attempt. Optional text
// fields stay nil when the page did not provide them.
type ExtractedJobRecord struct {
	Title          *string  `json:"title"`
	Company        *string  `json:"company"`
	Location       *string  `json:"location"`
	Description    *string  `json:"description"`
	JobType        JobType  `json:"job_type"`
	WorkMode       WorkMode `json:"work_mode"`
	Skills         []string `json:"skills"`
	SalaryMin      *int     `json:"salary_min"`
	SalaryMax      *int     `json:"salary_max"`
	SalaryCurrency string   `json:"salary_currency,omitempty"`
}

// NewExtractedJobRecord returns a record carrying the documented defaults.
func NewExtractedJobRecord() ExtractedJobRecord {
	return ExtractedJobRecord{
		JobType:  JobTypeFullTime,
		WorkMode: WorkModeOnsite,
		Skills:   []string{},
	}
}

// HasTitle reports whether the record meets the minimum viability signal.
func (r *ExtractedJobRecord) HasTitle() bool {
	return r != nil && r.Title != nil && *r.Title != ""
}

// Job is the stored posting as seen by the scorer.
type Job struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Company     string
	Description string
	MatchScore  *float64
	UpdatedAt   time.Time
}

// MatchRecord is what gets persisted after scoring a job for a user.
type MatchRecord struct {
	UserID        uuid.UUID
	JobID         uuid.UUID
	Score         float64
	MatchedSkills []string
	MissingSkills []string
}
