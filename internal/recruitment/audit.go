package recruitment

import "time"

type AuditType string

const (
	AuditStageChange        AuditType = "stage_change"
	AuditRubricUpdated      AuditType = "rubric_updated"
	AuditRubricGenerated    AuditType = "rubric_generated"
	AuditInterviewScheduled AuditType = "interview_scheduled"
)

const (
	// ActorAssistant is credited with every automated mutation.
	ActorAssistant = "AI Assistant"
	// ActorRecruiter is credited with manual rubric edits.
	ActorRecruiter = "Recruiter"
)

// AuditEvent is an immutable record of a store mutation.
type AuditEvent struct {
	ID          string         `json:"id" mapstructure:"id"`
	CandidateID string         `json:"candidateId,omitempty" mapstructure:"candidateId"`
	JobID       string         `json:"jobId,omitempty" mapstructure:"jobId"`
	Type        AuditType      `json:"type" mapstructure:"type"`
	Timestamp   time.Time      `json:"timestamp" mapstructure:"timestamp"`
	Description string         `json:"description" mapstructure:"description"`
	User        string         `json:"user" mapstructure:"user"`
	Metadata    map[string]any `json:"metadata,omitempty" mapstructure:"metadata"`
}

// Interview is the payload of a scheduled interview. It is recorded in the
// audit trail only.
type Interview struct {
	Date        string `json:"date" mapstructure:"date"`
	Time        string `json:"time" mapstructure:"time"`
	Interviewer string `json:"interviewer,omitempty" mapstructure:"interviewer"`
	Format      string `json:"format,omitempty" mapstructure:"format"`
	Notes       string `json:"notes,omitempty" mapstructure:"notes"`
}

func (i Interview) metadata() map[string]any {
	meta := map[string]any{
		"date": i.Date,
		"time": i.Time,
	}
	if i.Interviewer != "" {
		meta["interviewer"] = i.Interviewer
	}
	if i.Format != "" {
		meta["format"] = i.Format
	}
	if i.Notes != "" {
		meta["notes"] = i.Notes
	}
	return meta
}
