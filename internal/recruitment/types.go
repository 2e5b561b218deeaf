package recruitment

import (
	"maps"
	"slices"
	"time"
)

// Stage is a candidate's position in the hiring pipeline.
// The store accepts any value; the constants below are the ones the UI offers.
type Stage string

const (
	StageApplied     Stage = "applied"
	StageShortlisted Stage = "shortlisted"
	StageInterview   Stage = "interview"
	StageOffer       Stage = "offer"
	StageRejected    Stage = "rejected"
)

// Stages lists the pipeline stages in display order.
var Stages = []Stage{StageApplied, StageShortlisted, StageInterview, StageOffer, StageRejected}

// IsKnown reports whether the stage is one of the pipeline stages.
func (s Stage) IsKnown() bool {
	return slices.Contains(Stages, s)
}

func (s Stage) String() string {
	return string(s)
}

type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
	JobDraft  JobStatus = "draft"
)

type Job struct {
	ID          string    `json:"id" mapstructure:"id"`
	Title       string    `json:"title" mapstructure:"title"`
	Department  string    `json:"department" mapstructure:"department"`
	Location    string    `json:"location" mapstructure:"location"`
	Type        string    `json:"type" mapstructure:"type"`
	Status      JobStatus `json:"status" mapstructure:"status"`
	Description string    `json:"description" mapstructure:"description"`
	Applicants  int       `json:"applicants" mapstructure:"applicants"`
	PostedAt    time.Time `json:"postedDate" mapstructure:"postedDate"`
}

// Evaluation holds the optional AI sub-scores of a candidate.
// Scores is keyed by rubric criterion id and feeds CalculateScore.
type Evaluation struct {
	TechnicalScore     int            `json:"technicalScore" mapstructure:"technicalScore"`
	CommunicationScore int            `json:"communicationScore" mapstructure:"communicationScore"`
	CultureFitScore    int            `json:"cultureFitScore" mapstructure:"cultureFitScore"`
	Summary            string         `json:"summary" mapstructure:"summary"`
	Scores             map[string]int `json:"scores,omitempty" mapstructure:"scores"`
}

type Decision string

const (
	DecisionPass   Decision = "pass"
	DecisionHold   Decision = "hold"
	DecisionReject Decision = "reject"
)

func (d Decision) IsValid() bool {
	switch d {
	case DecisionPass, DecisionHold, DecisionReject:
		return true
	default:
		return false
	}
}

type VideoScreening struct {
	Submitted      bool           `json:"submitted" mapstructure:"submitted"`
	VideoURL       string         `json:"videoUrl,omitempty" mapstructure:"videoUrl"`
	Duration       string         `json:"duration,omitempty" mapstructure:"duration"`
	Transcript     string         `json:"transcript,omitempty" mapstructure:"transcript"`
	Scores         map[string]int `json:"scores,omitempty" mapstructure:"scores"`
	Recommendation string         `json:"recommendation,omitempty" mapstructure:"recommendation"`
	Decision       Decision       `json:"decision,omitempty" mapstructure:"decision"`
	ReviewedBy     string         `json:"reviewedBy,omitempty" mapstructure:"reviewedBy"`
	ReviewedAt     *time.Time     `json:"reviewedAt,omitempty" mapstructure:"reviewedAt"`
}

// Reviewed reports whether a recruiter has already looked at the screening.
func (v *VideoScreening) Reviewed() bool {
	return v != nil && v.ReviewedBy != ""
}

type Candidate struct {
	ID             string          `json:"id" mapstructure:"id"`
	JobID          string          `json:"jobId" mapstructure:"jobId"`
	Name           string          `json:"name" mapstructure:"name"`
	Email          string          `json:"email" mapstructure:"email"`
	Phone          string          `json:"phone" mapstructure:"phone"`
	Location       string          `json:"location" mapstructure:"location"`
	Avatar         string          `json:"avatar,omitempty" mapstructure:"avatar"`
	Experience     string          `json:"experience,omitempty" mapstructure:"experience"`
	Education      string          `json:"education,omitempty" mapstructure:"education"`
	Score          int             `json:"score" mapstructure:"score"`
	Stage          Stage           `json:"stage" mapstructure:"stage"`
	Skills         []string        `json:"skills" mapstructure:"skills"`
	Evaluation     *Evaluation     `json:"evaluation,omitempty" mapstructure:"evaluation"`
	VideoScreening *VideoScreening `json:"videoScreening,omitempty" mapstructure:"videoScreening"`
	AppliedAt      time.Time       `json:"appliedDate" mapstructure:"appliedDate"`
}

func (c Candidate) clone() Candidate {
	c.Skills = slices.Clone(c.Skills)
	if c.Evaluation != nil {
		e := *c.Evaluation
		e.Scores = maps.Clone(e.Scores)
		c.Evaluation = &e
	}
	c.VideoScreening = c.VideoScreening.clone()
	return c
}

func (v *VideoScreening) clone() *VideoScreening {
	if v == nil {
		return nil
	}
	out := *v
	out.Scores = maps.Clone(v.Scores)
	if v.ReviewedAt != nil {
		at := *v.ReviewedAt
		out.ReviewedAt = &at
	}
	return &out
}
