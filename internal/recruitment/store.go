package recruitment

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/logger"
)

// DefaultShortlistThreshold is the minimum score promoted by ShortlistTopCandidates.
const DefaultShortlistThreshold = 85

// Persister receives the persisted slice of the store after every mutation.
type Persister interface {
	SaveRubrics(ctx context.Context, rubrics map[string]Rubric) error
}

// Deps aggregates the collaborators of a Store. Every field is optional.
type Deps struct {
	// Ctx is used only for persistence writes.
	Ctx       context.Context
	Logger    *zap.Logger
	Persister Persister
	Now       func() time.Time
	NewID     func() string
}

// Store is the single source of truth for jobs, candidates, rubrics and the
// audit trail. Lookups by unknown ids return empty results and mutations on
// unknown ids are silent no-ops.
type Store struct {
	mu          sync.RWMutex
	jobs        []Job
	candidates  []Candidate
	rubrics     map[string]Rubric
	auditEvents []AuditEvent

	// persistMu orders persistence writes; snapshots older than the last
	// saved one are dropped.
	persistMu    sync.Mutex
	snapshotSeq  uint64
	persistedSeq uint64

	ctx       context.Context
	logger    *zap.Logger
	persister Persister
	now       func() time.Time
	newID     func() string
}

// NewStore seeds a store from the given fixtures.
func NewStore(fixtures Fixtures, deps *Deps) *Store {
	if deps == nil {
		deps = &Deps{}
	}

	s := &Store{
		jobs:        slices.Clone(fixtures.Jobs),
		candidates:  slice.Map(fixtures.Candidates, func(_ int, c Candidate) Candidate { return c.clone() }),
		rubrics:     cloneRubrics(fixtures.Rubrics),
		auditEvents: slices.Clone(fixtures.AuditEvents),
		ctx:         deps.Ctx,
		logger:      logger.WithFields(deps.Logger),
		persister:   deps.Persister,
		now:         deps.Now,
		newID:       deps.NewID,
	}

	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.rubrics == nil {
		s.rubrics = make(map[string]Rubric)
	}

	return s
}

func (s *Store) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.jobs)
}

func (s *Store) Job(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := slices.IndexFunc(s.jobs, func(j Job) bool { return j.ID == id })
	if idx == -1 {
		return nil, false
	}

	job := s.jobs[idx]
	return &job, true
}

func (s *Store) Candidates() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slice.Map(s.candidates, func(_ int, c Candidate) Candidate { return c.clone() })
}

func (s *Store) Candidate(id string) (*Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.candidateIndex(id)
	if idx == -1 {
		return nil, false
	}

	c := s.candidates[idx].clone()
	return &c, true
}

// CandidatesByJob returns the candidates of a job in seeding order.
func (s *Store) CandidatesByJob(jobID string) []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slice.FilterMap(s.candidates, func(_ int, c Candidate) (Candidate, bool) {
		return c.clone(), c.JobID == jobID
	})
}

// CandidatesByStage returns the candidates of a job in the given stage. Stages
// are compared case-insensitively.
func (s *Store) CandidatesByStage(jobID string, stage Stage) []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slice.FilterMap(s.candidates, func(_ int, c Candidate) (Candidate, bool) {
		return c.clone(), c.JobID == jobID && sameStage(c.Stage, stage)
	})
}

// ScreeningCandidates returns the candidates that submitted a video screening
// and match the filter.
func (s *Store) ScreeningCandidates(filter ScreeningFilter) []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slice.FilterMap(s.candidates, func(_ int, c Candidate) (Candidate, bool) {
		return c.clone(), filter.match(c.VideoScreening)
	})
}

// UpdateCandidateStage overwrites the stage of a candidate and records the change.
// Neither the stage value nor the transition is validated.
func (s *Store) UpdateCandidateStage(candidateID string, stage Stage, actor string) {
	if actor == "" {
		actor = ActorAssistant
	}

	s.mu.Lock()
	idx := s.candidateIndex(candidateID)
	if idx == -1 {
		s.mu.Unlock()
		return
	}

	from := s.candidates[idx].Stage
	s.candidates[idx].Stage = stage
	s.prependEvents(s.stageChange(candidateID, from, stage, actor, fmt.Sprintf("Moved from %s to %s", from, stage)))
	snapshot := s.rubricSnapshot()
	s.mu.Unlock()

	s.logger.Info("candidate stage changed",
		append(logger.CandidateFields(candidateID, ""),
			zap.String("from", from.String()),
			zap.String("to", stage.String()),
			zap.String("user", actor),
		)...,
	)

	s.persist(snapshot)
}

// ShortlistTopCandidates promotes every applied candidate of the job whose score
// reaches the threshold and returns how many were moved. Candidates past the
// applied stage are never selected.
func (s *Store) ShortlistTopCandidates(jobID string, threshold int) int {
	s.mu.Lock()
	events := make([]AuditEvent, 0)
	for idx := range s.candidates {
		c := &s.candidates[idx]
		if c.JobID != jobID || !sameStage(c.Stage, StageApplied) || c.Score < threshold {
			continue
		}

		c.Stage = StageShortlisted
		events = append(events, s.stageChange(c.ID, StageApplied, StageShortlisted, ActorAssistant,
			"Moved from applied to shortlisted by AI Assistant"))
	}
	s.prependEvents(events...)
	snapshot := s.rubricSnapshot()
	s.mu.Unlock()

	s.logger.Info("shortlisted top candidates",
		append(logger.JobFields(jobID),
			zap.Int("threshold", threshold),
			zap.Int("count", len(events)),
		)...,
	)

	s.persist(snapshot)

	return len(events)
}

// UpdateVideoScreening shallow-merges the patch into the candidate's screening,
// creating it when absent. No audit event is recorded.
func (s *Store) UpdateVideoScreening(candidateID string, patch ScreeningPatch) {
	s.mu.Lock()
	idx := s.candidateIndex(candidateID)
	if idx == -1 {
		s.mu.Unlock()
		return
	}

	s.candidates[idx].VideoScreening = patch.applyTo(s.candidates[idx].VideoScreening)
	snapshot := s.rubricSnapshot()
	s.mu.Unlock()

	s.logger.Debug("video screening updated", logger.CandidateFields(candidateID, "")...)

	s.persist(snapshot)
}

// Rubric returns the rubric of a job, falling back to the default rubric.
func (s *Store) Rubric(jobID string) Rubric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.rubrics[jobID]; ok {
		return r.clone()
	}
	if r, ok := s.rubrics[DefaultRubricKey]; ok {
		return r.clone()
	}
	return RubricTemplates()[DefaultRubricKey]
}

// Rubrics returns a copy of the whole rubric mapping.
func (s *Store) Rubrics() map[string]Rubric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneRubrics(s.rubrics)
}

// RestoreRubrics replaces the rubric mapping with a previously persisted one.
func (s *Store) RestoreRubrics(rubrics map[string]Rubric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rubrics = cloneRubrics(rubrics)
	if s.rubrics == nil {
		s.rubrics = make(map[string]Rubric)
	}
}

// UpdateRubric replaces the rubric of a job wholesale. The weight total is not checked.
func (s *Store) UpdateRubric(jobID string, rubric Rubric) {
	s.mu.Lock()
	s.rubrics[jobID] = rubric.clone()
	s.prependEvents(AuditEvent{
		ID:          s.newID(),
		JobID:       jobID,
		Type:        AuditRubricUpdated,
		Timestamp:   s.now(),
		Description: "Evaluation rubric updated",
		User:        ActorRecruiter,
	})
	snapshot := s.rubricSnapshot()
	s.mu.Unlock()

	s.logger.Info("rubric updated", append(logger.JobFields(jobID), zap.Int("criteria", len(rubric.Criteria)))...)

	s.persist(snapshot)
}

// GenerateRubricForJob installs the template matching the job's department.
func (s *Store) GenerateRubricForJob(jobID string) {
	job, ok := s.Job(jobID)
	if !ok {
		s.logger.Debug("rubric generation skipped: unknown job", logger.JobFields(jobID)...)
		return
	}

	key := TemplateForDepartment(job.Department)
	template := RubricTemplates()[key]

	s.mu.Lock()
	s.rubrics[jobID] = template
	s.prependEvents(AuditEvent{
		ID:          s.newID(),
		JobID:       jobID,
		Type:        AuditRubricGenerated,
		Timestamp:   s.now(),
		Description: "Evaluation rubric generated by AI Assistant",
		User:        ActorAssistant,
	})
	snapshot := s.rubricSnapshot()
	s.mu.Unlock()

	s.logger.Info("rubric generated",
		append(logger.JobFields(jobID),
			zap.String("department", job.Department),
			zap.String("template", key),
		)...,
	)

	s.persist(snapshot)
}

// AddAuditEvent records an externally built event, stamping its id and timestamp.
func (s *Store) AddAuditEvent(event AuditEvent) {
	s.mu.Lock()
	event.ID = s.newID()
	event.Timestamp = s.now()
	event.Metadata = maps.Clone(event.Metadata)
	s.prependEvents(event)
	snapshot := s.rubricSnapshot()
	s.mu.Unlock()

	s.persist(snapshot)
}

// ScheduleInterview records an interview in the audit trail of the candidate.
func (s *Store) ScheduleInterview(candidateID string, interview Interview) {
	s.mu.Lock()
	s.prependEvents(AuditEvent{
		ID:          s.newID(),
		CandidateID: candidateID,
		Type:        AuditInterviewScheduled,
		Timestamp:   s.now(),
		Description: fmt.Sprintf("Interview scheduled for %s at %s", interview.Date, interview.Time),
		User:        ActorAssistant,
		Metadata:    interview.metadata(),
	})
	snapshot := s.rubricSnapshot()
	s.mu.Unlock()

	s.logger.Info("interview scheduled",
		append(logger.CandidateFields(candidateID, ""),
			zap.String("date", interview.Date),
			zap.String("time", interview.Time),
		)...,
	)

	s.persist(snapshot)
}

// AuditEvents returns the whole audit trail, newest first.
func (s *Store) AuditEvents() []AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slice.Map(s.auditEvents, func(_ int, e AuditEvent) AuditEvent { return e.clone() })
}

// CandidateAuditEvents returns the audit trail of one candidate, newest first.
func (s *Store) CandidateAuditEvents(candidateID string) []AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slice.FilterMap(s.auditEvents, func(_ int, e AuditEvent) (AuditEvent, bool) {
		return e.clone(), e.CandidateID == candidateID
	})
}

func (s *Store) candidateIndex(id string) int {
	return slices.IndexFunc(s.candidates, func(c Candidate) bool { return c.ID == id })
}

func (s *Store) stageChange(candidateID string, from, to Stage, actor, description string) AuditEvent {
	return AuditEvent{
		ID:          s.newID(),
		CandidateID: candidateID,
		Type:        AuditStageChange,
		Timestamp:   s.now(),
		Description: description,
		User:        actor,
		Metadata:    map[string]any{"from": from, "to": to},
	}
}

// prependEvents must be called with the write lock held.
func (s *Store) prependEvents(events ...AuditEvent) {
	if len(events) == 0 {
		return
	}
	s.auditEvents = append(slices.Clone(events), s.auditEvents...)
}

type pendingRubrics struct {
	seq     uint64
	rubrics map[string]Rubric
}

// rubricSnapshot must be called with the write lock held.
func (s *Store) rubricSnapshot() pendingRubrics {
	if s.persister == nil {
		return pendingRubrics{}
	}
	s.snapshotSeq++
	return pendingRubrics{seq: s.snapshotSeq, rubrics: cloneRubrics(s.rubrics)}
}

func (s *Store) persist(snapshot pendingRubrics) {
	if s.persister == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if snapshot.seq <= s.persistedSeq {
		s.logger.Debug("skipping stale rubric snapshot", zap.Uint64("seq", snapshot.seq))
		return
	}

	if err := s.persister.SaveRubrics(s.ctx, snapshot.rubrics); err != nil {
		s.logger.Warn("persisting rubrics failed", zap.Error(err))
		return
	}
	s.persistedSeq = snapshot.seq
}

func (e AuditEvent) clone() AuditEvent {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}

func sameStage(a, b Stage) bool {
	return strings.EqualFold(string(a), string(b))
}

func cloneRubrics(src map[string]Rubric) map[string]Rubric {
	if src == nil {
		return nil
	}
	out := make(map[string]Rubric, len(src))
	for k, r := range src {
		out[k] = r.clone()
	}
	return out
}
