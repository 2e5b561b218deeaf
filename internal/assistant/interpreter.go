package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/logger"
	"github.com/spigell/talentsage/internal/recruitment"
)

// FallbackJobID is acted on when neither the conversation nor the store names a job.
const FallbackJobID = "job-1"

const (
	IntentShortlist         = "shortlist"
	IntentGenerateRubric    = "generate_rubric"
	IntentScheduleInterview = "schedule_interview"
	IntentShow              = "show"
	IntentHelp              = "help"
)

// ErrEmptyCommand is returned by Submit for blank input.
var ErrEmptyCommand = errors.New("command is empty")

// Store is the part of the recruitment store the interpreter drives.
type Store interface {
	Jobs() []recruitment.Job
	ShortlistTopCandidates(jobID string, threshold int) int
	GenerateRubricForJob(jobID string)
}

// Request is what a rule sees: the lower-cased input and the resolved job.
type Request struct {
	Input string
	JobID string
}

// Reply is the content and follow-ups of one assistant message.
type Reply struct {
	Content string
	Actions []SuggestedAction
}

// Rule pairs a predicate with its handler. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Name   string
	Match  func(input string) bool
	Handle func(req Request) Reply
}

type Interpreter struct {
	store     Store
	delay     Delayer
	threshold int
	logger    *zap.Logger
	metrics   *Metrics
	rules     []Rule
}

type Option func(*Interpreter)

func WithDelayer(d Delayer) Option {
	return func(i *Interpreter) { i.delay = d }
}

// WithThreshold sets the minimum score promoted by the shortlist rule.
func WithThreshold(threshold int) Option {
	return func(i *Interpreter) { i.threshold = threshold }
}

func WithLogger(log *zap.Logger) Option {
	return func(i *Interpreter) { i.logger = log }
}

func WithMetrics(m *Metrics) Option {
	return func(i *Interpreter) { i.metrics = m }
}

func NewInterpreter(store Store, opts ...Option) *Interpreter {
	i := &Interpreter{
		store:     store,
		delay:     SleepDelayer{Duration: DefaultDelay},
		threshold: recruitment.DefaultShortlistThreshold,
	}
	for _, opt := range opts {
		opt(i)
	}

	i.logger = logger.WithFields(i.logger)
	if i.delay == nil {
		i.delay = NoDelay{}
	}
	i.rules = i.defaultRules()

	return i
}

// Rules returns the rule names in evaluation order.
func (i *Interpreter) Rules() []string {
	names := make([]string, len(i.rules))
	for idx, r := range i.rules {
		names[idx] = r.Name
	}
	return names
}

// Intent returns the name of the rule the input resolves to without running it.
func (i *Interpreter) Intent(input string) string {
	return i.match(strings.ToLower(input)).Name
}

// Submit records the user's input and processes it. Blank input is rejected
// and leaves the conversation untouched.
func (i *Interpreter) Submit(ctx context.Context, conv *Conversation, input string) (ChatMessage, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return ChatMessage{}, ErrEmptyCommand
	}

	conv.AddMessage(RoleUser, input)
	return i.Process(ctx, conv, input)
}

// Process answers the input with exactly one assistant message. If ctx is done
// during the thinking pause no rule runs and no message is appended.
func (i *Interpreter) Process(ctx context.Context, conv *Conversation, input string) (ChatMessage, error) {
	conv.SetMode(ModeThinking)
	defer conv.SetMode(ModeIdle)

	if err := i.delay.Wait(ctx); err != nil {
		i.logger.Debug("command abandoned while thinking", zap.Error(err))
		return ChatMessage{}, fmt.Errorf("waiting for reply: %w", err)
	}

	lowered := strings.ToLower(input)
	rule := i.match(lowered)
	req := Request{Input: lowered, JobID: i.ResolveJob(conv)}
	reply := rule.Handle(req)

	i.metrics.observe(rule.Name)
	i.logger.Info("command processed",
		append(logger.JobFields(req.JobID),
			zap.String(logger.FieldIntent, rule.Name),
			zap.String("input", logger.TruncateForLog(input, 80)),
		)...,
	)

	return conv.AddMessage(RoleAssistant, reply.Content, reply.Actions...), nil
}

func (i *Interpreter) match(lowered string) Rule {
	for _, r := range i.rules {
		if r.Match(lowered) {
			return r
		}
	}
	// unreachable: the help rule matches everything
	return i.rules[len(i.rules)-1]
}

// ResolveJob returns the job commands act on: the conversation's current job,
// then the store's first job, then FallbackJobID.
func (i *Interpreter) ResolveJob(conv *Conversation) string {
	if id := conv.CurrentJobID(); id != "" {
		return id
	}
	if jobs := i.store.Jobs(); len(jobs) > 0 {
		return jobs[0].ID
	}
	return FallbackJobID
}

func (i *Interpreter) defaultRules() []Rule {
	return []Rule{
		{
			Name:  IntentShortlist,
			Match: containsAll("shortlist", "candidate"),
			Handle: func(req Request) Reply {
				count := i.store.ShortlistTopCandidates(req.JobID, i.threshold)
				return Reply{
					Content: fmt.Sprintf("I've successfully shortlisted %d top candidates with scores above %d for this position. You can review them in the Shortlisted tab.", count, i.threshold),
					Actions: []SuggestedAction{{Label: "View Shortlisted Candidates", Action: "view_shortlisted"}},
				}
			},
		},
		{
			Name:  IntentGenerateRubric,
			Match: containsAll("generate", "rubric"),
			Handle: func(req Request) Reply {
				i.store.GenerateRubricForJob(req.JobID)
				return Reply{
					Content: "I've generated a customized evaluation rubric based on the job requirements. The rubric includes weighted criteria for technical skills, problem-solving, communication, and culture fit.",
					Actions: []SuggestedAction{
						{Label: "View Rubric", Action: "view_rubric"},
						{Label: "Edit Rubric", Action: "edit_rubric"},
					},
				}
			},
		},
		{
			Name:  IntentScheduleInterview,
			Match: containsAll("schedule", "interview"),
			Handle: func(Request) Reply {
				return Reply{
					Content: "I can help you schedule an interview. Please select a candidate and provide your preferred date and time.",
					Actions: []SuggestedAction{{Label: "Open Schedule Modal", Action: "schedule_interview"}},
				}
			},
		},
		{
			Name:   IntentShow,
			Match:  containsAny("show", "view"),
			Handle: showReply,
		},
		{
			Name:  IntentHelp,
			Match: func(string) bool { return true },
			Handle: func(Request) Reply {
				return Reply{
					Content: "I can help you with:\n• Shortlisting top candidates\n• Generating evaluation rubrics\n• Scheduling interviews\n• Viewing candidates and jobs\n\nWhat would you like to do?",
					Actions: []SuggestedAction{
						{Label: "Shortlist Top Candidates", Action: "shortlist"},
						{Label: "Generate Rubric", Action: "generate_rubric"},
						{Label: "Schedule Interview", Action: "schedule"},
					},
				}
			},
		},
	}
}

// showReply leaves the reply empty when neither candidates nor jobs are named.
func showReply(req Request) Reply {
	switch {
	case strings.Contains(req.Input, "candidate"):
		return Reply{
			Content: "Here are the current candidates. You can filter by stage or search by name.",
			Actions: []SuggestedAction{{Label: "View All Candidates", Action: "view_candidates"}},
		}
	case strings.Contains(req.Input, "job"):
		return Reply{
			Content: "Here are all active job postings.",
			Actions: []SuggestedAction{{Label: "View Jobs", Action: "view_jobs"}},
		}
	default:
		return Reply{}
	}
}

func containsAll(words ...string) func(string) bool {
	return func(input string) bool {
		for _, w := range words {
			if !strings.Contains(input, w) {
				return false
			}
		}
		return true
	}
}

func containsAny(words ...string) func(string) bool {
	return func(input string) bool {
		for _, w := range words {
			if strings.Contains(input, w) {
				return true
			}
		}
		return false
	}
}
