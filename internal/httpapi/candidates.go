package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spigell/talentsage/internal/recruitment"
)

func (h *handler) getCandidate(c *gin.Context) {
	candidate, ok := h.requireCandidate(c)
	if !ok {
		return
	}

	rubric := h.store.Rubric(candidate.JobID)
	c.JSON(http.StatusOK, gin.H{
		"candidate":     candidate,
		"weightedScore": recruitment.CalculateScore(*candidate, rubric),
	})
}

// updateStage accepts any stage value, matching the store.
func (h *handler) updateStage(c *gin.Context) {
	var req struct {
		Stage string `json:"stage" binding:"required"`
		User  string `json:"user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	candidate, ok := h.requireCandidate(c)
	if !ok {
		return
	}

	user := strings.TrimSpace(req.User)
	if user == "" {
		user = recruitment.ActorRecruiter
	}

	h.store.UpdateCandidateStage(candidate.ID, recruitment.Stage(req.Stage), user)
	h.respondCandidate(c, candidate.ID)
}

func (h *handler) updateScreening(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := recruitment.ScreeningPatchFromMap(payload)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	candidate, ok := h.requireCandidate(c)
	if !ok {
		return
	}

	h.store.UpdateVideoScreening(candidate.ID, patch)
	h.respondCandidate(c, candidate.ID)
}

func (h *handler) reviewScreening(c *gin.Context) {
	var req struct {
		Decision string `json:"decision" binding:"required"`
		Reviewer string `json:"reviewer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	decision := recruitment.Decision(strings.ToLower(req.Decision))
	if !decision.IsValid() {
		abort(c, http.StatusBadRequest, "decision must be one of pass, hold, reject")
		return
	}

	candidate, ok := h.requireCandidate(c)
	if !ok {
		return
	}
	if candidate.VideoScreening == nil || !candidate.VideoScreening.Submitted {
		abort(c, http.StatusConflict, "no screening yet")
		return
	}

	reviewer := strings.TrimSpace(req.Reviewer)
	if reviewer == "" {
		reviewer = recruitment.ActorRecruiter
	}

	h.store.UpdateVideoScreening(candidate.ID, recruitment.ReviewPatch(decision, reviewer, h.now()))
	h.respondCandidate(c, candidate.ID)
}

func (h *handler) candidateAudit(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": h.store.CandidateAuditEvents(c.Param("id"))})
}

func (h *handler) listAudit(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": h.store.AuditEvents()})
}

func (h *handler) scheduleInterview(c *gin.Context) {
	var interview recruitment.Interview
	if err := c.ShouldBindJSON(&interview); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(interview.Date) == "" || strings.TrimSpace(interview.Time) == "" {
		abort(c, http.StatusBadRequest, "date and time are required")
		return
	}

	candidate, ok := h.requireCandidate(c)
	if !ok {
		return
	}

	h.store.ScheduleInterview(candidate.ID, interview)

	events := h.store.CandidateAuditEvents(candidate.ID)
	c.JSON(http.StatusCreated, gin.H{"event": events[0]})
}

func (h *handler) listScreenings(c *gin.Context) {
	filter := recruitment.ScreeningFilter(c.DefaultQuery("filter", string(recruitment.ScreeningAll)))
	switch filter {
	case recruitment.ScreeningAll, recruitment.ScreeningPending, recruitment.ScreeningReviewed:
	default:
		abort(c, http.StatusBadRequest, "filter must be one of all, pending, reviewed")
		return
	}

	candidates := recruitment.SearchCandidates(h.store.ScreeningCandidates(filter), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

func (h *handler) requireCandidate(c *gin.Context) (*recruitment.Candidate, bool) {
	candidate, ok := h.store.Candidate(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "candidate not found")
		return nil, false
	}
	return candidate, true
}

func (h *handler) respondCandidate(c *gin.Context, id string) {
	candidate, _ := h.store.Candidate(id)
	c.JSON(http.StatusOK, gin.H{"candidate": candidate})
}
