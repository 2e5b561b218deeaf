package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spigell/talentsage/internal/recruitment"
)

type jobView struct {
	recruitment.Job
	Stats recruitment.JobStats `json:"stats"`
}

func (h *handler) listJobs(c *gin.Context) {
	jobs := recruitment.SearchJobs(h.store.Jobs(), c.Query("q"))

	out := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobView{Job: j, Stats: h.store.JobStats(j.ID)})
	}

	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

func (h *handler) getJob(c *gin.Context) {
	job, ok := h.requireJob(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, jobView{Job: *job, Stats: h.store.JobStats(job.ID)})
}

func (h *handler) jobCandidates(c *gin.Context) {
	jobID := c.Param("id")

	var candidates []recruitment.Candidate
	if stage := c.Query("stage"); stage != "" {
		candidates = h.store.CandidatesByStage(jobID, recruitment.Stage(stage))
	} else {
		candidates = h.store.CandidatesByJob(jobID)
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

func (h *handler) getRubric(c *gin.Context) {
	rubric := h.store.Rubric(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"rubric": rubric, "totalWeight": rubric.TotalWeight()})
}

// updateRubric is the edit boundary: the weight total is checked here, never in the store.
func (h *handler) updateRubric(c *gin.Context) {
	var rubric recruitment.Rubric
	if err := c.ShouldBindJSON(&rubric); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := rubric.Validate(); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, recruitment.ErrInvalidWeightTotal) {
			status = http.StatusUnprocessableEntity
		}
		abort(c, status, err.Error())
		return
	}

	jobID := c.Param("id")
	h.store.UpdateRubric(jobID, rubric)

	c.JSON(http.StatusOK, gin.H{"rubric": h.store.Rubric(jobID)})
}

func (h *handler) generateRubric(c *gin.Context) {
	job, ok := h.requireJob(c)
	if !ok {
		return
	}

	h.store.GenerateRubricForJob(job.ID)
	c.JSON(http.StatusOK, gin.H{"rubric": h.store.Rubric(job.ID)})
}

func (h *handler) shortlist(c *gin.Context) {
	req := struct {
		Threshold *int `json:"threshold"`
	}{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	threshold := recruitment.DefaultShortlistThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	jobID := c.Param("id")
	count := h.store.ShortlistTopCandidates(jobID, threshold)

	c.JSON(http.StatusOK, gin.H{"jobId": jobID, "threshold": threshold, "shortlisted": count})
}

func (h *handler) requireJob(c *gin.Context) (*recruitment.Job, bool) {
	job, ok := h.store.Job(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "job not found")
		return nil, false
	}
	return job, true
}
