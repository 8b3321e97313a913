package handlers

import (
	"net/http"

	"hemicycle/internal/services"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidates *services.CandidateService
	scores     *services.CandidateScoreService
}

func NewCandidateHandler(candidates *services.CandidateService, scores *services.CandidateScoreService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, scores: scores}
}

// List 只返回已发布的候选人
func (h *CandidateHandler) List(c *gin.Context) {
	list, err := h.candidates.Published(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": list})
}

func (h *CandidateHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	candidate, err := h.candidates.Get(c.Request.Context(), id, false)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, candidate)
}

// Admin

func (h *CandidateHandler) AdminDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	candidate, err := h.candidates.Get(c.Request.Context(), id, true)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, candidate)
}

func (h *CandidateHandler) Create(c *gin.Context) {
	var in services.CandidateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	candidate, err := h.candidates.Create(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

func (h *CandidateHandler) Score(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.scores.ComputeAndStore(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, res)
}

type linkRequest struct {
	LegislatorID uint `json:"legislator_id" binding:"required"`
}

func (h *CandidateHandler) Link(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.candidates.Link(c.Request.Context(), id, req.LegislatorID)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, res)
}

func (h *CandidateHandler) Publish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	candidate, err := h.candidates.Publish(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, candidate)
}

func (h *CandidateHandler) AddPosition(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.PositionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	position, err := h.candidates.AddPosition(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, position)
}
