package handlers

import (
	"hemicycle/internal/services"

	"github.com/gin-gonic/gin"
)

type BallotHandler struct {
	ballots *services.BallotService
}

func NewBallotHandler(ballots *services.BallotService) *BallotHandler {
	return &BallotHandler{ballots: ballots}
}

func (h *BallotHandler) List(c *gin.Context) {
	chamber, ok := chamberFromQuery(c)
	if !ok {
		return
	}
	page, err := h.ballots.List(c.Request.Context(), chamber, pageFromQuery(c))
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, page)
}

func (h *BallotHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ballot, err := h.ballots.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, ballot)
}

type replaceVotesRequest struct {
	Votes []services.VoteInput `json:"votes" binding:"dive"`
}

// ReplaceVotes re-syncs the individual votes of a ballot (admin).
func (h *BallotHandler) ReplaceVotes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req replaceVotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.ballots.ReplaceVotes(c.Request.Context(), id, req.Votes)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, gin.H{"ballot_id": id, "votes": n})
}
