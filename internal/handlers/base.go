package handlers

import (
	"errors"
	"net/http"

	"hemicycle/internal/services"
	"hemicycle/internal/utils"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// handleError maps service errors onto HTTP statuses. Unexpected errors are
// attached to the context for the request logger and hidden from clients.
func handleError(c *gin.Context, err error) {
	var compErr *services.ComputationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrInvalidState):
		RespondError(c, http.StatusConflict, "invalid_state", err)
	case errors.Is(err, services.ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.As(err, &compErr):
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "computation_failed", errors.New("score computation failed"))
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func badRequest(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, "invalid_input", err)
}

// paramID reads a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		badRequest(c, errors.New("invalid "+name))
	}
	return id, ok
}

func pageFromQuery(c *gin.Context) utils.Page {
	return utils.NewPage(c.Query("page"), c.Query("per_page"))
}
