package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"hemicycle/internal/models"
	"hemicycle/internal/services"
	"hemicycle/internal/utils"

	"github.com/gin-gonic/gin"
)

// MaxCompare bounds how many legislators one comparison may request.
const MaxCompare = 10

type LegislatorHandler struct {
	legislators *services.LegislatorService
	stats       *services.StatsService
}

func NewLegislatorHandler(legislators *services.LegislatorService, stats *services.StatsService) *LegislatorHandler {
	return &LegislatorHandler{legislators: legislators, stats: stats}
}

func chamberFromQuery(c *gin.Context) (models.Chamber, bool) {
	chamber := models.Chamber(c.Query("chamber"))
	if chamber != "" && !chamber.Valid() {
		badRequest(c, fmt.Errorf("unknown chamber %q", chamber))
		return "", false
	}
	return chamber, true
}

// Groups 列出政治团体
func (h *LegislatorHandler) Groups(c *gin.Context) {
	chamber, ok := chamberFromQuery(c)
	if !ok {
		return
	}
	groups, err := h.legislators.Groups(c.Request.Context(), chamber)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": groups})
}

// List supports ?chamber=, ?group=, ?active= and pagination.
func (h *LegislatorHandler) List(c *gin.Context) {
	chamber, ok := chamberFromQuery(c)
	if !ok {
		return
	}
	filter := services.LegislatorFilter{Chamber: chamber}
	if g := c.Query("group"); g != "" {
		id, ok := utils.ParseID(g)
		if !ok {
			badRequest(c, errors.New("invalid group"))
			return
		}
		filter.GroupID = id
	}
	if a := c.Query("active"); a != "" {
		active, err := strconv.ParseBool(a)
		if err != nil {
			badRequest(c, errors.New("invalid active flag"))
			return
		}
		filter.Active = &active
	}

	page, err := h.legislators.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, page)
}

func (h *LegislatorHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	leg, err := h.legislators.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, leg)
}

func (h *LegislatorHandler) Stats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	stats, err := h.stats.ComputeStats(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// Compare returns the stats of ?ids=1,2,3 in the requested order.
func (h *LegislatorHandler) Compare(c *gin.Context) {
	ids, ok := utils.ParseIDList(c.Query("ids"))
	if !ok {
		badRequest(c, errors.New("ids must be a comma-separated list of legislator ids"))
		return
	}
	if len(ids) > MaxCompare {
		badRequest(c, fmt.Errorf("at most %d legislators can be compared", MaxCompare))
		return
	}
	stats, err := h.stats.Compare(c.Request.Context(), ids)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": stats})
}
