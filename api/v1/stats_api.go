package v1

import (
	"net/http"
	"strconv"

	"plumenote/internal/metrics"
	"plumenote/service"

	"github.com/gin-gonic/gin"
)

// StatsAPI serves the admin statistics endpoint. Routes using it must sit
// behind AuthMiddleware + AdminOnly.
type StatsAPI struct {
	stats *service.StatsService
}

func NewStatsAPI(s *service.StatsService) *StatsAPI {
	return &StatsAPI{stats: s}
}

// Overview returns totals, the 30-day activity series and both
// leaderboards, optionally scoped to one workspace.
func (s *StatsAPI) Overview(c *gin.Context) {
	scope := service.StatsScope{}
	if raw := c.Query("workspace_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace_id"})
			return
		}
		scope.WorkspaceID = &id
	}

	overview, cached, err := s.stats.GetOverview(c.Request.Context(), scope)
	if err != nil {
		metrics.IncStatsRequest("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get stats failed: " + err.Error()})
		return
	}
	if cached {
		metrics.IncStatsRequest("cache_hit")
	} else {
		metrics.IncStatsRequest("cache_miss")
	}
	c.JSON(http.StatusOK, overview)
}
