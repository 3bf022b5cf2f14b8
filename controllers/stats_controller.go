package controllers

import (
	"net/http"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Stats *services.StatsService
}

// constructor
func NewStatsController(ss *services.StatsService) *StatsController {
	return &StatsController{Stats: ss}
}

// PortionSummary reports resolution-source breakdown for ?from=YYYY-MM-DD
// &to=YYYY-MM-DD, defaulting to the last 30 days.
func (sc *StatsController) PortionSummary(c *gin.Context) {
	uid := c.GetUint("userID")

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		// inclusive end date
		to = t.AddDate(0, 0, 1)
	}

	stats, err := sc.Stats.Summary(c.Request.Context(), uid, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
