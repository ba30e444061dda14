package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ActivityReader returns the most recent activity events.
type ActivityReader interface {
	Recent(limit int) ([]entities.ActivityEvent, error)
}

type ActivityController struct {
	reader ActivityReader
	views  views
}

func NewActivityController(reader ActivityReader, v views) *ActivityController {
	return &ActivityController{reader: reader, views: v}
}

// ActivityPage renders the activity log.
// GET /activity
func (ac *ActivityController) ActivityPage(c *gin.Context) {
	events, err := ac.reader.Recent(parseLimit(c))
	if err != nil {
		ac.views.internalError(c, err, "load activity")
		return
	}

	ac.views.render(c, http.StatusOK, "activity", gin.H{
		"Events": events,
	})
}

// GetActivity returns recent activity events as JSON.
// GET /api/activity?limit=
func (ac *ActivityController) GetActivity(c *gin.Context) {
	events, err := ac.reader.Recent(parseLimit(c))
	if err != nil {
		respondInternalError(c, err, "load activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultActivityLimit)))
	if err != nil || limit < 1 || limit > maxActivityLimit {
		return defaultActivityLimit
	}
	return limit
}
