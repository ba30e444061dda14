package http

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/readonly"
	"github.com/mrlokans/bookshelf/internal/security"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

// views renders HTML pages with the values every layout needs.
type views struct {
	sessions *sessions.Manager
	version  string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"rating": formatRating,
	}
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}

func (v views) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFField"] = security.Field(c)
	data["ReadOnly"] = c.GetBool(readonly.ContextKeyReadOnly)
	data["Version"] = v.version
	if v.sessions != nil {
		if flash, ok := v.sessions.PopFlash(c.Request.Context()); ok {
			data["Flash"] = flash
		}
	}
	c.HTML(status, name, data)
}

// flash stores a message for the page shown after the redirect.
func (v views) flash(c *gin.Context, kind sessions.FlashKind, message string) {
	if v.sessions == nil {
		return
	}
	v.sessions.SetFlash(c.Request.Context(), kind, message)
}

func (v views) redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (v views) notFound(c *gin.Context, message string) {
	v.render(c, http.StatusNotFound, "not_found", gin.H{"Message": message})
}

// internalError logs err and renders a generic error page.
func (v views) internalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	v.render(c, http.StatusInternalServerError, "error", gin.H{
		"Message": "Something went wrong. Please try again.",
	})
}
