package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/security"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(security.Headers())
	if cfg.SecureCookies {
		router.Use(security.StrictTransportSecurity())
	}

	// CSRF must run before the session middleware: it replaces the request,
	// and the session context has to be added on top of it.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRF(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
	}

	if cfg.ReadOnly != nil {
		router.Use(cfg.ReadOnly.InjectContext())
		router.Use(cfg.ReadOnly.Handler())
	}

	tmpl := template.Must(template.New("").Funcs(templateFuncs()).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	v := views{sessions: cfg.Sessions, version: cfg.Version}

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", healthController.Ping)

	catalogController := NewCatalogController(cfg.Catalog, v)
	router.GET("/", catalogController.Index)
	router.GET("/add", catalogController.AddForm)
	router.POST("/add", catalogController.AddBook)
	router.GET("/edit", catalogController.EditForm)
	router.POST("/edit", catalogController.EditBook)
	router.GET("/delete", catalogController.DeleteBook)
	router.POST("/delete", catalogController.DeleteBook)

	booksController := NewBooksController(cfg.Catalog)
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/:id", booksController.GetBook)

	if cfg.Activity != nil {
		activityController := NewActivityController(cfg.Activity, v)
		router.GET("/activity", activityController.ActivityPage)
		router.GET("/api/activity", activityController.GetActivity)
	}

	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks, cfg.ActivityRetentionDays)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	router.NoRoute(func(c *gin.Context) {
		v.notFound(c, "Page not found")
	})

	return router
}
