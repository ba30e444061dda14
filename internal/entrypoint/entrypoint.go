package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikestefanello/backlite"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookshelf/internal/activity"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	activityrepo "github.com/mrlokans/bookshelf/internal/database/activity"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/exporters"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/readonly"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/security"
	"github.com/mrlokans/bookshelf/internal/sessions"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs srv until ctx is cancelled, then shuts it down within timeout.
// onShutdown runs before the listener is closed.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, onShutdown ShutdownFunc) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutdown Server, waiting %v before killing", timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if onShutdown != nil {
			onShutdown(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("Server exiting")
	return nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogLevel(database.ParseLogLevel(cfg.Database.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	activityService := activity.NewService(activityrepo.NewRepository(db.DB))
	catalogService := catalog.NewService(books.NewRepository(db.DB), activityService)

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := sessions.NewManager(sqlDB, cfg.Sessions, cfg.Security.SecureCookies)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	defer sessionManager.Close()

	var csrfSecret []byte
	if cfg.Security.CSRFEnabled {
		secret, generated, err := security.ResolveSecret(cfg.Security.CSRFSecret)
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		if generated {
			log.Printf("Generated CSRF secret (set CSRF_SECRET to keep forms valid across restarts)")
		}
		csrfSecret = secret
	} else {
		log.Printf("WARNING: CSRF protection is disabled")
	}

	readOnly := readonly.NewMiddleware(cfg.UI.ReadOnly, "/delete")
	if readOnly.IsEnabled() {
		log.Printf("Read-only mode enabled - write operations will be blocked")
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:               catalogService,
		Activity:              activityService,
		Database:              db,
		ActivityRetentionDays: cfg.Activity.RetentionDays,
		Sessions:              sessionManager,
		CSRFSecret:            csrfSecret,
		SecureCookies:         cfg.Security.SecureCookies,
		ReadOnly:              readOnly,
		TemplatesPath:         cfg.UI.TemplatesPath,
		Version:               version,
	}

	var taskClient *tasks.Client
	var sched *scheduler.Scheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewSnapshotCatalogQueue(catalogService, exporters.NewSnapshotExporter(cfg.Snapshots.Dir, cfg.Snapshots.Keep)),
			tasks.NewCleanupActivityQueue(activityService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		sched = scheduler.New(taskClient)
		if err := addJobs(sched, cfg); err != nil {
			log.Fatalf("Failed to schedule jobs: %v", err)
		}
		sched.Start(taskCtx)

		routerCfg.Tasks = taskClient
	} else {
		log.Printf("Task queue disabled: snapshots and activity cleanup will not run")
	}

	router := http_controllers.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	onShutdown := func(ctx context.Context) {
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	if err := Serve(ctx, srv, timeout, onShutdown); err != nil {
		log.Printf("Server error: %v", err)
	}
}

func addJobs(sched *scheduler.Scheduler, cfg *config.Config) error {
	jobs := []scheduler.Job{
		{
			Name:     "snapshot_catalog",
			Schedule: cfg.Snapshots.Schedule,
			Task:     func() backlite.Task { return tasks.SnapshotCatalogTask{Reason: "scheduled"} },
		},
		{
			Name:     "cleanup_activity_events",
			Schedule: cfg.Activity.CleanupSchedule,
			Task: func() backlite.Task {
				return tasks.CleanupActivityTask{RetentionDays: cfg.Activity.RetentionDays}
			},
		},
	}

	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return err
		}
		if job.Schedule != "" {
			log.Printf("Scheduler: %s runs %s", job.Name, scheduler.Describe(job.Schedule))
		}
	}
	return nil
}
