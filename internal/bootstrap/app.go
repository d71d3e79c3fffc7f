package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "truthcheck-backend/internal/auth"
	"truthcheck-backend/internal/engine"
	"truthcheck-backend/internal/queue"
	"truthcheck-backend/internal/quota"
	"truthcheck-backend/internal/reports"
	"truthcheck-backend/internal/shared/config"
	"truthcheck-backend/internal/shared/server"
	"truthcheck-backend/internal/shared/storage/db"
	"truthcheck-backend/internal/shared/storage/object"
	localstore "truthcheck-backend/internal/shared/storage/object/local"
	s3store "truthcheck-backend/internal/shared/storage/object/s3"
	"truthcheck-backend/internal/submissions"
	"truthcheck-backend/internal/users"
)

// App holds shared dependencies for the API and worker processes.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client
	Engine engine.Engine

	SubmissionsRepo    submissions.Repo
	ReportsRepo        reports.Repo
	UsersRepo          users.Repo
	SubmissionsService *submissions.Service
	QuotaService       *quota.Service
	UsersService       *users.Service

	SubmissionHandler *submissions.Handler
	ReportHandler     *reports.Handler
	QuotaHandler      *quota.Handler
	UserHandler       *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
		Engine: buildEngine(cfg),
	}

	buildServices(app)

	if config.IsDevLike(cfg.Env) {
		seedSampleReport(ctx, app.ReportsRepo)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		SubmissionHandler: app.SubmissionHandler,
		ReportHandler:     app.ReportHandler,
		QuotaHandler:      app.QuotaHandler,
		UserHandler:       app.UserHandler,
		GoogleAuth:        app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("TC_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildEngine(cfg config.Config) engine.Engine {
	if strings.TrimSpace(cfg.EngineBaseURL) == "" {
		log.Printf("bootstrap: ENGINE_BASE_URL empty; analysis engine not configured")
		return engine.Placeholder{}
	}
	httpEngine, err := engine.NewHTTPEngine(cfg.EngineBaseURL, cfg.EngineAPIKey)
	if err != nil {
		log.Printf("bootstrap: engine client init failed; analysis engine not configured: %v", err)
		return engine.Placeholder{}
	}
	return httpEngine
}

func buildServices(app *App) {
	var submissionsRepo submissions.Repo
	var reportsRepo reports.Repo
	var usersRepo users.Repo
	var quotaSvc *quota.Service

	if app.DB != nil {
		submissionsRepo = &submissions.PGRepo{DB: app.DB}
		reportsRepo = &reports.PGRepo{DB: app.DB}
		usersRepo = &users.PGRepo{DB: app.DB}
		quotaSvc = quota.NewPostgresService(quota.NewPGStore(app.DB))
	} else {
		submissionsRepo = submissions.NewMemoryRepo()
		reportsRepo = reports.NewMemoryRepo()
		usersRepo = users.NewMemoryRepo()
		quotaSvc = quota.NewService()
	}

	submissionSvc := &submissions.Service{
		Repo:          submissionsRepo,
		Reports:       reportsRepo,
		Engine:        app.Engine,
		Quota:         quotaSvc,
		Jobs:          app.Queue,
		EngineTimeout: app.Config.EngineTimeout,
	}

	userSvc := users.NewService(usersRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.SubmissionsRepo = submissionsRepo
	app.ReportsRepo = reportsRepo
	app.UsersRepo = usersRepo
	app.SubmissionsService = submissionSvc
	app.QuotaService = quotaSvc
	app.UsersService = userSvc
	app.SubmissionHandler = submissions.NewHandler(submissionSvc, app.Store)
	app.ReportHandler = reports.NewHandler(reportsRepo)
	app.QuotaHandler = quota.NewHandler(quotaSvc)
	app.UserHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc
}

// seedSampleReport makes a deterministic report available in dev so the UI
// can render without a configured engine.
func seedSampleReport(ctx context.Context, repo reports.Repo) {
	sample := reports.SampleReport(time.Now().UTC())
	if err := repo.Create(ctx, sample); err != nil {
		log.Printf("bootstrap: seed sample report: %v", err)
	}
}

var errDatabaseRequired = databaseRequiredError{}

type databaseRequiredError struct{}

func (databaseRequiredError) Error() string { return "DATABASE_URL is required" }
