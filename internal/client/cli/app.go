package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/client/archive"
	"github.com/dmitrijs2005/mangareader/internal/client/catalog"
	"github.com/dmitrijs2005/mangareader/internal/client/client"
	"github.com/dmitrijs2005/mangareader/internal/client/config"
	"github.com/dmitrijs2005/mangareader/internal/client/services"
	"github.com/dmitrijs2005/mangareader/internal/client/session"
	"github.com/dmitrijs2005/mangareader/internal/filex"
	"github.com/dmitrijs2005/mangareader/internal/logging"
)

// catalogService is the read-only browsing surface used by the commands.
type catalogService interface {
	List(ctx context.Context, page int) catalog.Result
	Trending(ctx context.Context, page int) catalog.Result
	NewReleases(ctx context.Context, page int) catalog.Result
	Search(ctx context.Context, query string, page int) catalog.Result
	Get(ctx context.Context, id string) *catalog.Entry
	Chapters(ctx context.Context, animeID string, page int) []catalog.Chapter
	ChapterContent(ctx context.Context, chapterID string) *catalog.ChapterContent
}

type archiveLoader interface {
	Load(ctx context.Context, src string) (*archive.Archive, error)
}

type sessionState interface {
	Snapshot() session.Snapshot
	Subscribe(observer func()) (unsubscribe func())
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	store        sessionState
	authService  services.AuthService
	adminService services.AdminService
	catalog      catalogService
	archives     archiveLoader
	searchDelay  time.Duration
	reader       *bufio.Reader
	out          io.Writer

	mu           sync.Mutex
	status       string
	lastChapters []catalog.Chapter
	unsubscribe  func()
}

// NewApp opens the local database, restores the saved session and builds
// the API services on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	store := session.New(ctx, session.NewSQLStorage(db), logger.With("component", "session"))

	apiClient, err := client.NewHTTPClient(c.APIBaseURL,
		client.WithTokenSource(store.Token),
		client.WithLogger(logger.With("component", "http")),
		client.WithTimeout(c.RequestTimeout),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var loaderOpts []archive.LoaderOption
	s3cfg := archive.S3Config{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}
	if s3cfg.Enabled() {
		s3c, err := archive.NewS3Client(ctx, s3cfg)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		loaderOpts = append(loaderOpts, archive.WithS3(s3c))
	}

	a := &App{
		config:       c,
		logger:       logger,
		db:           db,
		store:        store,
		authService:  services.NewAuthService(apiClient, store, logger.With("component", "auth")),
		adminService: services.NewAdminService(apiClient, store, logger.With("component", "admin")),
		catalog:      catalog.NewService(apiClient, logger.With("component", "catalog")),
		archives:     archive.NewLoader(loaderOpts...),
		searchDelay:  c.SearchDebounce,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}
	a.watchSession()
	return a, nil
}

// watchSession keeps the prompt status in line with the session store.
func (a *App) watchSession() {
	a.refreshStatus()
	a.unsubscribe = a.store.Subscribe(a.refreshStatus)
}

func (a *App) refreshStatus() {
	snap := a.store.Snapshot()

	s := ""
	if snap.IsAuthenticated() {
		s = fmt.Sprintf("(%s %s)", snap.Profile.Username, snap.Profile.Role)
	}

	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close detaches from the session store and closes the database.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "error closing database", "error", err)
		}
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().IsAuthenticated()
}

func (a *App) isAdmin() bool {
	snap := a.store.Snapshot()
	return snap.IsAuthenticated() && snap.Profile.IsAdmin()
}
