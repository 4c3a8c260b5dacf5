package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/helixdash/helixdash/internal/analysis"
	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/config"
	"github.com/helixdash/helixdash/internal/logging"
	"github.com/helixdash/helixdash/internal/query"
	"github.com/helixdash/helixdash/internal/services"
	"github.com/helixdash/helixdash/internal/session"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// App wires the transport client, session store, query cache and feature
// services together and drives the interactive loop.
type App struct {
	config   *config.Config
	log      logging.Logger
	sessions *session.Store
	cache    *query.Cache

	auth    *services.AuthService
	genomic *services.GenomicService
	uploads *services.UploadController
	prs     *services.PRSService
	mri     *services.MRIService
	chats   *services.ChatService
	storage *services.StorageService
	tracker *analysis.Tracker

	chat *services.ChatSession

	Mode   Mode
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewConsoleLogger(c.Environment)

	sessions := session.NewStore()
	client := api.NewHTTPClient(c.APIEndpointURL, c.RequestTimeout, sessions, log)

	cache, err := query.OpenCache(c.CacheDBPath)
	if err != nil {
		// The cache is an optimization; run without persistence when the
		// database cannot be opened.
		log.Warn(context.Background(), "query cache unavailable", "path", c.CacheDBPath, "err", err)
		cache = nil
	}
	runner := query.NewRunner(cache, log)

	genomic := services.NewGenomicService(client, runner, log)

	return &App{
		config:   c,
		log:      log,
		sessions: sessions,
		cache:    cache,
		auth:     services.NewAuthService(client, sessions, log),
		genomic:  genomic,
		uploads:  services.NewUploadController(genomic),
		prs:      services.NewPRSService(client, runner),
		mri:      services.NewMRIService(client, runner),
		chats:    services.NewChatService(client, log),
		storage:  services.NewStorageService(client, c.StorageEndpointURL, log),
		tracker:  analysis.NewTracker(client, c.AnalysisPollInterval, log),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Authenticated()
}

func (a *App) getStatus() string {
	s := ""
	if user, ok := a.sessions.Current(); ok {
		s = user.Email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the connectivity watcher and the interactive loop, blocking
// until the user exits or ctx is canceled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Println("Welcome to helixdash CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close releases the query cache database.
func (a *App) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
}

// StartOnlineStatusWatcher probes backend liveness on the given interval and
// flips Mode between online and offline accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.auth.Ping(pctx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
