package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-remote/internal/app"
	"github.com/vancomm/minesweeper-remote/internal/config"
	"github.com/vancomm/minesweeper-remote/internal/database"
	"github.com/vancomm/minesweeper-remote/internal/handlers"
	"github.com/vancomm/minesweeper-remote/internal/hub"
	"github.com/vancomm/minesweeper-remote/internal/input"
	"github.com/vancomm/minesweeper-remote/internal/layout"
	"github.com/vancomm/minesweeper-remote/internal/mines"
	"github.com/vancomm/minesweeper-remote/internal/repository"
	"github.com/vancomm/minesweeper-remote/internal/tui"
)

var (
	log = logrus.New()

	configPath string
	headless   bool
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.BoolVar(&headless, "headless", false, "run without the terminal UI")
}

func setupLogging(cfg *config.Config, withTUI bool) error {
	logLevel := logrus.InfoLevel
	if cfg.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if cfg.Log.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return err
		}
		log.AddHook(hook)
	}

	// the terminal belongs to the board
	if withTUI {
		log.SetOutput(io.Discard)
	}

	mines.Log = log
	return nil
}

func newSession(cfg *config.Config) (*mines.Session, error) {
	if cfg.Board.LayoutPath == "" {
		return mines.NewSession(cfg.Board.Params())
	}
	l, err := layout.Load(cfg.Board.LayoutPath)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"layout": l.Name,
		"board":  l.Params().Seed(),
	}).Info("using fixed layout")
	return mines.NewSession(l.Params(), mines.WithPlanter(l.Planter()))
}

func setupDatabase(ctx context.Context) *pgxpool.Pool {
	pool, migrator, err := database.ConnectAndMigrate(ctx)
	if errors.Is(err, config.ErrNoDatabase) {
		log.Info("no database configured, records disabled")
		return nil
	}
	if err != nil {
		log.WithError(err).Warn("unable to connect to db, records disabled")
		return nil
	}
	if version, dirty, err := migrator.Version(); err == nil {
		log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Debug("database schema")
	}
	return pool
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	if err := config.LoadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config: ", err)
	}

	if err := setupLogging(cfg, !headless); err != nil {
		log.Fatal("unable to set up log file: ", err)
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	session, err := newSession(cfg)
	if err != nil {
		log.Fatal("unable to create game: ", err)
	}

	g, gCtx := errgroup.WithContext(mainCtx)
	ctx, quit := context.WithCancel(gCtx)
	defer quit()

	h := hub.New()
	opts := []app.LoopOption{app.WithRenderers(h)}

	var records handlers.RecordLister
	if pool := setupDatabase(ctx); pool != nil {
		defer pool.Close()
		queries := repository.New(pool)
		records = queries

		recorder := app.NewRecorder(log, queries, app.DefaultQueueSize)
		opts = append(opts, app.WithRecords(recorder))
		g.Go(func() error {
			return recorder.Run(ctx)
		})
	}

	var screen *tui.Screen
	if !headless {
		screen, err = tui.Open()
		if err != nil {
			log.Fatal("unable to open terminal: ", err)
		}
		defer screen.Close()
		opts = append(opts, app.WithRenderers(screen))
	}

	loop := app.NewLoop(log, session, cfg.TickInterval(), opts...)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	if screen != nil {
		g.Go(func() error {
			return screen.Pump(ctx, loop.Actions(), quit)
		})
	}
	if cfg.Remote.Enabled {
		remote := input.NewRemote(cfg.Remote.Port, cfg.Remote.BaudRate, log)
		if d := cfg.Remote.RetryDelay.Duration; d > 0 {
			remote.RetryDelay = d
		}
		g.Go(func() error {
			return remote.Run(ctx, loop.Actions())
		})
	}
	if cfg.Spectate.Addr != "" {
		serveSpectators(ctx, g, cfg, loop, h, records)
	}

	if err := g.Wait(); err != nil {
		log.Printf("exit reason: %s\n", err)
	}
}

func serveSpectators(
	ctx context.Context,
	g *errgroup.Group,
	cfg *config.Config,
	loop *app.Loop,
	h *hub.Hub,
	records handlers.RecordLister,
) {
	spectate := handlers.NewSpectateHandler(
		log, h, loop.Actions(), records,
		config.NewWebSocket(cfg.Spectate.AllowedOrigins),
	)
	server := &http.Server{
		Addr:    cfg.Spectate.Addr,
		Handler: spectate.Routes(cfg.Spectate.AllowedOrigins),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	log.Infof("spectators welcome @ %s", cfg.Spectate.Addr)

	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), cfg.Spectate.ShutdownTimeout.Duration,
		)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}
