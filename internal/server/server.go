// Package server wires handlers, middleware and routes, and runs the HTTP
// server.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config ─→ sqlite.DB ─┬→ UserService   ─→ UserHandler
//	                            ├→ CourseService ─→ CourseHandler
//	                            └→ Authenticator ─→ auth.Middleware
//
// This is the composition root: nothing below this package constructs its
// own dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/coursehub/internal/auth"
	"github.com/sakif/coursehub/internal/config"
	"github.com/sakif/coursehub/internal/handler"
	"github.com/sakif/coursehub/internal/middleware"
	sqliteRepo "github.com/sakif/coursehub/internal/repository/sqlite"
	"github.com/sakif/coursehub/internal/service"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 15 * time.Second
	WriteTimeout      = 15 * time.Second
	IdleTimeout       = 60 * time.Second
)

// Server owns the database handle and the router built on it.
type Server struct {
	router http.Handler
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and builds the router. The caller must Run or
// Close the returned Server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := OpenDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	passwords, err := auth.NewPasswordService(cfg.BcryptCost)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Server{
		router: NewRouter(db, passwords, logger),
		config: cfg,
		logger: logger,
		db:     db,
	}, nil
}

// OpenDB opens the configured SQLite database, creating its directory first.
// The CLI commands that bypass HTTP use it too.
func OpenDB(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sqliteRepo.DB, error) {
	if cfg.DBPath != ":memory:" {
		// 0755 = owner rwx, others r-x
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqliteRepo.New(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// NewRouter builds the complete HTTP handler on db.
//
// ROUTES:
//
//	GET    /                   welcome message
//	GET    /api/users          current user's profile   (auth)
//	POST   /api/users          register
//	GET    /api/courses        list courses
//	GET    /api/courses/{id}   one course
//	POST   /api/courses        create course            (auth)
//	PUT    /api/courses/{id}   update course            (auth, owner)
//	DELETE /api/courses/{id}   delete course            (auth, owner)
//
// MIDDLEWARE ORDER:
//  1. RequestID, so everything after can log it
//  2. RealIP
//  3. Logger, which sees the final status, including recovered panics
//  4. Recover
func NewRouter(db *sqliteRepo.DB, passwords *auth.PasswordService, logger *slog.Logger) http.Handler {
	userService := service.NewUserService(db, passwords, logger)
	courseService := service.NewCourseService(db, logger)

	users := handler.NewUserHandler(userService, logger)
	courses := handler.NewCourseHandler(courseService, logger)

	authn := auth.NewAuthenticator(db, passwords)
	requireUser := auth.NewMiddleware(authn, handler.ErrorWriter(logger), logger).Require

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger, handler.MsgInternal))

	r.NotFound(handler.HandleNotFound)
	r.MethodNotAllowed(handler.HandleMethodNotAllowed)

	r.Get("/", handler.HandleWelcome)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", requireUser(users.HandleCurrent))
		r.Post("/users", users.HandleRegister)

		r.Get("/courses", courses.HandleList)
		r.Get("/courses/{id}", courses.HandleGet)
		r.Post("/courses", requireUser(courses.HandleCreate))
		r.Put("/courses/{id}", requireUser(courses.HandleUpdate))
		r.Delete("/courses/{id}", requireUser(courses.HandleDelete))
	})

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Run serves until ctx is canceled, then shuts down gracefully and closes
// the database. In-flight requests get config.ShutdownTimeout to finish.
func (s *Server) Run(ctx context.Context) (runErr error) {
	defer func() {
		if err := s.db.Close(); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}()

	listener, err := Listen(ctx, s.config.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Addr(), err)
	}

	grp, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{Handler: s.router, IdleTimeout: IdleTimeout}

	s.logger.InfoContext(ctx, "server starting",
		slog.String("address", listener.Addr().String()),
		slog.String("database", s.config.DBPath),
	)
	Serve(ctx, grp, srv, listener, s.config.ShutdownTimeout)

	if err := grp.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

// Listen creates a TCP listener on addr. ":0" picks a free port.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Serve starts srv on listener inside grp and shuts it down when ctx is
// canceled.
func Serve(
	ctx context.Context,
	grp *errgroup.Group,
	srv *http.Server,
	listener net.Listener,
	shutdownTimeout time.Duration,
) {
	srv.ReadHeaderTimeout = ReadHeaderTimeout
	srv.ReadTimeout = ReadTimeout
	srv.WriteTimeout = WriteTimeout

	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
