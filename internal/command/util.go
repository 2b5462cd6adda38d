package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"golang.org/x/term"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/auth"
	"github.com/sakif/coursehub/internal/config"
	sqliteRepo "github.com/sakif/coursehub/internal/repository/sqlite"
	"github.com/sakif/coursehub/internal/server"
	"github.com/sakif/coursehub/internal/service"
)

type configKey struct{}

func loadConfig(ctx context.Context) (config.Config, *slog.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(config.Config)
	if !ok {
		return config.Config{}, nil, errors.New("configuration resolution failed")
	}
	return cfg, slog.Default(), nil
}

// services are the pieces the admin commands drive directly, without HTTP.
type services struct {
	db      *sqliteRepo.DB
	users   *service.UserService
	courses *service.CourseService
}

func openServices(ctx context.Context, cfg config.Config, logger *slog.Logger) (*services, error) {
	db, err := server.OpenDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	passwords, err := auth.NewPasswordService(cfg.BcryptCost)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &services{
		db:      db,
		users:   service.NewUserService(db, passwords, logger),
		courses: service.NewCourseService(db, logger),
	}, nil
}

// prompt writes msg to out when in is an interactive terminal, then reads one
// line from in. With mask set, a terminal doesn't echo what is typed.
func prompt(in io.Reader, out io.Writer, msg string, mask bool) ([]byte, error) {
	f, isFile := in.(*os.File)
	if isFile && term.IsTerminal(int(f.Fd())) {
		if _, err := io.WriteString(out, msg); err != nil {
			return nil, err
		}
		if mask {
			line, err := term.ReadPassword(int(f.Fd()))
			// ReadPassword swallows the newline, put it back for the next prompt
			_, _ = io.WriteString(out, "\n")
			return line, err
		}
	}
	return readLine(in)
}

// readLine reads up to the next line ending one byte at a time, so that no
// input meant for a following prompt is buffered away.
func readLine(in io.Reader) ([]byte, error) {
	var buf [1]byte
	var ret []byte

	for {
		n, err := in.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(ret) > 0 {
					ret = ret[:len(ret)-1]
				}
			case '\n':
				return ret, nil
			case '\r':
				// CRLF line endings, the '\n' follows
			default:
				ret = append(ret, buf[0])
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(ret) > 0 {
				return ret, nil
			}
			return ret, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

// printViolations lists validation messages one per line, the way the API
// returns them in "errors".
func printViolations(w io.Writer, err error) {
	for _, msg := range apperror.Messages(err) {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}
