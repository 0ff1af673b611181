package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Neev4n/dirshell/internal/config"
	"github.com/Neev4n/dirshell/internal/fsys"
	"github.com/Neev4n/dirshell/internal/logging"
	"github.com/Neev4n/dirshell/pkg/shell"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if err := logging.Init(cfg.Log); err != nil {
		log.Fatal(err)
	}
	defer logging.Sync()

	ctx := context.Background()

	fs, cwd, err := openFileSystem(ctx, cfg)
	if err != nil {
		logging.L().Error("startup failed", zap.Error(err))
		log.Fatal(err)
	}

	logger, _ := logging.ForSession()
	s := shell.New(os.Stdin, os.Stdout, os.Stderr, fs, cwd,
		shell.WithLogger(logger.With(zap.String("backend", cfg.Backend))))

	if err := s.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

// openFileSystem builds the configured backend and the session's starting
// directory, which must already exist there.
func openFileSystem(ctx context.Context, cfg *config.Config) (fsys.FileSystem, string, error) {
	var fs fsys.FileSystem
	switch cfg.Backend {
	case config.BackendMemory:
		fs = fsys.NewMemory()
	case config.BackendAFS:
		fs = fsys.NewAFS(nil)
	default:
		fs = fsys.NewOS()
	}

	cwd := cfg.StartDir
	if cfg.Backend == config.BackendMemory {
		// the sandbox starts empty, so its start directory is created on demand
		cwd = shell.Resolve("/", cwd)
		if err := fs.MkdirAll(ctx, cwd); err != nil {
			return nil, "", err
		}
	} else {
		abs, err := filepath.Abs(cwd)
		if err != nil {
			return nil, "", fmt.Errorf("find working directory: %w", err)
		}
		cwd = abs
	}

	if !fsys.IsDir(ctx, fs, cwd) {
		return nil, "", fmt.Errorf("start directory %s: %w", cwd, fsys.ErrNotDirectory)
	}
	return fs, cwd, nil
}
