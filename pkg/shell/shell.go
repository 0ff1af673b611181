package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Neev4n/dirshell/internal/fsys"
)

// exit error
var ErrExit = errors.New("exit")

// Shell is the session: it owns the current directory and is the only
// mutable state of the REPL.
type Shell struct {
	in       *bufio.Reader
	Out      io.Writer
	Err      io.Writer
	fs       fsys.FileSystem
	cwd      string
	parser   Parser
	handlers []RedirectionHandler
	logger   *zap.Logger
}

type Option func(*Shell)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// New creates a session rooted at cwd, which must be an existing directory
// of fs.
func New(reader io.Reader, out, errw io.Writer, fs fsys.FileSystem, cwd string, opts ...Option) *Shell {
	s := &Shell{
		in:       bufio.NewReader(reader),
		Out:      out,
		Err:      errw,
		fs:       fs,
		cwd:      cwd,
		parser:   NewDefaultParser(),
		handlers: defaultRedirectionHandlers(),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cwd returns the current directory.
func (s *Shell) Cwd() string {
	return s.cwd
}

func (s *Shell) prompt() string {
	return s.cwd + "> "
}

// Run reads and executes lines until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.logger.Info("session started", zap.String("cwd", s.cwd))
	defer s.logger.Info("session ended", zap.String("cwd", s.cwd))

	for {
		fmt.Fprint(s.Out, s.prompt())

		line, readErr := s.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			fmt.Fprintln(s.Err, "builtin error:", err)
		}

		if readErr != nil {
			// end of input
			fmt.Fprintln(s.Out)
			return nil
		}
	}
}

// Execute runs a single input line. It returns ErrExit for the exit
// command; every other failure is reported on the console and swallowed.
func (s *Shell) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	tokens, err := s.parser.Parse(line)
	if err != nil {
		fmt.Fprintln(s.Err, "parse error:", err)
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}

	parsed := ParseRedirections(tokens)
	if len(parsed.Args) == 0 {
		fmt.Fprintln(s.Err, "parse error: missing command")
		return nil
	}

	cmd, err := ParseCommand(parsed.Args)
	if errors.Is(err, ErrMissingArgument) {
		fmt.Fprintln(s.Err, "Missing argument for command: "+cmd.Name)
		return nil
	}

	ioBindings := IOBindings{Stdout: s.Out, Stderr: s.Err}
	cleanups, err := s.applyRedirections(ctx, parsed.Redirections, &ioBindings)
	defer func() {
		for _, cleanup := range cleanups {
			if err := cleanup(); err != nil {
				fmt.Fprintln(s.Err, "redirect error:", err)
			}
		}
	}()
	if err != nil {
		fmt.Fprintln(s.Err, "redirect error:", err)
		return nil
	}

	start := time.Now()
	results, err := s.dispatch(ctx, cmd, ioBindings)
	s.logger.Debug("command executed",
		zap.Stringer("verb", cmd.Verb),
		zap.Int("args", len(cmd.Args)),
		zap.Bool("ok", results.OK()),
		zap.Int("failed", results.Failed()),
		zap.Duration("duration", time.Since(start)),
	)
	return err
}

func (s *Shell) applyRedirections(ctx context.Context, specs []RedirectionSpec, ioBindings *IOBindings) ([]func() error, error) {
	var cleanups []func() error

	for _, spec := range specs {
		handler := s.handlerFor(spec.Operator)
		if handler == nil {
			return cleanups, fmt.Errorf("unsupported redirection %q", spec.Operator)
		}
		if err := handler.Validate(spec); err != nil {
			return cleanups, err
		}

		spec.Target = Resolve(s.cwd, spec.Target)
		cleanup, err := handler.Apply(ctx, spec, ioBindings, s.fs)
		if err != nil {
			return cleanups, err
		}
		cleanups = append(cleanups, cleanup)
	}

	return cleanups, nil
}

func (s *Shell) handlerFor(operator string) RedirectionHandler {
	for _, handler := range s.handlers {
		if handler.CanHandle(operator) {
			return handler
		}
	}
	return nil
}

// dispatch runs cmd and returns one outcome per argument it acted on.
func (s *Shell) dispatch(ctx context.Context, cmd Command, io IOBindings) (Results, error) {
	switch cmd.Verb {
	case VerbCd:
		return single(cmd.Arg(0), s.cd(ctx, io, cmd.Arg(0))), nil
	case VerbPwd:
		fmt.Fprintln(io.Stdout, s.cwd)
		return nil, nil
	case VerbLs:
		s.ls(ctx, io, ParseListMode(cmd.Arg(0)))
		return nil, nil
	case VerbMkdir:
		return s.mkdir(ctx, io, cmd.Args), nil
	case VerbRmdir:
		return single(cmd.Arg(0), s.rmdir(ctx, io, cmd.Arg(0))), nil
	case VerbTouch:
		return single(cmd.Arg(0), s.touch(ctx, io, cmd.Arg(0))), nil
	case VerbMv:
		return s.mv(ctx, io, cmd.Args), nil
	case VerbRm:
		return s.rm(ctx, io, cmd.Args), nil
	case VerbCat:
		return s.cat(ctx, io, cmd.Args), nil
	case VerbHelp:
		return single(cmd.Arg(0), s.help(io, cmd.Arg(0))), nil
	case VerbExit:
		return nil, ErrExit
	case VerbUnknown:
		fmt.Fprintln(io.Stderr, "Unknown command: "+cmd.Name)
		return single(cmd.Name, fmt.Errorf("%s: unknown command", cmd.Name)), nil
	}

	return nil, fmt.Errorf("no handler for verb %d", cmd.Verb)
}
