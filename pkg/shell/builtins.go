package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Neev4n/dirshell/internal/fsys"
)

func (s *Shell) cd(ctx context.Context, io IOBindings, target string) error {
	dir := Resolve(s.cwd, target)

	if !fsys.IsDir(ctx, s.fs, dir) {
		fmt.Fprintln(io.Stderr, "Directory not found: "+target)
		return fmt.Errorf("cd %s: %w", target, fsys.ErrNotFound)
	}

	s.cwd = dir
	return nil
}

func (s *Shell) ls(ctx context.Context, io IOBindings, mode ListMode) {
	names := List(ctx, s.fs, s.cwd, mode)
	s.logger.Debug("listing directory",
		zap.String("dir", s.cwd),
		zap.Stringer("mode", mode),
		zap.Int("entries", len(names)),
	)

	for _, name := range names {
		fmt.Fprintln(io.Stdout, name)
	}
}

func (s *Shell) mkdir(ctx context.Context, io IOBindings, names []string) Results {
	var results Results

	for _, name := range names {
		err := s.fs.Mkdir(ctx, Resolve(s.cwd, name))
		switch {
		case err == nil:
			fmt.Fprintln(io.Stdout, "Directory created: "+name)
		case errors.Is(err, fsys.ErrAlreadyExists):
			fmt.Fprintln(io.Stderr, "Directory already exists: "+name)
		default:
			s.ioFailure("mkdir", name, err)
			fmt.Fprintln(io.Stderr, "Failed to create directory: "+name)
		}
		results.add(name, err)
	}

	return results
}

func (s *Shell) rmdir(ctx context.Context, io IOBindings, name string) error {
	dir := Resolve(s.cwd, name)

	info, err := s.fs.Stat(ctx, dir)
	if err != nil {
		fmt.Fprintln(io.Stderr, "Directory does not exist: "+name)
		return err
	}
	if !info.IsDir() {
		fmt.Fprintln(io.Stderr, "Not a directory: "+name)
		return fmt.Errorf("rmdir %s: %w", name, fsys.ErrNotDirectory)
	}

	err = s.fs.Remove(ctx, dir)
	switch {
	case err == nil:
		fmt.Fprintln(io.Stdout, "Directory removed: "+name)
	case errors.Is(err, fsys.ErrNotEmpty):
		fmt.Fprintln(io.Stderr, "Directory is not empty: "+name)
	default:
		s.ioFailure("rmdir", name, err)
		fmt.Fprintln(io.Stderr, "Failed to delete directory: "+name)
	}
	return err
}

func (s *Shell) touch(ctx context.Context, io IOBindings, name string) error {
	path := Resolve(s.cwd, name)

	parent := filepath.Dir(path)
	if !fsys.IsDir(ctx, s.fs, parent) {
		if err := s.fs.MkdirAll(ctx, parent); err != nil {
			s.ioFailure("touch", parent, err)
			fmt.Fprintln(io.Stderr, "Failed to create directory: "+parent)
			return err
		}
	}

	if err := s.fs.Touch(ctx, path); err != nil {
		s.ioFailure("touch", name, err)
		fmt.Fprintln(io.Stderr, "File could not be created: "+name)
		return err
	}
	return nil
}

// mv treats the last argument as the destination. Every source is tried
// even when an earlier one fails.
func (s *Shell) mv(ctx context.Context, io IOBindings, args []string) Results {
	var results Results

	dest := Resolve(s.cwd, args[len(args)-1])
	intoDir := fsys.IsDir(ctx, s.fs, dest)

	for _, name := range args[:len(args)-1] {
		src := Resolve(s.cwd, name)

		if ok, _ := s.fs.Exists(ctx, src); !ok {
			fmt.Fprintf(io.Stderr, "mv: cannot stat '%s': No such file or directory\n", name)
			results.add(name, fmt.Errorf("mv %s: %w", name, fsys.ErrNotFound))
			continue
		}

		target := dest
		if intoDir {
			target = filepath.Join(dest, filepath.Base(src))
		}
		if target == src {
			results.add(name, nil)
			continue
		}

		err := s.fs.Rename(ctx, src, target)
		if err != nil {
			s.ioFailure("mv", name, err)
			fmt.Fprintf(io.Stderr, "mv: %s: %v\n", name, err)
		}
		results.add(name, err)
	}

	return results
}

// rm deletes files; directories are left to rmdir.
func (s *Shell) rm(ctx context.Context, io IOBindings, names []string) Results {
	var results Results

	for _, name := range names {
		path := Resolve(s.cwd, name)

		var err error
		if fsys.IsDir(ctx, s.fs, path) {
			err = fmt.Errorf("rm %s: %w", name, fsys.ErrIsDirectory)
		} else if err = s.fs.Remove(ctx, path); err != nil && !errors.Is(err, fsys.ErrNotFound) {
			s.ioFailure("rm", name, err)
		}
		if err != nil {
			fmt.Fprintln(io.Stderr, "Failed to delete file: "+name)
		}
		results.add(name, err)
	}

	return results
}

// cat prints each file in order; a failing file is reported inline and the
// rest are still printed.
func (s *Shell) cat(ctx context.Context, io IOBindings, names []string) Results {
	var results Results

	for _, name := range names {
		path := Resolve(s.cwd, name)

		info, err := s.fs.Stat(ctx, path)
		switch {
		case err != nil:
			fmt.Fprintln(io.Stderr, "cat: "+name+": No such file")
		case info.IsDir():
			err = fmt.Errorf("cat %s: %w", name, fsys.ErrIsDirectory)
			fmt.Fprintln(io.Stderr, "cat: "+name+": Is a directory")
		default:
			if err = s.printFile(ctx, io, path); err != nil {
				s.ioFailure("cat", name, err)
				fmt.Fprintf(io.Stderr, "cat: %s: %v\n", name, err)
			}
		}
		results.add(name, err)
	}

	return results
}

func (s *Shell) printFile(ctx context.Context, io IOBindings, path string) error {
	f, err := s.fs.Open(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fmt.Fprintln(io.Stdout, scanner.Text())
	}
	return scanner.Err()
}

func (s *Shell) help(io IOBindings, topic string) error {
	if topic == "" {
		fmt.Fprint(io.Stdout, HelpText())
		return nil
	}

	spec, ok := specFor(ParseVerb(topic))
	if !ok {
		fmt.Fprintln(io.Stderr, "Unknown command: "+topic)
		return fmt.Errorf("help %s: unknown command", topic)
	}
	fmt.Fprintln(io.Stdout, "usage: "+spec.Usage)
	fmt.Fprintln(io.Stdout, spec.Desc)
	return nil
}

func (s *Shell) ioFailure(op, name string, err error) {
	s.logger.Warn("filesystem operation failed",
		zap.String("op", op),
		zap.String("cwd", s.cwd),
		zap.String("name", name),
		zap.Error(err),
	)
}
