package shell

import (
	"context"

	"github.com/Neev4n/dirshell/internal/fsys"
)

type Parser interface {
	Parse(line string) ([]Token, error)
}

// handles each type of redirection
type RedirectionHandler interface {
	// check for operator
	CanHandle(operator string) bool
	// check if this redirection is possible
	Validate(redirection RedirectionSpec) error
	// apply redirection to bindings; cleanup must run before the prompt returns
	Apply(ctx context.Context, redirection RedirectionSpec, ioBindings *IOBindings, fs fsys.FileSystem) (cleanup func() error, err error)
}
