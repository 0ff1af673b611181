package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Neev4n/dirshell/internal/fsys"
)

var ErrMissingRedirectDestination = errors.New("missing redirect destination")

type IOBindings struct {
	Stdout io.Writer
	Stderr io.Writer
}

type RedirectionSpec struct {
	Operator string // operators such as (>, 1>, >>, 1>>)
	Target   string // target path, resolved against the session directory before Apply
}

// cleaned up arguments after parsed through for redirection
type ParsedCommand struct {
	Args         []string
	Redirections []RedirectionSpec
}

func isRedirectOperator(text string) bool {
	switch text {
	case ">", "1>", ">>", "1>>":
		return true
	}
	return false
}

// ParseRedirections pulls unquoted redirection operators and their targets
// out of tokens.
func ParseRedirections(tokens []Token) ParsedCommand {
	parsed := ParsedCommand{Args: make([]string, 0, len(tokens))}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Quoted || !isRedirectOperator(tok.Text) {
			parsed.Args = append(parsed.Args, tok.Text)
			continue
		}

		spec := RedirectionSpec{Operator: tok.Text}
		if i+1 < len(tokens) {
			spec.Target = tokens[i+1].Text
			i++
		}
		parsed.Redirections = append(parsed.Redirections, spec)
	}

	return parsed
}

// handle stdout redirections
type StdoutRedirectionHandler struct {
	Overwrite bool
}

func (handler *StdoutRedirectionHandler) CanHandle(operator string) bool {
	if handler.Overwrite {
		return operator == ">" || operator == "1>"
	}

	return operator == ">>" || operator == "1>>"
}

func (handler *StdoutRedirectionHandler) Validate(redirection RedirectionSpec) error {
	if redirection.Target == "" {
		return ErrMissingRedirectDestination
	}

	return nil
}

func (handler *StdoutRedirectionHandler) Apply(ctx context.Context, redirection RedirectionSpec, ioBindings *IOBindings, fs fsys.FileSystem) (cleanup func() error, err error) {
	file, err := fs.OpenWrite(ctx, redirection.Target, !handler.Overwrite)

	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", redirection.Target, err)
	}

	ioBindings.Stdout = file
	return file.Close, nil
}

func defaultRedirectionHandlers() []RedirectionHandler {
	return []RedirectionHandler{
		&StdoutRedirectionHandler{Overwrite: true},
		&StdoutRedirectionHandler{Overwrite: false},
	}
}
