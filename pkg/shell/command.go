package shell

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingArgument = errors.New("missing argument")

// Verb is the closed set of commands the shell understands.
type Verb int

const (
	VerbUnknown Verb = iota
	VerbCd
	VerbPwd
	VerbLs
	VerbMkdir
	VerbRmdir
	VerbTouch
	VerbMv
	VerbRm
	VerbCat
	VerbHelp
	VerbExit
)

type commandSpec struct {
	Verb    Verb
	Name    string
	Usage   string
	Desc    string
	MinArgs int
}

// commandSpecs is also the order help prints in.
var commandSpecs = []commandSpec{
	{Verb: VerbHelp, Name: "help", Usage: "help [command]", Desc: "Show this help message"},
	{Verb: VerbPwd, Name: "pwd", Usage: "pwd", Desc: "Print the current directory"},
	{Verb: VerbCd, Name: "cd", Usage: "cd [dir]", Desc: "Change the current directory"},
	{Verb: VerbLs, Name: "ls", Usage: "ls [-a|-r]", Desc: "List directory contents"},
	{Verb: VerbMkdir, Name: "mkdir", Usage: "mkdir <dir>...", Desc: "Create new directories", MinArgs: 1},
	{Verb: VerbRmdir, Name: "rmdir", Usage: "rmdir <dir>", Desc: "Remove an empty directory", MinArgs: 1},
	{Verb: VerbTouch, Name: "touch", Usage: "touch <file>", Desc: "Create a new empty file", MinArgs: 1},
	{Verb: VerbMv, Name: "mv", Usage: "mv <source>... <dest>", Desc: "Move or rename files or directories", MinArgs: 2},
	{Verb: VerbRm, Name: "rm", Usage: "rm <file>...", Desc: "Remove files", MinArgs: 1},
	{Verb: VerbCat, Name: "cat", Usage: "cat <file>...", Desc: "Print file contents", MinArgs: 1},
	{Verb: VerbExit, Name: "exit", Usage: "exit", Desc: "Exit the shell"},
}

var verbsByName = func() map[string]Verb {
	m := make(map[string]Verb, len(commandSpecs))
	for _, spec := range commandSpecs {
		m[spec.Name] = spec.Verb
	}
	return m
}()

func specFor(v Verb) (commandSpec, bool) {
	for _, spec := range commandSpecs {
		if spec.Verb == v {
			return spec, true
		}
	}
	return commandSpec{}, false
}

// ParseVerb maps a command name to its Verb, or VerbUnknown.
func ParseVerb(name string) Verb {
	if v, ok := verbsByName[name]; ok {
		return v
	}
	return VerbUnknown
}

func (v Verb) String() string {
	if spec, ok := specFor(v); ok {
		return spec.Name
	}
	return "unknown"
}

// Command is one parsed input line.
type Command struct {
	Verb Verb
	Name string
	Args []string
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// ParseCommand builds a Command from the words of a line. The returned
// Command is always usable for messages; the error wraps
// ErrMissingArgument when the verb needs more arguments.
func ParseCommand(words []string) (Command, error) {
	if len(words) == 0 {
		return Command{}, errors.New("empty command")
	}

	cmd := Command{
		Verb: ParseVerb(words[0]),
		Name: words[0],
		Args: words[1:],
	}

	if spec, ok := specFor(cmd.Verb); ok && len(cmd.Args) < spec.MinArgs {
		return cmd, fmt.Errorf("%s: %w", cmd.Name, ErrMissingArgument)
	}
	return cmd, nil
}

// HelpText renders the command summary.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, spec := range commandSpecs {
		fmt.Fprintf(&b, "  %-22s %s\n", spec.Usage, spec.Desc)
	}
	return b.String()
}
