package emitter

import (
	"strings"

	"github.com/alessio/shellescape"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Shell isolates the syntax that differs between make and nmake recipes.
type Shell struct {
	System domain.System
}

// NewShell creates the Shell of a system.
func NewShell(system domain.System) Shell {
	return Shell{System: system}
}

// QuoteValue applies the simple quoting rule: values that are empty or
// contain a space are wrapped in double quotes. Values containing a quote
// character cannot be represented.
func (s Shell) QuoteValue(v string) (string, error) {
	if strings.ContainsAny(v, `'"`) {
		return "", zerr.With(domain.ErrUnquotableValue, "value", v)
	}
	if v == "" || strings.Contains(v, " ") {
		return `"` + v + `"`, nil
	}
	return v, nil
}

// Join quotes every argument and joins them with spaces.
// POSIX shell quoting is used on Unix-likes. Windows only supports the
// simple quoting rule, so Join fails on arguments containing quotes there.
func (s Shell) Join(args ...string) (string, error) {
	if !s.System.IsWindows() {
		return shellescape.QuoteCommand(args), nil
	}

	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		q, err := s.QuoteValue(arg)
		if err != nil {
			return "", err
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

// PathJoin joins path elements with the separator of the system.
func (s Shell) PathJoin(elem ...string) string {
	return s.System.PathJoin(elem...)
}

// PathListSeparator returns the separator of PATH-like values.
func (s Shell) PathListSeparator() string {
	return s.System.PathListSeparator()
}

// Rm returns the command deleting a file if it exists.
func (s Shell) Rm(file string) string {
	if s.System.IsWindows() {
		return "(if exist " + file + " del /q " + file + ")"
	}
	return "$(RM) " + file
}

// Rd returns the command deleting a directory tree if it exists.
func (s Shell) Rd(dir string) string {
	if s.System.IsWindows() {
		return "(if exist " + dir + " rd /s /q " + dir + ")"
	}
	return "$(RM) -r " + dir
}
