// Package emitter renders flattened blocks into a make or nmake build script.
package emitter

import (
	"strings"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Emitter renders build scripts for one system.
type Emitter struct {
	shell Shell
}

// New creates an Emitter for the given system.
func New(system domain.System) *Emitter {
	return &Emitter{shell: NewShell(system)}
}

// Shell returns the shell syntax used by the emitter.
func (e *Emitter) Shell() Shell {
	return e.shell
}

// Emit renders the build script. The output contains, in order, the make
// variables, the environment exports, one rule per flattened block and a
// trailing .PHONY line listing every rule in emission order.
func (e *Emitter) Emit(flat []domain.FlatBlock, vars, env []domain.Binding) (string, error) {
	var sb strings.Builder

	for _, v := range vars {
		sb.WriteString(v.Key + " = " + v.Value + "\n")
	}

	if err := e.writeExports(&sb, env); err != nil {
		return "", err
	}

	names := make([]string, 0, len(flat))
	for _, b := range flat {
		sb.WriteString(b.Name + ":")
		if len(b.Prerequisites) > 0 {
			sb.WriteString(" " + strings.Join(b.Prerequisites, " "))
		}
		sb.WriteString("\n")
		for _, cmd := range b.Commands {
			sb.WriteString("\t" + cmd + "\n")
		}
		names = append(names, b.Name)
	}

	sb.WriteString(".PHONY: " + strings.Join(names, " ") + "\n")
	return sb.String(), nil
}

func (e *Emitter) writeExports(sb *strings.Builder, env []domain.Binding) error {
	if len(env) == 0 {
		return nil
	}

	quoted := make([]domain.Binding, 0, len(env))
	for _, b := range env {
		v, err := e.shell.QuoteValue(b.Value)
		if err != nil {
			return zerr.With(err, "variable", b.Key)
		}
		quoted = append(quoted, domain.Binding{Key: b.Key, Value: v})
	}

	if !e.shell.System.IsWindows() {
		// Immediate assignment: values may reference themselves, PATH does.
		for _, b := range quoted {
			sb.WriteString("export " + b.Key + " := " + b.Value + "\n")
		}
		return nil
	}

	// nmake only exports variables that already exist in the environment.
	conds := make([]string, 0, len(quoted))
	for _, b := range quoted {
		sb.WriteString(b.Key + " = " + b.Value + "\n")
		conds = append(conds, "[set "+b.Key+"=$("+b.Key+")]")
	}
	sb.WriteString("!if " + strings.Join(conds, " || ") + "\n!endif\n")
	return nil
}
