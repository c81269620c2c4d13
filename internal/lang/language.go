package lang

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/shlex"
)

// Language describes how to build and run sources with the given extensions.
type Language struct {
	ID              string   `toml:"id"`
	Name            string   `toml:"name"`
	Extensions      []string `toml:"extensions"`
	CompileCmd      string   `toml:"compile_cmd"`
	DebugCompileCmd string   `toml:"debug_compile_cmd"`
	ExecCmd         string   `toml:"exec_cmd"`
	// Cache marks languages whose compile step produces exactly the file {bin}.
	Cache bool `toml:"cache"`
}

func (l *Language) Compiled() bool {
	return l.CompileCmd != ""
}

func (l *Language) validate() error {
	if l.ID == "" {
		return fmt.Errorf("language is missing id")
	}
	if len(l.Extensions) == 0 {
		return fmt.Errorf("language %s has no extensions", l.ID)
	}
	for _, ext := range l.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("language %s: extension %q must start with a dot", l.ID, ext)
		}
	}
	if l.ExecCmd == "" {
		return fmt.Errorf("language %s is missing exec_cmd", l.ID)
	}
	return nil
}

// Program is a source file bound to its language.
type Program struct {
	Source string // absolute path
	Lang   *Language
}

func (p Program) Dir() string {
	return filepath.Dir(p.Source)
}

// Name is the source file name without its extension.
func (p Program) Name() string {
	base := filepath.Base(p.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Bin is where compiled languages place their executable.
func (p Program) Bin() string {
	return filepath.Join(p.Dir(), p.Name())
}

// OutputPath is the file the program's stdout is written to when run against a test.
func (p Program) OutputPath() string {
	return p.Bin() + ".out"
}

func (p Program) String() string {
	return filepath.Base(p.Source)
}

// CompileCommand returns the argv of the build step, nil for interpreted languages.
func (p Program) CompileCommand(debug bool) ([]string, error) {
	tpl := p.compileTemplate(debug)
	if tpl == "" {
		return nil, nil
	}
	return p.expand(tpl)
}

func (p Program) compileTemplate(debug bool) string {
	if debug && p.Lang.DebugCompileCmd != "" {
		return p.Lang.DebugCompileCmd
	}
	return p.Lang.CompileCmd
}

// ExecCommand returns the argv that runs the program.
func (p Program) ExecCommand() ([]string, error) {
	return p.expand(p.Lang.ExecCmd)
}

func (p Program) expand(tpl string) ([]string, error) {
	fields, err := shlex.Split(tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command template %q: %w", tpl, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("command template %q is empty", tpl)
	}

	r := strings.NewReplacer(
		"{src}", p.Source,
		"{bin}", p.Bin(),
		"{name}", p.Name(),
		"{dir}", p.Dir(),
	)
	for i, f := range fields {
		fields[i] = r.Replace(f)
	}
	return fields, nil
}

// Toolchain lists the executables the language's commands start with. Commands that start
// with a template placeholder, such as a compiled {bin}, contribute nothing.
func (l *Language) Toolchain() []string {
	var tools []string
	for _, tpl := range []string{l.CompileCmd, l.ExecCmd} {
		fields, err := shlex.Split(tpl)
		if err != nil || len(fields) == 0 || strings.HasPrefix(fields[0], "{") {
			continue
		}
		if !slices.Contains(tools, fields[0]) {
			tools = append(tools, fields[0])
		}
	}
	return tools
}
