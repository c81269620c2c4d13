package lang

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"
)

//go:embed languages.toml
var builtinLanguages []byte

var (
	ErrUnknownExtension = errors.New("extension not recognized")
	ErrNotFound         = errors.New("program not found")
	ErrAmbiguous        = errors.New("program name is ambiguous")
)

type languagesFile struct {
	Languages []Language `toml:"languages"`
}

// Registry maps file extensions to languages.
type Registry struct {
	langs []*Language
	exts  []string // in resolution order
	known mapset.Set[string]
	byExt map[string]*Language
}

// Default returns the registry of built-in languages.
func Default() *Registry {
	r, err := parse(builtinLanguages)
	if err != nil {
		panic(fmt.Sprintf("built-in languages are invalid: %v", err))
	}
	return r
}

// Load returns the built-in languages overridden by each TOML file in paths. A language in a
// file replaces the built-in one with the same id; new ids are appended. Missing files
// are skipped.
func Load(paths ...string) (*Registry, error) {
	base, err := decode(builtinLanguages)
	if err != nil {
		return nil, fmt.Errorf("built-in languages are invalid: %w", err)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read languages file: %w", err)
		}
		extra, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		slog.Debug("loaded languages", "path", path, "count", len(extra))
		base = merge(base, extra)
	}

	return build(base)
}

func parse(data []byte) (*Registry, error) {
	langs, err := decode(data)
	if err != nil {
		return nil, err
	}
	return build(langs)
}

func decode(data []byte) ([]Language, error) {
	var f languagesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return f.Languages, nil
}

func merge(base, extra []Language) []Language {
	for _, l := range extra {
		replaced := false
		for i := range base {
			if base[i].ID == l.ID {
				base[i] = l
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, l)
		}
	}
	return base
}

func build(langs []Language) (*Registry, error) {
	r := &Registry{
		known: mapset.NewThreadUnsafeSet[string](),
		byExt: make(map[string]*Language),
	}
	for i := range langs {
		l := &langs[i]
		if err := l.validate(); err != nil {
			return nil, err
		}
		r.langs = append(r.langs, l)
		for _, ext := range l.Extensions {
			if r.known.Contains(ext) {
				return nil, fmt.Errorf("extension %s is claimed by more than one language", ext)
			}
			r.known.Add(ext)
			r.exts = append(r.exts, ext)
			r.byExt[ext] = l
		}
	}
	return r, nil
}

func (r *Registry) Languages() []*Language {
	return r.langs
}

// Extensions lists recognized extensions in resolution order.
func (r *Registry) Extensions() []string {
	return r.exts
}

func (r *Registry) Recognized(path string) bool {
	return r.known.Contains(filepath.Ext(path))
}

// Program binds an existing source file to its language.
func (r *Registry) Program(path string) (Program, error) {
	l, ok := r.byExt[filepath.Ext(path)]
	if !ok {
		return Program{}, fmt.Errorf("%s: %w", path, ErrUnknownExtension)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Program{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return Program{Source: abs, Lang: l}, nil
}

// Resolve finds the source file a user meant by name. A name with a recognized extension
// must exist as given. Otherwise exactly one of name+ext must exist for the recognized
// extensions.
func (r *Registry) Resolve(name string) (Program, error) {
	if r.Recognized(name) {
		if !isFile(name) {
			return Program{}, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return r.Program(name)
	}

	var found []string
	for _, ext := range r.exts {
		if isFile(name + ext) {
			found = append(found, name+ext)
		}
	}

	switch len(found) {
	case 0:
		if isFile(name) {
			return Program{}, fmt.Errorf("%s: %w", name, ErrUnknownExtension)
		}
		return Program{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	case 1:
		slog.Info("file extension determined", "file", found[0])
		return r.Program(found[0])
	default:
		return Program{}, fmt.Errorf("%s matches %v: %w", name, found, ErrAmbiguous)
	}
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
