// Package discovery finds test cases in a directory by matching file names against
// patterns such as "$.in", where "$" stands for the numeric test label.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/grader/internal/testfile"
)

// Placeholder marks the position of the test label in a file name pattern.
const Placeholder = "$"

var ErrBadPattern = errors.New("pattern must contain the placeholder exactly once")

// Pattern is a file name pattern with a single label placeholder.
type Pattern struct {
	prefix string
	suffix string
}

func ParsePattern(s string) (Pattern, error) {
	if strings.Count(s, Placeholder) != 1 {
		return Pattern{}, fmt.Errorf("%q: %w", s, ErrBadPattern)
	}
	i := strings.Index(s, Placeholder)
	return Pattern{prefix: s[:i], suffix: s[i+len(Placeholder):]}, nil
}

// MustParsePattern is like ParsePattern but panics on a malformed pattern.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) String() string {
	return p.prefix + Placeholder + p.suffix
}

// Label extracts the label from a file name. The label must be a non-empty run of ASCII
// digits. A trailing ".zst" is ignored so compressed tests are found too.
func (p Pattern) Label(filename string) (string, bool) {
	name := strings.TrimSuffix(filename, testfile.Ext)
	if len(name) < len(p.prefix)+len(p.suffix) {
		return "", false
	}
	if !strings.HasPrefix(name, p.prefix) || !strings.HasSuffix(name, p.suffix) {
		return "", false
	}
	label := name[len(p.prefix) : len(name)-len(p.suffix)]
	if !isDigits(label) {
		return "", false
	}
	return label, true
}

// Path substitutes label into the pattern.
func (p Pattern) Path(label string) string {
	return p.prefix + label + p.suffix
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TestCase is one input file and, when present, its expected output.
type TestCase struct {
	Label      string
	InputPath  string
	AnswerPath string // empty if there is no answer file
}

func (tc TestCase) HasAnswer() bool {
	return tc.AnswerPath != ""
}

// ListFunc returns the names of the regular files of a directory.
type ListFunc func() ([]string, error)

// DirLister lists regular files in dir (no recursion).
func DirLister(dir string) ListFunc {
	return func() ([]string, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Type().IsRegular() {
				names = append(names, e.Name())
			}
		}
		return names, nil
	}
}

// Labels returns the de-duplicated labels of all files matching in, sorted by numeric value.
func Labels(list ListFunc, in Pattern) ([]string, error) {
	names, err := list()
	if err != nil {
		return nil, err
	}

	found := mapset.NewThreadUnsafeSet[string]()
	for _, name := range names {
		if label, ok := in.Label(name); ok {
			found.Add(label)
		}
	}

	labels := found.ToSlice()
	slices.SortFunc(labels, compareLabels)
	return labels, nil
}

// Discover builds the test cases of dir. Answer paths are filled in only for answers that
// exist; checking whether a missing answer is fatal is up to the caller.
func Discover(dir string, list ListFunc, in, ans Pattern) ([]TestCase, error) {
	labels, err := Labels(list, in)
	if err != nil {
		return nil, err
	}

	tests := make([]TestCase, 0, len(labels))
	for _, label := range labels {
		tc := TestCase{
			Label:     label,
			InputPath: filepath.Join(dir, in.Path(label)),
		}
		answer := filepath.Join(dir, ans.Path(label))
		if testfile.Exists(answer) {
			tc.AnswerPath = answer
		}
		tests = append(tests, tc)
	}
	return tests, nil
}

// compareLabels orders digit strings by value, falling back to the string for equal
// values with leading zeros.
func compareLabels(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) - len(tb)
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
