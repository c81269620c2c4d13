// Package compare decides whether a program's output is equivalent to the expected one.
package compare

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/programme-lv/grader/internal/testfile"
)

// DefaultEpsilon is the tolerated error for floating point tokens.
const DefaultEpsilon = 1e-6

// Result of one comparison.
type Result struct {
	Accepted bool
	Message  string
}

func accepted() Result {
	return Result{Accepted: true, Message: "OK"}
}

func wrong(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// Comparator judges actual against expected. inputPath is only used by external checkers.
type Comparator interface {
	Compare(ctx context.Context, inputPath, expectedPath, actualPath string) (Result, error)
}

// TokenComparator compares whitespace separated tokens line by line. Tokens of the expected
// output that look like decimals are compared with tolerance Epsilon.
type TokenComparator struct {
	Epsilon float64
}

func NewTokenComparator(eps float64) *TokenComparator {
	return &TokenComparator{Epsilon: eps}
}

// Compare reports the first mismatch in line-scan order.
func (c *TokenComparator) Compare(_ context.Context, _, expectedPath, actualPath string) (Result, error) {
	exp, err := ReadTokens(expectedPath)
	if err != nil {
		return Result{}, err
	}
	act, err := ReadTokens(actualPath)
	if err != nil {
		return Result{}, err
	}
	return c.CompareTokens(exp, act), nil
}

// CompareTokens is Compare on already tokenized outputs.
func (c *TokenComparator) CompareTokens(exp, act [][]string) Result {
	if len(exp) != len(act) {
		return wrong("expected %d lines but found %d lines", len(exp), len(act))
	}

	for i := range exp {
		line := i + 1
		if len(exp[i]) != len(act[i]) {
			return wrong("line %d: expected %d tokens but found %d tokens", line, len(exp[i]), len(act[i]))
		}
		for j := range exp[i] {
			e, a := exp[i][j], act[i][j]
			if e == a {
				continue
			}
			ef, ok := parseDecimal(e)
			if !ok {
				return wrong("line %d: elements don't match, expected %s but found %s", line, e, a)
			}
			af, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return wrong("line %d: elements don't match, expected %s but found %s", line, e, a)
			}
			if d := RelativeOrAbsoluteError(ef, af); !(d <= c.Epsilon) {
				return wrong("line %d: floats differ, error=%g. Expected %s but found %s", line, d, e, a)
			}
		}
	}
	return accepted()
}

// parseDecimal parses tokens like "1.5" or "-0.25e3"; integers such as "3" are compared
// exactly.
func parseDecimal(tok string) (float64, bool) {
	if !strings.Contains(tok, ".") {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// RelativeOrAbsoluteError is |a-b| when a is zero, otherwise the smaller of the absolute
// and relative error of b with respect to a.
func RelativeOrAbsoluteError(a, b float64) float64 {
	res := math.Abs(a - b)
	if a != 0 {
		res = math.Min(res, math.Abs(1-b/a))
	}
	return res
}

// ReadTokens splits a file into lines of whitespace separated tokens, dropping blank lines.
func ReadTokens(path string) ([][]string, error) {
	r, err := testfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var lines [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), math.MaxInt32)
	for sc.Scan() {
		if fields := strings.Fields(sc.Text()); len(fields) > 0 {
			lines = append(lines, fields)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
