// Package testhelpers provides shared test assertions: a line-diffing
// text comparison for multi-line output such as CSV dumps, so a failure
// shows a diff rather than two giant string literals. Only this package's
// own tests use it at present.
package testhelpers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
)

// TestingT is the subset of *testing.T a TextAsserter needs, matching the
// teacher's own interface seam for mocking test failures in tests of the
// test helper itself.
type TestingT interface {
	Helper()
	Errorf(format string, args ...interface{})
}

// TextAsserter compares multi-line text, reporting a unified diff on
// mismatch instead of testify's single-line string diff.
type TextAsserter struct {
	t                TestingT
	ignoreEmptyLines bool
	trimSpace        bool
}

// NewCSVAsserter returns a TextAsserter tuned for comparing dumped CSV:
// blank trailing lines are ignored and the whole text is trimmed, since
// persist.Dump's buffered writer may or may not leave a final newline.
func NewCSVAsserter(t TestingT) *TextAsserter {
	return &TextAsserter{t: t, ignoreEmptyLines: true, trimSpace: true}
}

// Assert fails the test with a colorized unified diff if actual and
// expected differ after normalization.
func (ta *TextAsserter) Assert(actual, expected string) {
	ta.t.Helper()

	a := ta.normalize(actual)
	e := ta.normalize(expected)
	if a == e {
		return
	}

	edits := myers.ComputeEdits("", e, a)
	unified := gotextdiff.ToUnified("expected", "actual", e, edits)
	ta.t.Errorf("text assertion failed - unified diff:\n%s", ta.colorize(fmt.Sprint(unified)))
}

func (ta *TextAsserter) normalize(text string) string {
	if ta.trimSpace {
		text = strings.TrimSpace(text)
	}
	if !ta.ignoreEmptyLines {
		return text
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func (ta *TextAsserter) colorize(diff string) string {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	var out []string
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			out = append(out, cyan.Sprint(line))
		case strings.HasPrefix(line, "-"):
			out = append(out, red.Sprint(line))
		case strings.HasPrefix(line, "+"):
			out = append(out, green.Sprint(line))
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
