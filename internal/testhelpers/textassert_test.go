package testhelpers

import "testing"

func TestAssert_IdenticalTextPasses(t *testing.T) {
	ta := NewCSVAsserter(t)
	ta.Assert("a,b,c\nd,e,f\n", "a,b,c\nd,e,f")
}

func TestAssert_IgnoresBlankLines(t *testing.T) {
	ta := NewCSVAsserter(t)
	ta.Assert("a,b,c\n\nd,e,f\n", "a,b,c\nd,e,f")
}

type fakeT struct{ failed bool }

func (f *fakeT) Helper()                           {}
func (f *fakeT) Errorf(format string, args ...any) { f.failed = true }

func TestAssert_ReportsMismatch(t *testing.T) {
	fake := &fakeT{}
	ta := NewCSVAsserter(fake)
	ta.Assert("a,b,c", "a,b,x")
	if !fake.failed {
		t.Fatal("expected Assert to report a mismatch")
	}
}
