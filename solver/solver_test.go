package solver

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wyfcoding/rangetree/xerrors"
)

func TestSolve(t *testing.T) {
	tests := []struct {
		name    string
		problem Problem
		input   string
		want    string
	}{
		{
			name:    "chmin example",
			problem: ProblemChmin,
			input:   "5 5\n5 1 4 2 8\n1 1 5\n0 1 5 4\n1 1 5\n1 2 4\n1 5 5\n",
			want:    "8\n4\n4\n4",
		},
		{
			name:    "chmin all equal",
			problem: ProblemChmin,
			input:   "3 4\n3 3 3\n0 1 3 3\n1 1 3\n0 1 3 2\n1 2 2",
			want:    "3\n2",
		},
		{
			name:    "chmin partial ranges",
			problem: ProblemChmin,
			input:   "6 5\n9 8 7 6 5 4\n0 2 4 6\n1 1 3\n1 2 6\n0 1 1 1\n1 1 2",
			want:    "9\n6\n6",
		},
		{
			name:    "chmin empty input",
			problem: ProblemChmin,
			input:   "",
			want:    "",
		},
		{
			name:    "coverage example",
			problem: ProblemCoverage,
			input:   "2 3\n1 2\n2 4\n0 5 2\n0 5 3\n3 5 0\n",
			want:    "1\n0\n1",
		},
		{
			name:    "coverage query beyond segments",
			problem: ProblemCoverage,
			input:   "1 2\n0 1\n0 9 0\n0 1 0",
			want:    "1\n0",
		},
		{
			name:    "coverage nothing",
			problem: ProblemCoverage,
			input:   "0 0",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			report, err := Solve(context.Background(), tt.problem, strings.NewReader(tt.input), &out)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
			if want := strings.Count(tt.want, "\n") + 1; tt.want != "" && report.Lines != want {
				t.Errorf("Lines = %d, want %d", report.Lines, want)
			}
			if report.Problem != tt.problem {
				t.Errorf("Problem = %q", report.Problem)
			}
		})
	}
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		problem Problem
		input   string
		want    error
	}{
		{"unknown op", ProblemChmin, "2 1\n1 2\n7 1 2", xerrors.ErrUnknownOperation},
		{"truncated values", ProblemChmin, "3 0\n1 2", xerrors.ErrMalformedInput},
		{"not a number", ProblemChmin, "2 1\n1 x", xerrors.ErrMalformedInput},
		{"index past end", ProblemChmin, "2 1\n1 2\n1 1 3", xerrors.ErrIndexOutOfRange},
		{"max on empty array", ProblemChmin, "0 1\n1 1 1", xerrors.ErrEmptyTree},
		{"negative coordinate", ProblemCoverage, "1 0\n-1 2", xerrors.ErrMalformedInput},
		{"reversed segment", ProblemCoverage, "1 0\n3 2", xerrors.ErrInvalidSegment},
		{"reversed query", ProblemCoverage, "1 1\n0 2\n2 1 1", xerrors.ErrIndexOutOfRange},
		{"unknown problem", Problem("sum"), "", xerrors.ErrUnknownProblem},
		{"huge op count truncated", ProblemChmin, "1 1000000000000000000 5", xerrors.ErrMalformedInput},
		{"huge array length truncated", ProblemChmin, "1000000000000000000 0", xerrors.ErrMalformedInput},
		{"huge query count truncated", ProblemCoverage, "0 1000000000000000000", xerrors.ErrMalformedInput},
		{"coordinate above limit", ProblemCoverage, "1 0 0 1000000000000000000", xerrors.ErrMalformedInput},
		{"query coordinate above limit", ProblemCoverage, "0 1\n0 16777217 1", xerrors.ErrMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := Solve(context.Background(), tt.problem, strings.NewReader(tt.input), &out)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if out.Len() != 0 {
				t.Errorf("partial output written on error: %q", out.String())
			}
		})
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Solve(ctx, ProblemChmin, strings.NewReader("1 1\n5\n1 1 1"), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSolveReportsStats(t *testing.T) {
	report, err := Solve(context.Background(), ProblemChmin,
		strings.NewReader("4 3\n1 9 4 9\n0 1 4 6\n1 1 4\n1 2 3"), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Tree != "beats" || report.Stats.Updates != 1 || report.Stats.Queries != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Stats.Shortcuts == 0 {
		t.Errorf("expected a beats shortcut, got %+v", report.Stats)
	}
}
