package xerrors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestDeriveMatchesSentinel(t *testing.T) {
	err := ErrIndexOutOfRange.Derive("[%d, %d] outside [0, %d)", 3, 9, 5)

	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("derived error does not match sentinel: %v", err)
	}
	if errors.Is(err, ErrEmptyTree) {
		t.Errorf("derived error matches unrelated sentinel")
	}
	if ErrIndexOutOfRange.Detail != "" {
		t.Errorf("sentinel detail was modified: %q", ErrIndexOutOfRange.Detail)
	}
	if len(err.Stack) == 0 {
		t.Errorf("expected captured stack")
	}

	wrapped := fmt.Errorf("query: %w", err)
	if !errors.Is(wrapped, ErrIndexOutOfRange) {
		t.Errorf("fmt-wrapped error lost sentinel identity")
	}
}

func TestGRPCCode(t *testing.T) {
	cases := []struct {
		err  *Error
		want codes.Code
	}{
		{ErrIndexOutOfRange, codes.OutOfRange},
		{ErrEmptyTree, codes.NotFound},
		{ErrMalformedInput, codes.InvalidArgument},
		{Internal("boom", nil), codes.Internal},
	}
	for _, c := range cases {
		if got := c.err.GRPCCode(); got != c.want {
			t.Errorf("%v: GRPCCode() = %v, want %v", c.err, got, c.want)
		}
		if st := c.err.ToGRPCStatus(); st.Code() != c.want {
			t.Errorf("%v: status code = %v, want %v", c.err, st.Code(), c.want)
		}
	}
}

func TestWrapKeepsCode(t *testing.T) {
	base := ErrMalformedInput.Derive("token %q", "x")
	w := Wrap(base, ErrInternal, "solve case")
	if w.Code != ErrMalformedInput.Code {
		t.Errorf("Wrap changed code to %d", w.Code)
	}
	if !errors.Is(w, ErrMalformedInput) {
		t.Errorf("wrapped error does not match sentinel")
	}
	if Wrap(nil, ErrInternal, "x") != nil {
		t.Errorf("Wrap(nil) should be nil")
	}
}
