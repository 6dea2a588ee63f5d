package apperror

import (
	"errors"
	"fmt"
	"testing"
)

type fieldErr struct{}

func (fieldErr) Error() string    { return "name: required" }
func (fieldErr) ErrorKind() Kind { return KindBadRequest }

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("db down"), want: KindInternal},
		{name: "direct", err: NotFound("order %s not found", "x"), want: KindNotFound},
		{name: "wrapped", err: fmt.Errorf("create order: %w", Conflict("duplicate")), want: KindConflict},
		{name: "kinded", err: fmt.Errorf("decode: %w", fieldErr{}), want: KindBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf() = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestMessage_HidesInternalDetail(t *testing.T) {
	err := Wrap(KindInternal, errors.New("pq: relation missing"), "load order")
	if got := Message(err); got != "internal server error" {
		t.Fatalf("expected generic message, got %q", got)
	}
	if got := Message(errors.New("raw")); got != "internal server error" {
		t.Fatalf("expected generic message for unclassified error, got %q", got)
	}
	if got := Message(InvalidState("reservation is pending")); got != "reservation is pending" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(KindConflict, cause, "insert order")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "insert order: cause" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}
