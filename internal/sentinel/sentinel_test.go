package sentinel

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Text(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  Error
		want string
	}{
		"port message":  {err: Error("port still in use"), want: "port still in use"},
		"empty message": {err: Error(""), want: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestError_MatchesThroughWrapping(t *testing.T) {
	t.Parallel()

	const errSpawn = Error("spawn failed")

	tests := map[string]struct {
		err    error
		target error
		want   bool
	}{
		"same constant":           {err: errSpawn, target: errSpawn, want: true},
		"wrapped once":            {err: fmt.Errorf("start server: %w", errSpawn), target: errSpawn, want: true},
		"wrapped twice":           {err: fmt.Errorf("cycle: %w", fmt.Errorf("start: %w", errSpawn)), target: errSpawn, want: true},
		"different constant":      {err: errSpawn, target: Error("exited"), want: false},
		"errors.New same text":    {err: errSpawn, target: errors.New("spawn failed"), want: false},
		"joined with other error": {err: errors.Join(errors.New("x"), errSpawn), target: errSpawn, want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := errors.Is(tc.err, tc.target); got != tc.want {
				t.Errorf("errors.Is() = %v, want %v", got, tc.want)
			}
		})
	}
}
