package rest

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

// Only a missing-user lookup result starts the create-account path; any other
// store failure must surface as an error instead of a doomed insert.
func TestShouldCreateAccountOnlyWhenUserMissing(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"MissingUser", ErrUserNotFound, true},
		{"WrappedMissingUser", pkgerrors.Wrap(ErrUserNotFound, "looking up user"), true},
		{"StoreUnreachable", errors.New("connection refused"), false},
		{"NoError", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldCreateAccount(tc.err); got != tc.want {
				t.Errorf("shouldCreateAccount(%v) = %v; want %v", tc.err, got, tc.want)
			}
		})
	}
}
