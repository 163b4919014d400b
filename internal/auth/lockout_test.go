package auth_test

import (
	"testing"
	"time"

	"github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

func TestEvaluateLockout(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * time.Minute)
	past := now.Add(-time.Minute)

	cases := []struct {
		name string
		user repository.User
		want bool
	}{
		{"disabled", repository.User{LockoutEnabled: false, LockoutEnd: &future}, false},
		{"no window", repository.User{LockoutEnabled: true}, false},
		{"inside window", repository.User{LockoutEnabled: true, LockoutEnd: &future}, true},
		{"window expired", repository.User{LockoutEnabled: true, LockoutEnd: &past}, false},
		{"window ends exactly now", repository.User{LockoutEnabled: true, LockoutEnd: &now}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec := auth.EvaluateLockout(&tc.user, now)
			if dec.Locked != tc.want {
				t.Fatalf("locked = %v, want %v", dec.Locked, tc.want)
			}
			if dec.Locked && !dec.Until.Equal(*tc.user.LockoutEnd) {
				t.Fatalf("until = %v", dec.Until)
			}
		})
	}
}
