package service_test

import (
	"testing"

	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	rl := service.NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed within the burst", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request beyond the burst should be denied")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := service.NewRateLimiter(1, 1)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first key should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("first key should be exhausted")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("second key has its own bucket")
	}
}
