package repository

import "testing"

func TestAdvisoryLockKey_Stable(t *testing.T) {
	a := AdvisoryLockKey("exam:1:student:2")
	b := AdvisoryLockKey("exam:1:student:2")
	if a != b {
		t.Fatalf("same key must hash identically: %d vs %d", a, b)
	}
}

func TestAdvisoryLockKey_DistinguishesKeys(t *testing.T) {
	a := AdvisoryLockKey("exam:1:student:2")
	b := AdvisoryLockKey("exam:1:student:3")
	if a == b {
		t.Fatalf("different keys should not collide in tests: %d", a)
	}
}
