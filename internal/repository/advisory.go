package repository

import (
	"context"
	"fmt"
	"hash/fnv"
)

// AcquireAdvisoryLock takes a transaction-scoped Postgres advisory lock
// keyed by an arbitrary string. The lock is released automatically when
// the enclosing transaction commits or rolls back, so it must be called
// on a pgx.Tx, never on the pool.
//
// Admission uses this to serialize the existence-check-then-insert
// sequence per (exam, student) or (exam, ip) pair.
func AcquireAdvisoryLock(ctx context.Context, tx DB, key string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, AdvisoryLockKey(key)); err != nil {
		return fmt.Errorf("advisory lock %q: %w", key, err)
	}
	return nil
}

// AdvisoryLockKey maps a string key onto the bigint space Postgres
// advisory locks use. FNV-64a is stable across processes, which is all
// that matters here; collisions only cost spurious serialization.
func AdvisoryLockKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}
