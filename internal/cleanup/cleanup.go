// Package cleanup implements the unverified-account retention policy.
// Accounts that never verified their email are deleted after a retention
// window, together with their verification tokens. The job is idempotent:
// a run that finds no eligible rows deletes nothing, so it can be invoked
// on a schedule in-process or as a standalone binary.
package cleanup

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/synvoy/backend/internal/database"
	"github.com/synvoy/backend/internal/repository"
)

// Run deletes every user that is still unverified and older than the
// retention window. Each user is removed as one transactional unit: token
// rows first, then the user row. A failure rolls back only the current
// unit; users already committed stay deleted, and the remaining eligible
// rows are picked up by the next scheduled run. Returns the number of
// accounts deleted.
func Run(ctx context.Context, db *sql.DB, retention time.Duration) (int, error) {
	users := repository.NewUserRepo(db)
	tokens := repository.NewVerificationTokenRepo(db)

	cutoff := time.Now().UTC().Add(-retention)
	eligible, err := users.ListUnverifiedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, u := range eligible {
		uid := u.ID
		err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
			if err := tokens.DeleteByUserTx(ctx, tx, uid); err != nil {
				return err
			}
			return users.DeleteTx(ctx, tx, uid)
		})
		if err != nil {
			// Skip this unit; it stays eligible for the next run.
			log.Printf("cleanup: delete user id=%d failed: %v", uid, err)
			continue
		}
		deleted++
		log.Printf("cleanup: deleted unverified account %s (created %s)", u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	return deleted, nil
}

// Start runs the cleanup on a fixed interval until the context is
// cancelled. Errors are logged, never fatal; the next tick re-selects
// whatever is still eligible.
func Start(ctx context.Context, db *sql.DB, interval, retention time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := Run(ctx, db, retention)
			if err != nil {
				log.Printf("cleanup: run failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("cleanup: deleted %d unverified account(s)", n)
			}
		}
	}
}
