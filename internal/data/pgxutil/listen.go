package pgxutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Listen pins one pooled connection, LISTENs on channel and calls onNotify with
// every payload until ctx is done or the connection fails. listening runs once
// the LISTEN is registered. The connection is held for the whole call, so one
// caller should fan payloads out rather than each consumer listening itself.
func Listen(ctx context.Context, db *sql.DB, channel string, listening func(), onNotify func(payload string)) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer conn.Close() //nolint:errcheck // returning the conn to the pool

	quoted := pgx.Identifier{channel}.Sanitize()
	if _, err := conn.ExecContext(ctx, "LISTEN "+quoted); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	// ctx may be done by now; UNLISTEN must still run before the conn returns to the pool.
	defer conn.ExecContext(context.Background(), "UNLISTEN "+quoted) //nolint:errcheck // best effort

	if listening != nil {
		listening()
	}
	return rawPgx(conn, func(pc *pgx.Conn) error {
		for {
			n, err := pc.WaitForNotification(ctx)
			if err != nil {
				return err
			}
			onNotify(n.Payload)
		}
	})
}
