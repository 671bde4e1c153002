package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/storage"
	"github.com/jackc/pgx/v5"
)

// Seed loads the demo directory in one transaction. It is a no-op when
// clubs already exist.
func (s *Store) Seed(ctx context.Context, now time.Time) error {
	return s.withTx(ctx, "seed", func(tx pgx.Tx) error {
		var populated bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clubs)`).Scan(&populated); err != nil {
			return fmt.Errorf("check clubs: %w", err)
		}
		if populated {
			return nil
		}

		for _, fixture := range storage.Fixtures(now) {
			club, err := insertClub(ctx, s, tx, fixture.Club, fixture.MemberCount)
			if err != nil {
				return err
			}
			for _, ev := range fixture.Events {
				ev.Event.ClubID = club.ID
				if _, err := insertEvent(ctx, s, tx, ev.Event, ev.RSVPCount); err != nil {
					return err
				}
			}
			for _, a := range fixture.Announcements {
				a.ClubID = club.ID
				if _, err := insertAnnouncement(ctx, s, tx, a); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
