package tracker

import (
	"context"
	"fmt"
	"sort"

	"github.com/meltforce/liftlog/internal/models"
)

// HistorySource lists completed sessions. Store satisfies it.
type HistorySource interface {
	ListHistory(ctx context.Context) ([]models.Session, error)
}

// History returns completed sessions, newest first. A positive limit keeps
// only that many.
func History(ctx context.Context, store HistorySource, limit int) ([]models.Session, error) {
	sessions, err := store.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartAt.After(sessions[j].StartAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// LoadHistoryDetail reads a past session and groups it for display. It does
// not touch any Manager state.
func LoadHistoryDetail(ctx context.Context, store Store, sessionID string) (View, error) {
	detail, err := store.SessionDetail(ctx, sessionID)
	if err != nil {
		return View{}, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	return ViewOf(Loaded{Detail: *detail}.apply(Snapshot{})), nil
}
