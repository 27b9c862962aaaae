package cache

import (
	"context"

	"github.com/google/uuid"

	"bookie/events"
)

// Invalidator drops a cached quote for a (match, team) pair
type Invalidator interface {
	Invalidate(ctx context.Context, matchID, teamID uuid.UUID)
}

// RegisterInvalidator subscribes cache eviction to the match lifecycle
// events, so quotes stop being served from cache as soon as a match
// leaves the bettable state instead of lingering for the full TTL.
func RegisterInvalidator(bus *events.Bus, inv Invalidator) {
	evict := func(ctx context.Context, matchID, team1ID, team2ID uuid.UUID) {
		inv.Invalidate(ctx, matchID, team1ID)
		inv.Invalidate(ctx, matchID, team2ID)
	}

	bus.Subscribe(events.EventTypeMatchWentLive, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchWentLiveEvent)
		evict(ctx, ev.MatchID, ev.Team1ID, ev.Team2ID)
	})
	bus.Subscribe(events.EventTypeMatchSettled, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchSettledEvent)
		evict(ctx, ev.MatchID, ev.Team1ID, ev.Team2ID)
	})
	bus.Subscribe(events.EventTypeMatchCancelled, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchCancelledEvent)
		evict(ctx, ev.MatchID, ev.Team1ID, ev.Team2ID)
	})
}
