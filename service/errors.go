package service

import "errors"

// Domain error taxonomy. Every failure of the wagering core maps onto
// one of these sentinels so callers can branch with errors.Is.
var (
	// ErrInvalidStake is returned when the stake amount is not positive.
	ErrInvalidStake = errors.New("stake amount must be positive")

	// ErrInvalidTeam is returned when the team does not participate in the match.
	ErrInvalidTeam = errors.New("team is not a participant of this match")

	// ErrInvalidOdds is returned when a quote is below the minimum odds.
	ErrInvalidOdds = errors.New("odds below the minimum allowed value")

	// ErrMatchNotBettable is returned when the match no longer accepts bets.
	ErrMatchNotBettable = errors.New("match is not open for betting")

	// ErrOddsUnavailable is returned when no usable quote exists for the pair.
	ErrOddsUnavailable = errors.New("no odds available for this selection")

	// ErrInsufficientBalance is returned when the account cannot cover the stake.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAlreadySettled is returned when a match was already completed or
	// cancelled. Permanent for that match; retrying cannot succeed.
	ErrAlreadySettled = errors.New("match already settled")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned when a required row lock could not be acquired
	// within the configured budget. Safe to retry; no partial state persists.
	ErrBusy = errors.New("resource busy, try again")
)
