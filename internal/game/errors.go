package game

import "errors"

// Rejected actions. These are reported to the acting connection only and
// leave table state unchanged.
var (
	ErrBettingClosed      = errors.New("betting is closed")
	ErrUnknownParticipant = errors.New("player not found")
	ErrInvalidAmount      = errors.New("invalid bet amount")
	ErrInsufficientChips  = errors.New("not enough chips")
	ErrDuplicateBet       = errors.New("bet already placed this round")
	ErrTableFull          = errors.New("table is full for this round")
	ErrNoBets             = errors.New("no bets placed, cannot start game")
	ErrAlreadyInProgress  = errors.New("game already in progress")
	ErrRoundInProgress    = errors.New("game (playing phase) already in progress")
	ErrInvalidName        = errors.New("player name required")
	ErrAlreadyJoined      = errors.New("player already joined")
)

// ErrMissingEntrant marks a broken invariant: an operation expected a round
// record that does not exist.
var ErrMissingEntrant = errors.New("missing entrant record")

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrBettingClosed, "betting_closed"},
	{ErrUnknownParticipant, "unknown_participant"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrInsufficientChips, "insufficient_chips"},
	{ErrDuplicateBet, "duplicate_bet"},
	{ErrTableFull, "table_full"},
	{ErrNoBets, "no_bets"},
	{ErrAlreadyInProgress, "already_in_progress"},
	{ErrRoundInProgress, "round_in_progress"},
	{ErrInvalidName, "invalid_name"},
	{ErrAlreadyJoined, "already_joined"},
}

// ErrorCode maps an error returned by Table to a stable wire code. Anything
// that is not a rejected action is reported as "internal".
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}
