package game

import "fmt"

// Phase is the table-wide round phase
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseBettingOpen
	PhaseDealing
	PhasePlayerTurns
	PhaseDealerTurn
	PhaseSettlement
)

// String returns the wire name of the phase
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseBettingOpen:
		return "bettingOpen"
	case PhaseDealing:
		return "dealing"
	case PhasePlayerTurns:
		return "playerTurns"
	case PhaseDealerTurn:
		return "dealerTurn"
	case PhaseSettlement:
		return "settlement"
	default:
		return "unknown"
	}
}

// InProgress reports whether cards are out and the round has not settled.
func (p Phase) InProgress() bool {
	return p == PhaseDealing || p == PhasePlayerTurns || p == PhaseDealerTurn
}

func (p Phase) MarshalText() ([]byte, error) {
	if p < PhaseLobby || p > PhaseSettlement {
		return nil, fmt.Errorf("invalid phase: %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for candidate := PhaseLobby; candidate <= PhaseSettlement; candidate++ {
		if candidate.String() == string(b) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid phase %q", string(b))
}
