package memory

import (
	"fmt"
	"math/rand/v2"
)

// Screen is the memory game's current screen.
type Screen uint8

const (
	ScreenStart Screen = iota
	ScreenRules
	ScreenGame
	ScreenGameOver
)

func (s Screen) String() string {
	switch s {
	case ScreenStart:
		return "start"
	case ScreenRules:
		return "rules"
	case ScreenGame:
		return "game"
	case ScreenGameOver:
		return "gameover"
	default:
		return fmt.Sprintf("Screen(%d)", uint8(s))
	}
}

// Result is the outcome shown on the game-over screen.
type Result uint8

const (
	ResultLoss Result = iota
	ResultWin
)

// Card is one position in the shuffled deck. ID is the card's index in the
// deck and never changes during a game.
type Card struct {
	ID      int
	Type    string
	Flipped bool
	Matched bool
}

// State is everything a game session tracks. It is owned by one Scene.
type State struct {
	Screen   Screen
	Score    int
	TimeLeft int
	Cards    []Card
	// Flipped holds the ids of revealed cards waiting for evaluation, in
	// the order they were flipped. Never more than two.
	Flipped []int
	Matched map[int]struct{}
	Result  Result
}

// AllMatched reports whether every card in the deck is matched.
func (s *State) AllMatched() bool {
	if len(s.Cards) == 0 {
		return false
	}
	for _, c := range s.Cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

// MatchedPairs returns the number of matched pairs.
func (s *State) MatchedPairs() int {
	return len(s.Matched) / 2
}

// NewDeck returns every symbol twice, shuffled, with ids equal to the final
// positions.
func NewDeck(symbols []string, shuffle func([]string)) []Card {
	all := make([]string, 0, len(symbols)*2)
	all = append(all, symbols...)
	all = append(all, symbols...)
	if shuffle != nil {
		shuffle(all)
	}
	cards := make([]Card, len(all))
	for i, typ := range all {
		cards[i] = Card{ID: i, Type: typ}
	}
	return cards
}

// FisherYates shuffles s in place with a uniform random permutation drawn
// from r.
func FisherYates(r *rand.Rand) func([]string) {
	return func(s []string) {
		for i := len(s) - 1; i > 0; i-- {
			j := r.IntN(i + 1)
			s[i], s[j] = s[j], s[i]
		}
	}
}

// formatTime renders seconds as mm:ss.
func formatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
