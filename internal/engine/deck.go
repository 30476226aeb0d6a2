package engine

import (
	"fmt"
	"math/rand"
)

const (
	// DeckSize is the total number of cards in a fresh deck.
	DeckSize = 60
	// HandSize is the number of cards dealt to each player at game start.
	HandSize = 8
	// WagersPerColor is the number of wager cards per color.
	WagersPerColor = 3
	// MinCardValue and MaxCardValue bound the numbered cards of each color.
	MinCardValue = 2
	MaxCardValue = 10
)

// NewDeck returns the full 60-card deck in canonical order: for each color,
// three wagers followed by the numbered cards 2 through 10.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, color := range ColorOrder {
		for i := 0; i < WagersPerColor; i++ {
			deck = append(deck, Card{Color: color, Value: WagerValue})
		}
		for v := MinCardValue; v <= MaxCardValue; v++ {
			deck = append(deck, Card{Color: color, Value: v})
		}
	}
	return deck
}

// Shuffle permutes deck in place with a Fisher-Yates pass over rng. Given a
// uniform source every permutation is equally likely.
func Shuffle(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// NewShuffledDeck builds a fresh deck and shuffles it with rng.
func NewShuffledDeck(rng *rand.Rand) []Card {
	deck := NewDeck()
	Shuffle(deck, rng)
	return deck
}

// Deal removes the first n cards from deck, returning the dealt hand and the
// remaining deck. The input slice is not modified.
func Deal(deck []Card, n int) (hand, rest []Card, err error) {
	if n > len(deck) {
		return nil, nil, fmt.Errorf("cannot deal %d cards from a deck of %d", n, len(deck))
	}
	hand = make([]Card, n)
	copy(hand, deck[:n])
	rest = make([]Card, len(deck)-n)
	copy(rest, deck[n:])
	return hand, rest, nil
}
