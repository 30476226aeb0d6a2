// Package engine implements the pure rules of the expedition card game:
// deck composition, shuffling, dealing, hand ordering and scoring. It holds
// no shared state; callers own all slices and supply their own randomness.
package engine

import "sort"

// Color identifies one of the five expedition colors.
type Color string

const (
	Red    Color = "red"
	Green  Color = "green"
	Blue   Color = "blue"
	White  Color = "white"
	Yellow Color = "yellow"
)

// ColorOrder is the fixed display precedence used for hand sorting and
// score breakdowns.
var ColorOrder = []Color{Red, Green, Blue, White, Yellow}

// WagerValue is the value carried by wager (investment) cards.
const WagerValue = 0

// Card is a single immutable playing card. Value is WagerValue for the three
// wager cards of each color, otherwise 2 through 10.
type Card struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// IsWager reports whether c is a wager card.
func (c Card) IsWager() bool { return c.Value == WagerValue }

func colorIndex(c Color) int {
	for i, v := range ColorOrder {
		if v == c {
			return i
		}
	}
	return len(ColorOrder)
}

// SortHand returns a stably sorted copy of hand: color precedence first, then
// ascending value. Wagers carry value 0, so they naturally sort ahead of the
// numbered cards of their color.
func SortHand(hand []Card) []Card {
	sorted := make([]Card, len(hand))
	copy(sorted, hand)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ca, cb := colorIndex(a.Color), colorIndex(b.Color); ca != cb {
			return ca < cb
		}
		return a.Value < b.Value
	})
	return sorted
}
