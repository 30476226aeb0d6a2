package engine

const (
	// expeditionCost is the up-front investment charged to any started expedition.
	expeditionCost = -20
	// bonusThreshold is the card count at which the completion bonus applies.
	bonusThreshold = 8
	// completionBonus is added to the sum (pre-multiplier) at the threshold.
	completionBonus = 20
)

// ScoreExpedition computes the final score of one expedition column.
// An untouched expedition scores zero. Otherwise the numbered card values are
// summed against the -20 cost, the 8-card bonus is added, and the result is
// multiplied by one plus the number of wager cards. Negative results are
// normal: a lone wager scores -40.
func ScoreExpedition(cards []Card) int {
	if len(cards) == 0 {
		return 0
	}
	sum := expeditionCost
	multiplier := 1
	for _, c := range cards {
		if c.IsWager() {
			multiplier++
		} else {
			sum += c.Value
		}
	}
	if len(cards) >= bonusThreshold {
		sum += completionBonus
	}
	return sum * multiplier
}

// ScoreExpeditions totals a player's five expeditions and returns the
// per-color breakdown alongside the total.
func ScoreExpeditions(expeditions map[Color][]Card) (total int, details map[Color]int) {
	details = make(map[Color]int, len(ColorOrder))
	for _, color := range ColorOrder {
		score := ScoreExpedition(expeditions[color])
		details[color] = score
		total += score
	}
	return total, details
}
