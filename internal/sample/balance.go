package sample

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyInput is returned when a selection is attempted over no samples.
var ErrEmptyInput = errors.New("no samples to select from")

// ErrIndexOutOfRange is returned by SelectByIndex for an index outside the
// batch.
var ErrIndexOutOfRange = errors.New("sample index out of range")

// balanceTarget is the proportion of a perfectly even three-way split.
const balanceTarget = 100.0 / 3

// BalanceScore measures how far a set of cluster proportions deviates from
// an even three-way split. Zero means perfectly balanced; lower is better.
func BalanceScore(proportions [3]float64) float64 {
	var score float64
	for _, p := range proportions {
		score += math.Abs(p - balanceTarget)
	}
	return score
}

// SelectMostBalanced returns the row whose cluster proportions are closest
// to an even split. Ties go to the earliest row in input order, so the
// result is deterministic for a given batch.
func SelectMostBalanced(rows []Row) (Row, error) {
	if len(rows) == 0 {
		return Row{}, ErrEmptyInput
	}

	best := 0
	bestScore := BalanceScore(rows[0].Proportions())
	for i, r := range rows[1:] {
		if score := BalanceScore(r.Proportions()); score < bestScore {
			best = i + 1
			bestScore = score
		}
	}
	return rows[best], nil
}

// SelectByIndex returns the row at the given index with bounds checking.
func SelectByIndex(rows []Row, index int) (Row, error) {
	if len(rows) == 0 {
		return Row{}, ErrEmptyInput
	}
	if index < 0 || index >= len(rows) {
		return Row{}, fmt.Errorf("%w: index %d with %d samples", ErrIndexOutOfRange, index, len(rows))
	}
	return rows[index], nil
}
