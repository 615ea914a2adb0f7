package wheel

import "github.com/unionmart/lucky-wheel-service/internal/model"

// SelectPrize picks a prize by cumulative probability in table order: the
// first prize whose cumulative probability meets or exceeds draw wins. When
// the table is under-summed (probabilities total < 1) and draw lands in the
// gap, the last prize wins. That fallback biases misconfigured tables toward
// the final entry; it is kept as the documented policy rather than silently
// redistributed.
//
// Deterministic given draw, which callers obtain from an injected RNG.
func SelectPrize(prizes []model.Prize, draw float64) model.Prize {
	cumulative := 0.0
	for _, p := range prizes {
		cumulative += p.Probability
		if draw <= cumulative {
			return p
		}
	}
	return prizes[len(prizes)-1]
}
