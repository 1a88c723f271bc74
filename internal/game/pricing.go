package game

import "github.com/holiman/uint256"

const (
	// MaxKeysPerBuy caps a single purchase, matching the program limit.
	MaxKeysPerBuy = 10_000

	bpsDenominator = 10_000
)

// PriceAt returns the price of the key at keyIndex (0-based ordinal, i.e.
// the number of keys already sold): basePrice + increment * keyIndex.
// All amounts are lamports.
func PriceAt(keyIndex, basePrice, increment uint64) (uint64, error) {
	p := new(uint256.Int).Mul(uint256.NewInt(increment), uint256.NewInt(keyIndex))
	p.Add(p, uint256.NewInt(basePrice))
	if !p.IsUint64() {
		return 0, ErrOverflow
	}
	return p.Uint64(), nil
}

// CumulativeCost returns the total cost of buying count keys starting at
// startIndex, using the program's closed-form arithmetic series:
//
//	count*base + increment * count * (2*startIndex + count - 1) / 2
//
// Intermediates are 256-bit, so overflow is only possible at the final
// narrowing back to lamports.
func CumulativeCost(startIndex, count, basePrice, increment uint64) (uint64, error) {
	if count == 0 || count > MaxKeysPerBuy {
		return 0, ErrInvalidAmount
	}
	n := uint256.NewInt(count)

	total := new(uint256.Int).Mul(n, uint256.NewInt(basePrice))

	series := new(uint256.Int).Mul(uint256.NewInt(startIndex), uint256.NewInt(2))
	series.Add(series, n)
	series.Sub(series, uint256.NewInt(1))
	series.Mul(series, n)
	series.Mul(series, uint256.NewInt(increment))
	series.Div(series, uint256.NewInt(2))

	total.Add(total, series)
	if !total.IsUint64() {
		return 0, ErrOverflow
	}
	return total.Uint64(), nil
}

// NextKeyPrice is the price of the next key in the snapshot's round.
func (s *GameSnapshot) NextKeyPrice() (uint64, error) {
	return PriceAt(s.TotalKeys, s.Config.BasePriceLamports, s.Config.PriceIncrementLamports)
}

// BpsSplit computes amount * bps / 10000, truncating toward zero exactly
// as the program does.
func BpsSplit(amount, bps uint64) (uint64, error) {
	v := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(bps))
	v.Div(v, uint256.NewInt(bpsDenominator))
	if !v.IsUint64() {
		return 0, ErrOverflow
	}
	return v.Uint64(), nil
}

// ValidateBpsSum enforces the program rule that the three pot splits sum
// to exactly 10000. Protocol fee and referral bonus sit outside the sum.
func ValidateBpsSum(winnerBps, dividendBps, nextRoundBps uint64) error {
	sum := winnerBps + dividendBps + nextRoundBps
	if sum < winnerBps || sum != bpsDenominator {
		return &IntegrityError{Field: "pot_bps", Detail: "winner+dividend+next_round must sum to 10000"}
	}
	return nil
}

// TimerExtension computes the timer end after a purchase: the timer only
// moves forward and is capped at roundStart + maxTimerSecs.
func TimerExtension(now, extensionSecs, currentTimerEnd, roundStart, maxTimerSecs int64) int64 {
	extended := now + extensionSecs
	if extended < currentTimerEnd {
		extended = currentTimerEnd
	}
	if cap := roundStart + maxTimerSecs; extended > cap {
		extended = cap
	}
	return extended
}
