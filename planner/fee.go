package planner

import (
	"math"
	"math/bits"

	"github.com/lightningnetwork/lnd/lnwire"
)

// feeRateParts is the number of parts the proportional fee rate is expressed
// in.
const feeRateParts = 1_000_000

// ComputeFee computes the fee a hop charges to forward amt over its channel:
// the base fee plus the proportional fee rounded down. The product of amount
// and rate is computed at 128 bits, so an error is only returned when the fee
// itself doesn't fit into 64 bits.
func ComputeFee(amt lnwire.MilliSatoshi, hop *Hop) (lnwire.MilliSatoshi,
	error) {

	hi, lo := bits.Mul64(uint64(amt), hop.FeeProportionalMillionths)
	if hi >= feeRateParts {
		return 0, newErrf(ErrArithmeticOverflow, "proportional fee "+
			"of %v at %d ppm overflows", amt,
			hop.FeeProportionalMillionths)
	}
	propFee, _ := bits.Div64(hi, lo, feeRateParts)

	fee, carry := bits.Add64(uint64(hop.FeeBaseMSat), propFee, 0)
	if carry != 0 {
		return 0, newErrf(ErrArithmeticOverflow, "fee of channel %v "+
			"overflows", hop.ChannelName)
	}

	return lnwire.MilliSatoshi(fee), nil
}

// AddFee adds a hop fee to the amount it forwards, yielding the amount the
// hop must receive. An ErrArithmeticOverflow error is returned if the sum
// doesn't fit into 64 bits.
func AddFee(amt, fee lnwire.MilliSatoshi) (lnwire.MilliSatoshi, error) {
	sum, carry := bits.Add64(uint64(amt), uint64(fee), 0)
	if carry != 0 {
		return 0, newErrf(ErrArithmeticOverflow, "amount %v plus fee "+
			"%v overflows", amt, fee)
	}

	return lnwire.MilliSatoshi(sum), nil
}

// addExpiry adds a time-lock delta to an absolute expiry, failing on
// overflow.
func addExpiry(expiry, delta uint32) (uint32, error) {
	if delta > math.MaxUint32-expiry {
		return 0, newErrf(ErrArithmeticOverflow, "expiry %d plus "+
			"delta %d overflows", expiry, delta)
	}

	return expiry + delta, nil
}
