package planner

import (
	"github.com/lightninglabs/htlcplan/mpprecord"
	"github.com/lightningnetwork/lnd/lnwire"
)

// PerPathAmount returns the amount delivered to the recipient over each path
// when the payment is split over numPaths non-empty paths. A split amount is
// rounded down, so the parts of an amount that isn't evenly divisible sum up
// to less than the total.
func PerPathAmount(total lnwire.MilliSatoshi, numPaths int) lnwire.MilliSatoshi {
	if numPaths <= 1 {
		return total
	}

	return total / lnwire.MilliSatoshi(numPaths)
}

// Propagate computes the HTLC every hop of the path has to offer, given that
// the payment is split over numPaths non-empty paths. The instructions are
// returned in the order of the path's hops.
func Propagate(path *Path, pctx *PaymentContext,
	numPaths int) ([]*HtlcInstruction, error) {

	return propagate(path, pctx, numPaths, mpprecord.EncodePaymentData)
}

// propagate walks the path from the recipient back to the sender. The amount
// and expiry start out as what the recipient should receive, and each hop's
// own fee and time-lock delta are added after its HTLC has been emitted, since
// they are charged by the hop preceding it.
func propagate(path *Path, pctx *PaymentContext, numPaths int,
	encode mpprecord.Encoder) ([]*HtlcInstruction, error) {

	numHops := len(path.Hops)
	if numHops == 0 {
		return nil, nil
	}

	multiPath := numPaths > 1

	// Only the final hop of a split payment carries a record, and it is
	// identical for every path, so it is computed once upfront.
	finalTLV := NullTLV
	if multiPath {
		var err error
		finalTLV, err = encode(pctx.PaymentSecret, pctx.Amount)
		if err != nil {
			return nil, wrapErr(ErrSecretLengthMismatch, err)
		}
	}

	amt := PerPathAmount(pctx.Amount, numPaths)
	expiry, err := addExpiry(pctx.CurrentHeight, pctx.MinFinalCLTVDelta)
	if err != nil {
		return nil, err
	}

	htlcs := make([]*HtlcInstruction, numHops)
	for dist := 0; dist < numHops; dist++ {
		idx := numHops - 1 - dist
		hop := path.Hops[idx]

		htlc := &HtlcInstruction{
			PathID:                path.ID,
			ChannelName:           hop.ChannelName,
			AmtToForward:          amt,
			Expiry:                expiry,
			TLV:                   NullTLV,
			DistanceFromRecipient: dist,
		}
		if htlc.IsFinalHop() {
			htlc.TLV = finalTLV
		}

		// As we're walking the path backwards, the instruction is
		// placed at the hop's position in forwarding order.
		htlcs[idx] = htlc

		// The first hop has no predecessor on the path that would
		// pay for it, so there is nothing left to accumulate.
		if idx == 0 {
			break
		}

		fee, err := ComputeFee(amt, hop)
		if err != nil {
			return nil, err
		}
		amt, err = AddFee(amt, fee)
		if err != nil {
			return nil, err
		}
		expiry, err = addExpiry(expiry, hop.TimeLockDelta)
		if err != nil {
			return nil, err
		}
	}

	return htlcs, nil
}
