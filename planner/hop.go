package planner

import (
	"fmt"

	"github.com/lightningnetwork/lnd/lnwire"
)

// NullTLV is the value placed in the record column of every HTLC that doesn't
// carry a multi-path record.
const NullTLV = "NULL"

// Hop is a single forwarding channel within a payment path, together with the
// forwarding policy the channel advertises. Hops are read once and never
// modified afterwards.
type Hop struct {
	// PathID is the index of the path this hop belongs to.
	PathID uint32

	// ChannelName identifies the channel. It is unique within a path, but
	// not necessarily across paths.
	ChannelName string

	// TimeLockDelta is the number of blocks this hop requires between the
	// expiry of its incoming and outgoing HTLC.
	TimeLockDelta uint32

	// FeeBaseMSat is the flat fee charged for forwarding an HTLC over the
	// channel.
	FeeBaseMSat lnwire.MilliSatoshi

	// FeeProportionalMillionths is the fee rate charged for every
	// millionth of the forwarded amount.
	FeeProportionalMillionths uint64
}

// String returns a human readable representation of the hop.
func (h *Hop) String() string {
	return fmt.Sprintf("path=%d chan=%s cltv_delta=%d base=%v ppm=%d",
		h.PathID, h.ChannelName, h.TimeLockDelta, h.FeeBaseMSat,
		h.FeeProportionalMillionths)
}

// Path is an ordered sequence of hops sharing the same path id. The hops are
// kept in forwarding order, so the first hop is the one nearest the sender
// and the last one is the one nearest the recipient.
type Path struct {
	// ID is the path id shared by all hops of the path.
	ID uint32

	// Hops is the list of hops in sender-to-recipient order.
	Hops []*Hop
}

// IsEmpty returns true if no hop was assigned to the path.
func (p *Path) IsEmpty() bool {
	return len(p.Hops) == 0
}

// PaymentContext holds the invoice-derived parameters shared by every path of
// a payment. It is created once per run and only ever read.
type PaymentContext struct {
	// Amount is the total amount the recipient should receive, summed
	// over all paths.
	Amount lnwire.MilliSatoshi

	// MinFinalCLTVDelta is the minimum number of blocks the final HTLC
	// must remain locked above the current height.
	MinFinalCLTVDelta uint32

	// CurrentHeight is the block height expiries are computed from.
	CurrentHeight uint32

	// PaymentSecret is the 32 byte payment secret of the invoice. It is
	// only used when the payment is split over more than one path.
	PaymentSecret []byte
}

// Validate checks that the payment context describes a payment that can be
// planned.
func (p *PaymentContext) Validate() error {
	if p.Amount == 0 {
		return newErrf(ErrInvalidPaymentContext,
			"payment amount must be positive")
	}

	return nil
}

// HtlcInstruction describes the HTLC a single hop has to offer on its
// outgoing channel.
type HtlcInstruction struct {
	// PathID is the id of the path the hop belongs to.
	PathID uint32

	// ChannelName is the name of the hop's outgoing channel.
	ChannelName string

	// AmtToForward is the amount the hop forwards over its channel.
	AmtToForward lnwire.MilliSatoshi

	// Expiry is the absolute block height the outgoing HTLC expires at.
	Expiry uint32

	// TLV is either NullTLV or the hex encoded multi-path record attached
	// to the final hop of a split payment.
	TLV string

	// DistanceFromRecipient is the position of the hop counted from the
	// recipient. The hop nearest the recipient has distance zero.
	DistanceFromRecipient int
}

// IsFinalHop returns true if the instruction belongs to the hop nearest the
// recipient.
func (h *HtlcInstruction) IsFinalHop() bool {
	return h.DistanceFromRecipient == 0
}
