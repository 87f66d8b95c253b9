package payreq

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightninglabs/htlcplan/planner"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
)

// ErrNoAmount is returned when neither the invoice nor the overrides specify
// an amount.
var ErrNoAmount = errors.New("payment amount not specified")

// Overrides replace or supply the invoice fields the planner needs. They are
// used when no invoice is given, or when the invoice lacks a field.
type Overrides struct {
	// Amount replaces the invoice amount.
	Amount fn.Option[lnwire.MilliSatoshi]

	// MinFinalCLTVDelta replaces the invoice's final CLTV delta.
	MinFinalCLTVDelta fn.Option[uint32]

	// PaymentSecret replaces the invoice's payment address.
	PaymentSecret fn.Option[[]byte]
}

// Request is the part of a payment request the planner needs.
type Request struct {
	// Amount is the amount requested by the recipient.
	Amount lnwire.MilliSatoshi

	// MinFinalCLTVDelta is the final CLTV delta of the invoice.
	MinFinalCLTVDelta uint32

	// PaymentSecret is the invoice's payment address.
	PaymentSecret []byte
}

// PaymentContext turns the request into the planner's payment context at the
// given block height.
func (r *Request) PaymentContext(height uint32) *planner.PaymentContext {
	return &planner.PaymentContext{
		Amount:            r.Amount,
		MinFinalCLTVDelta: r.MinFinalCLTVDelta,
		CurrentHeight:     height,
		PaymentSecret:     r.PaymentSecret,
	}
}

// NetParams returns the chain parameters for the given network name.
func NetParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil

	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil

	case "regtest":
		return &chaincfg.RegressionNetParams, nil

	case "simnet":
		return &chaincfg.SimNetParams, nil

	case "signet":
		return &chaincfg.SigNetParams, nil

	default:
		return nil, fmt.Errorf("unknown network: %v", network)
	}
}

// Decode decodes the BOLT 11 invoice for the given network and applies the
// overrides on top of it. An empty invoice string is allowed as long as the
// overrides supply an amount.
func Decode(invoice string, net *chaincfg.Params,
	overrides Overrides) (*Request, error) {

	req := &Request{
		MinFinalCLTVDelta: uint32(zpay32.DefaultAssumedFinalCLTVDelta),
	}

	if invoice != "" {
		inv, err := zpay32.Decode(invoice, net)
		if err != nil {
			return nil, fmt.Errorf("unable to decode payment "+
				"request: %w", err)
		}

		if inv.MilliSat != nil {
			req.Amount = *inv.MilliSat
		}

		finalDelta := inv.MinFinalCLTVExpiry()
		if finalDelta > math.MaxUint32 {
			return nil, fmt.Errorf("final cltv delta %d out of "+
				"range", finalDelta)
		}
		req.MinFinalCLTVDelta = uint32(finalDelta)

		inv.PaymentAddr.WhenSome(func(addr [32]byte) {
			req.PaymentSecret = addr[:]
		})

		log.Debugf("Decoded payment request: amt=%v, "+
			"final_cltv_delta=%d, payment_addr=%x", req.Amount,
			req.MinFinalCLTVDelta, req.PaymentSecret)
	}

	overrides.Amount.WhenSome(func(amt lnwire.MilliSatoshi) {
		log.Debugf("Overriding amount with %v", amt)
		req.Amount = amt
	})
	overrides.MinFinalCLTVDelta.WhenSome(func(delta uint32) {
		log.Debugf("Overriding final cltv delta with %d", delta)
		req.MinFinalCLTVDelta = delta
	})
	overrides.PaymentSecret.WhenSome(func(secret []byte) {
		log.Debugf("Overriding payment secret with %x", secret)
		req.PaymentSecret = secret
	})

	if req.Amount == 0 {
		return nil, ErrNoAmount
	}
	// A missing secret only matters once the payment is split, which is
	// up to the planner to find out.
	if len(req.PaymentSecret) == 0 {
		log.Warnf("Payment request carries no payment secret")
	}

	return req, nil
}

// ParseSecret decodes a hex encoded payment secret.
func ParseSecret(s string) ([]byte, error) {
	secret, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid payment secret: %w", err)
	}

	return secret, nil
}
