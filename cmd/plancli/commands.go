package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightninglabs/htlcplan/mpprecord"
	"github.com/lightninglabs/htlcplan/payreq"
	"github.com/lightninglabs/htlcplan/planner"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/urfave/cli"
)

func printJSON(resp interface{}) {
	b, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		fatal(err)
	}

	fmt.Println(string(b))
}

// stripPrefix removes the lightning: URI scheme of a payment request.
func stripPrefix(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "lightning:")
}

// netParams returns the chain params of the globally selected network.
func netParams(ctx *cli.Context) *chaincfg.Params {
	net, err := payreq.NetParams(ctx.GlobalString("network"))
	if err != nil {
		fatal(err)
	}

	return net
}

var decodeTLVCommand = cli.Command{
	Name:     "decodetlv",
	Category: "Records",
	Usage:    "Decode the record attached to the final hop of a path.",
	Description: `
	Decode a hex encoded multi-path record as found in the tlv column of
	htlcplan's output. Both the fixed and the onion format are accepted.`,
	ArgsUsage: "tlv",
	Action:    decodeTLV,
}

type decodedRecord struct {
	Format        string `json:"format"`
	PaymentSecret string `json:"payment_secret"`
	TotalMsat     uint64 `json:"total_msat"`
}

func decodeTLV(ctx *cli.Context) error {
	if !ctx.Args().Present() {
		return fmt.Errorf("tlv argument missing")
	}

	record, format, err := mpprecord.Decode(ctx.Args().First())
	if err != nil {
		return err
	}

	printJSON(&decodedRecord{
		Format:        string(format),
		PaymentSecret: hex.EncodeToString(record.PaymentSecret[:]),
		TotalMsat:     uint64(record.TotalMsat),
	})

	return nil
}

var decodePayReqCommand = cli.Command{
	Name:     "decodepayreq",
	Category: "Invoices",
	Usage:    "Show the payment request fields htlcplan uses.",
	Description: "Decode the passed payment request revealing the " +
		"amount, final cltv delta and payment secret htlcplan " +
		"plans with",
	ArgsUsage: "pay_req",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "pay_req",
			Usage: "the bech32 encoded payment request",
		},
	},
	Action: decodePayReq,
}

type decodedPayReq struct {
	AmountMsat        uint64 `json:"amount_msat"`
	MinFinalCLTVDelta uint32 `json:"min_final_cltv_delta"`
	PaymentSecret     string `json:"payment_secret"`
}

func decodePayReq(ctx *cli.Context) error {
	var invoice string

	switch {
	case ctx.IsSet("pay_req"):
		invoice = ctx.String("pay_req")
	case ctx.Args().Present():
		invoice = ctx.Args().First()
	default:
		return fmt.Errorf("pay_req argument missing")
	}

	req, err := payreq.Decode(
		stripPrefix(invoice), netParams(ctx), payreq.Overrides{},
	)
	if err != nil {
		return err
	}

	printJSON(&decodedPayReq{
		AmountMsat:        uint64(req.Amount),
		MinFinalCLTVDelta: req.MinFinalCLTVDelta,
		PaymentSecret:     hex.EncodeToString(req.PaymentSecret),
	})

	return nil
}

var feeCommand = cli.Command{
	Name:     "fee",
	Category: "Routing",
	Usage:    "Compute the fee a hop charges to forward an amount.",
	Flags: []cli.Flag{
		cli.Uint64Flag{
			Name:  "amt",
			Usage: "the amount in msat the hop forwards",
		},
		cli.Uint64Flag{
			Name:  "base",
			Usage: "the base fee of the hop in msat",
		},
		cli.Uint64Flag{
			Name:  "ppm",
			Usage: "the proportional fee rate in parts per million",
		},
	},
	Action: fee,
}

type feeResponse struct {
	AmtToForward uint64 `json:"amt_to_forward_msat"`
	Fee          uint64 `json:"fee_msat"`
	IncomingAmt  uint64 `json:"incoming_amt_msat"`
}

func fee(ctx *cli.Context) error {
	if !ctx.IsSet("amt") {
		return fmt.Errorf("amt argument missing")
	}

	resp, err := newFeeResponse(
		lnwire.MilliSatoshi(ctx.Uint64("amt")),
		lnwire.MilliSatoshi(ctx.Uint64("base")), ctx.Uint64("ppm"),
	)
	if err != nil {
		return err
	}

	printJSON(resp)

	return nil
}

// newFeeResponse computes the fee of a single hop and the amount it must
// receive to forward amt.
func newFeeResponse(amt, base lnwire.MilliSatoshi,
	ppm uint64) (*feeResponse, error) {

	hop := &planner.Hop{
		FeeBaseMSat:               base,
		FeeProportionalMillionths: ppm,
	}

	hopFee, err := planner.ComputeFee(amt, hop)
	if err != nil {
		return nil, err
	}

	incomingAmt, err := planner.AddFee(amt, hopFee)
	if err != nil {
		return nil, err
	}

	return &feeResponse{
		AmtToForward: uint64(amt),
		Fee:          uint64(hopFee),
		IncomingAmt:  uint64(incomingAmt),
	}, nil
}
