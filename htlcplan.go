package htlcplan

import (
	"context"
	"fmt"

	"github.com/lightninglabs/htlcplan/build"
	"github.com/lightninglabs/htlcplan/hopfile"
	"github.com/lightninglabs/htlcplan/mpprecord"
	"github.com/lightninglabs/htlcplan/payreq"
	"github.com/lightninglabs/htlcplan/planner"
	"github.com/lightningnetwork/lnd/clock"
)

// Main is the true entry point of htlcplan. It reads the hops, decodes the
// payment request, plans the HTLCs of every path and writes them to
// output.csv within the configured output directory.
func Main(ctx context.Context, cfg *Config) error {
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	hplnLog.Infof("Version: %s commit=%s", build.Version(), build.Commit)

	outFile, err := run(ctx, cfg, clock.NewDefaultClock())
	if err != nil {
		hplnLog.Errorf("Unable to plan payment: %v", err)
		return err
	}

	fmt.Printf("Successfully wrote output to %s\n", outFile)

	return nil
}

// run executes a single planning run and returns the path of the output file.
func run(ctx context.Context, cfg *Config, clk clock.Clock) (string, error) {
	start := clk.Now()

	hops, err := hopfile.ReadHopsFile(cfg.HopsFile)
	if err != nil {
		return "", err
	}

	net, err := payreq.NetParams(cfg.Network)
	if err != nil {
		return "", err
	}
	overrides, err := cfg.Overrides()
	if err != nil {
		return "", err
	}
	req, err := payreq.Decode(cfg.PayReq, net, overrides)
	if err != nil {
		return "", err
	}

	encoder, err := mpprecord.EncoderForFormat(
		mpprecord.Format(cfg.TLVFormat),
	)
	if err != nil {
		return "", err
	}

	p := planner.New(planner.Config{
		EncodeRecord: encoder,
		Workers:      cfg.Workers,
	})
	htlcs, err := p.Plan(ctx, hops, req.PaymentContext(cfg.Height))
	if err != nil {
		return "", err
	}

	outFile, err := hopfile.WriteHtlcsFile(cfg.OutputDir, htlcs)
	if err != nil {
		return "", err
	}

	hplnLog.Infof("Planned %d htlc(s) from %d hop(s) in %v", len(htlcs),
		len(hops), clk.Now().Sub(start))

	return outFile, nil
}
