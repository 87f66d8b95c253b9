package planner

import (
	"context"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/lightninglabs/htlcplan/mpprecord"
	"golang.org/x/sync/errgroup"
)

// Config holds the options of a Planner.
type Config struct {
	// EncodeRecord renders the record attached to the final hop of each
	// path of a multi-path payment. If nil, the fixed layout of
	// mpprecord.EncodePaymentData is used.
	EncodeRecord mpprecord.Encoder

	// Workers is the maximum number of paths propagated concurrently. A
	// value below two propagates the paths one after another.
	Workers int
}

// Planner computes the HTLCs needed to deliver a payment over a set of
// pre-selected paths.
type Planner struct {
	cfg Config
}

// New creates a new planner from the given config.
func New(cfg Config) *Planner {
	if cfg.EncodeRecord == nil {
		cfg.EncodeRecord = mpprecord.EncodePaymentData
	}

	return &Planner{cfg: cfg}
}

// Plan groups the hops into paths, propagates amounts and expiries along each
// non-empty path and returns all instructions sorted by path id and channel
// name. An empty set of hops results in an empty plan.
func (p *Planner) Plan(ctx context.Context, hops []*Hop,
	pctx *PaymentContext) ([]*HtlcInstruction, error) {

	if err := pctx.Validate(); err != nil {
		return nil, err
	}

	grouped, err := GroupByPath(hops)
	if err != nil {
		return nil, err
	}

	paths := nonEmpty(grouped)
	numPaths := len(paths)
	if numPaths == 0 {
		log.Infof("No hops given, nothing to plan")
		return nil, nil
	}

	log.Infof("Planning payment of %v over %d path(s) (%d path ids), "+
		"%v per path", pctx.Amount, numPaths, len(grouped),
		PerPathAmount(pctx.Amount, numPaths))

	results := make([][]*HtlcInstruction, numPaths)

	g, ctx := errgroup.WithContext(ctx)
	if p.cfg.Workers > 1 {
		g.SetLimit(p.cfg.Workers)
	} else {
		g.SetLimit(1)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			htlcs, err := propagate(
				path, pctx, numPaths, p.cfg.EncodeRecord,
			)
			if err != nil {
				log.Errorf("Unable to propagate path %d: %v",
					path.ID, err)

				return err
			}

			log.Debugf("Path %d: sender offers %v expiring at %d "+
				"over %d hop(s)", path.ID,
				htlcs[0].AmtToForward, htlcs[0].Expiry,
				len(htlcs))

			results[i] = htlcs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*HtlcInstruction
	for _, htlcs := range results {
		all = append(all, htlcs...)
	}
	SortInstructions(all)

	log.Tracef("Planned htlcs: %v", newLogClosure(func() string {
		return spew.Sdump(all)
	}))

	return all, nil
}

// SortInstructions orders the instructions by path id and then by channel
// name. The order is only relevant for presentation.
func SortInstructions(htlcs []*HtlcInstruction) {
	sort.SliceStable(htlcs, func(i, j int) bool {
		if htlcs[i].PathID != htlcs[j].PathID {
			return htlcs[i].PathID < htlcs[j].PathID
		}

		return htlcs[i].ChannelName < htlcs[j].ChannelName
	})
}
