package mocknet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zkident/zkid-go/api/transport"
)

// Role indices used by the session runner.
const (
	ProverIndex   = 0
	VerifierIndex = 1
)

// ProverFunc is the prover side of an interactive session. It talks to
// the verifier at VerifierIndex through the supplied messenger.
type ProverFunc func(ctx context.Context, m transport.Messenger) error

// VerifierFunc is the verifier side of an interactive session. Its
// boolean result is the protocol outcome.
type VerifierFunc func(ctx context.Context, m transport.Messenger) (bool, error)

// RunSession executes one interactive identification session entirely
// in-process: both roles run on their own goroutine over a fresh mock
// network and the verifier's verdict is returned once both finish. If
// either role fails, the network is aborted so the other side unblocks,
// and the first error is returned.
func RunSession(ctx context.Context, prover ProverFunc, verifier VerifierFunc) (bool, error) {
	net := NewNetwork(2)

	var accepted bool
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := prover(ctx, net[ProverIndex])
		if err != nil {
			net[ProverIndex].abort()
		}
		return err
	})
	g.Go(func() error {
		ok, err := verifier(ctx, net[VerifierIndex])
		if err != nil {
			net[VerifierIndex].abort()
			return err
		}
		accepted = ok
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return accepted, nil
}
