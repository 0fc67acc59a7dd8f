// Package mocknet provides an in-process, deterministic implementation of
// the transport.Messenger interface plus a runner that executes a full
// interactive identification session between two goroutines.
//
// It exists for tests and examples: no sockets, no timing dependence,
// and an abort path that unblocks the peer when one role fails.
//
//	ok, err := mocknet.RunSession(ctx,
//	    func(ctx context.Context, m transport.Messenger) error {
//	        return schnorr.RunProver(ctx, m, mocknet.VerifierIndex, params, kp)
//	    },
//	    func(ctx context.Context, m transport.Messenger) (bool, error) {
//	        return schnorr.RunVerifier(ctx, m, mocknet.ProverIndex, params, pub)
//	    })
package mocknet
