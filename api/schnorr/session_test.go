package schnorr

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/api/transport"
	"github.com/zkident/zkid-go/api/transport/mocknet"
)

func TestRunSessionAccepts(t *testing.T) {
	params := testParams(t)
	key, err := group.GenerateKeyPair(params)
	require.NoError(t, err)

	ok, err := mocknet.RunSession(context.Background(),
		func(ctx context.Context, m transport.Messenger) error {
			return RunProver(ctx, m, mocknet.VerifierIndex, params, key)
		},
		func(ctx context.Context, m transport.Messenger) (bool, error) {
			return RunVerifier(ctx, m, mocknet.ProverIndex, params, key.Public())
		})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunSessionRejectsWrongKey(t *testing.T) {
	params := testParams(t)
	key, err := group.GenerateKeyPair(params)
	require.NoError(t, err)
	otherKey, err := group.GenerateKeyPair(params)
	require.NoError(t, err)

	ok, err := mocknet.RunSession(context.Background(),
		func(ctx context.Context, m transport.Messenger) error {
			return RunProver(ctx, m, mocknet.VerifierIndex, params, otherKey)
		},
		func(ctx context.Context, m transport.Messenger) (bool, error) {
			return RunVerifier(ctx, m, mocknet.ProverIndex, params, key.Public())
		})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunSessionPropagatesProverFailure(t *testing.T) {
	params := testParams(t)
	key, err := group.GenerateKeyPair(params)
	require.NoError(t, err)

	boom := errors.New("prover offline")
	_, err = mocknet.RunSession(context.Background(),
		func(ctx context.Context, m transport.Messenger) error {
			return boom
		},
		func(ctx context.Context, m transport.Messenger) (bool, error) {
			// the abort must unblock this receive rather than hang
			return RunVerifier(ctx, m, mocknet.ProverIndex, params, key.Public())
		})
	require.Error(t, err)
}
