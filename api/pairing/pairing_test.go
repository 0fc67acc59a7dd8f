package pairing

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bn256"

	"github.com/zkident/zkid-go/api/group"
)

var (
	setupOnce      sync.Once
	setupAuthority *Authority
	setupParams    *Params
	setupErr       error
)

func testDeployment(t *testing.T) (*Authority, *Params) {
	setupOnce.Do(func() {
		setupAuthority, setupParams, setupErr = Setup()
	})
	require.NoError(t, setupErr)
	return setupAuthority, setupParams
}

func TestExtractedKeySatisfiesRelation(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)

	// e(g1, d0) * e(u_ID, d1)^-1 == v
	uID := DeriveIdentityKey(params, key.Identity())
	lhs := bn256.Pair(g1Gen(), key.d0)
	lhs.Add(lhs, new(bn256.GT).Neg(bn256.Pair(uID, key.d1)))
	assert.True(t, gtEqual(lhs, params.v))
}

func TestExtractionIsRandomized(t *testing.T) {
	authority, _ := testDeployment(t)
	k1, err := authority.Extract("bob@example.org")
	require.NoError(t, err)
	k2, err := authority.Extract("bob@example.org")
	require.NoError(t, err)
	assert.NotEqual(t, k1.d0.Marshal(), k2.d0.Marshal())
	assert.NotEqual(t, k1.d1.Marshal(), k2.d1.Marshal())
}

func TestDeriveIdentityKeyIsDeterministic(t *testing.T) {
	_, params := testDeployment(t)
	u1 := DeriveIdentityKey(params, "carol")
	u2 := DeriveIdentityKey(params, "carol")
	u3 := DeriveIdentityKey(params, "mallory")
	assert.Equal(t, u1.Marshal(), u2.Marshal())
	assert.NotEqual(t, u1.Marshal(), u3.Marshal())
}

func TestProveVerifyCompleteness(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)

	proof, err := Prove(&ProveRequest{Params: params, Key: key, Context: []byte("session-7")})
	require.NoError(t, err)

	resp, err := Verify(&VerifyRequest{
		Params:   params,
		Identity: "alice@example.org",
		Context:  []byte("session-7"),
		Proof:    proof.Proof,
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
}

func TestProofBindsIdentity(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)

	proof, err := Prove(&ProveRequest{Params: params, Key: key, Context: []byte("session-7")})
	require.NoError(t, err)

	resp, err := Verify(&VerifyRequest{
		Params:   params,
		Identity: "eve@example.org",
		Context:  []byte("session-7"),
		Proof:    proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid, "a key for one identity must not prove another")
}

func TestProofBindsContext(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)

	proof, err := Prove(&ProveRequest{Params: params, Key: key, Context: []byte("session-A")})
	require.NoError(t, err)

	resp, err := Verify(&VerifyRequest{
		Params:   params,
		Identity: "alice@example.org",
		Context:  []byte("session-B"),
		Proof:    proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestEmptyContextMustBeExplicit(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)

	_, err = Prove(&ProveRequest{Params: params, Key: key})
	require.Error(t, err)

	proof, err := Prove(&ProveRequest{Params: params, Key: key, AllowEmptyContext: true})
	require.NoError(t, err)

	_, err = Verify(&VerifyRequest{Params: params, Identity: "alice@example.org", Proof: proof.Proof})
	require.Error(t, err)

	resp, err := Verify(&VerifyRequest{
		Params:            params,
		Identity:          "alice@example.org",
		AllowEmptyContext: true,
		Proof:             proof.Proof,
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
}

func TestTamperedResponseIsRejected(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)

	proof, err := Prove(&ProveRequest{Params: params, Key: key, Context: []byte("ctx")})
	require.NoError(t, err)
	proof.Proof.S0.Add(proof.Proof.S0, new(bn256.G2).ScalarBaseMult(big.NewInt(1)))

	resp, err := Verify(&VerifyRequest{
		Params:   params,
		Identity: "alice@example.org",
		Context:  []byte("ctx"),
		Proof:    proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestMalformedProofErrors(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)
	proof, err := Prove(&ProveRequest{Params: params, Key: key, Context: []byte("ctx")})
	require.NoError(t, err)

	var malformed *group.MalformedProofError
	_, err = Verify(&VerifyRequest{Params: params, Identity: "alice@example.org", Context: []byte("ctx")})
	require.ErrorAs(t, err, &malformed)

	outOfRange := &Proof{T: proof.Proof.T, C: bn256.Order, S0: proof.Proof.S0, S1: proof.Proof.S1}
	_, err = Verify(&VerifyRequest{
		Params:   params,
		Identity: "alice@example.org",
		Context:  []byte("ctx"),
		Proof:    outOfRange,
	})
	require.ErrorAs(t, err, &malformed)

	var mismatch *PairingMismatchError
	missingS0 := &Proof{T: proof.Proof.T, C: proof.Proof.C, S0: nil, S1: proof.Proof.S1}
	_, err = Verify(&VerifyRequest{
		Params:   params,
		Identity: "alice@example.org",
		Context:  []byte("ctx"),
		Proof:    missingS0,
	})
	require.ErrorAs(t, err, &mismatch)
}

// A commitment outside the prime-order subgroup must halt verification
// with PairingMismatchError, never reach the pairing predicate.
func TestOutOfSubgroupCommitmentHaltsVerification(t *testing.T) {
	authority, params := testDeployment(t)
	key, err := authority.Extract("alice@example.org")
	require.NoError(t, err)
	proof, err := Prove(&ProveRequest{Params: params, Key: key, Context: []byte("ctx")})
	require.NoError(t, err)

	// GT.Unmarshal performs no membership check, so a bit-flipped
	// encoding yields an element outside the order-q subgroup.
	raw := proof.Proof.T.Marshal()
	raw[0] ^= 1
	rogue, ok := new(bn256.GT).Unmarshal(raw)
	require.True(t, ok)
	require.False(t, checkGTMember(rogue))

	_, err = Verify(&VerifyRequest{
		Params:   params,
		Identity: "alice@example.org",
		Context:  []byte("ctx"),
		Proof:    &Proof{T: rogue, C: proof.Proof.C, S0: proof.Proof.S0, S1: proof.Proof.S1},
	})
	var mismatch *PairingMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestSubgroupChecks(t *testing.T) {
	r, err := randomScalar()
	require.NoError(t, err)
	assert.True(t, checkG2Member(new(bn256.G2).ScalarBaseMult(r)))
	assert.False(t, checkG2Member(nil))

	s, err := randomScalar()
	require.NoError(t, err)
	gt := bn256.Pair(g1Gen(), new(bn256.G2).ScalarBaseMult(s))
	assert.True(t, checkGTMember(gt))
	assert.False(t, checkGTMember(nil))
}
