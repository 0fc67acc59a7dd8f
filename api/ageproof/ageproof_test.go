package ageproof

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkident/zkid-go/api/group"
)

var (
	issuerOnce   sync.Once
	issuerParams *IssuerParams
	issuerErr    error
)

func testIssuer(t *testing.T) *IssuerParams {
	issuerOnce.Do(func() {
		var grp *group.Params
		grp, issuerErr = group.Generate(group.MinSecurityBits)
		if issuerErr != nil {
			return
		}
		issuerParams, issuerErr = NewIssuerParams(grp)
	})
	require.NoError(t, issuerErr)
	return issuerParams
}

func TestPedersenGeneratorIsSubgroupMember(t *testing.T) {
	params := testIssuer(t)
	h := params.H()
	assert.True(t, params.Group().IsElement(h))
	assert.NotZero(t, h.Cmp(big.NewInt(1)))
	assert.NotZero(t, h.Cmp(params.Group().G()), "h must differ from g")
}

func TestIssueCredentialRange(t *testing.T) {
	params := testIssuer(t)

	_, err := IssueCredential(params, -1)
	require.Error(t, err)
	_, err = IssueCredential(params, MaxAge+1)
	require.Error(t, err)

	cred, err := IssueCredential(params, MaxAge)
	require.NoError(t, err)
	assert.True(t, params.Group().IsElement(cred.Commitment()))
}

func TestCommitmentsHide(t *testing.T) {
	params := testIssuer(t)
	c1, err := IssueCredential(params, 30)
	require.NoError(t, err)
	c2, err := IssueCredential(params, 30)
	require.NoError(t, err)
	assert.NotZero(t, c1.Commitment().Cmp(c2.Commitment()),
		"fresh randomness must give distinct commitments for one age")
}

func TestProveAboveThresholdAccepts(t *testing.T) {
	params := testIssuer(t)
	cases := []struct{ age, threshold int64 }{
		{25, 18},
		{18, 18},
		{MaxAge, 0},
		{0, 0},
	}
	for _, tc := range cases {
		cred, err := IssueCredential(params, tc.age)
		require.NoError(t, err)

		proof, err := ProveAboveThreshold(&ProveRequest{
			Credential: cred,
			Threshold:  tc.threshold,
			Context:    []byte("checkout"),
		})
		require.NoError(t, err)

		resp, err := Verify(&VerifyRequest{
			Params:     params,
			Commitment: cred.Commitment(),
			Threshold:  tc.threshold,
			Context:    []byte("checkout"),
			Proof:      proof.Proof,
		})
		require.NoError(t, err)
		assert.True(t, resp.Valid, "age %d threshold %d", tc.age, tc.threshold)
	}
}

// An under-threshold credential still produces a structurally complete
// proof; the verifier rejects it with a plain false, not an error, so
// the failure mode does not reveal why.
func TestUnderThresholdProofIsWellFormedButFalse(t *testing.T) {
	params := testIssuer(t)
	cred, err := IssueCredential(params, 17)
	require.NoError(t, err)

	proof, err := ProveAboveThreshold(&ProveRequest{
		Credential: cred,
		Threshold:  18,
		Context:    []byte("checkout"),
	})
	require.NoError(t, err, "proving must not fail for an under-age credential")
	require.Len(t, proof.Proof.Bits, AgeBits)

	resp, err := Verify(&VerifyRequest{
		Params:     params,
		Commitment: cred.Commitment(),
		Threshold:  18,
		Context:    []byte("checkout"),
		Proof:      proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

// Proofs for ages far apart have identical shape, so an accepted proof
// reveals only that the threshold is met.
func TestProofShapeIsAgeIndependent(t *testing.T) {
	params := testIssuer(t)
	young, err := IssueCredential(params, 19)
	require.NoError(t, err)
	old, err := IssueCredential(params, 99)
	require.NoError(t, err)

	p1, err := ProveAboveThreshold(&ProveRequest{Credential: young, Threshold: 18, Context: []byte("x")})
	require.NoError(t, err)
	p2, err := ProveAboveThreshold(&ProveRequest{Credential: old, Threshold: 18, Context: []byte("x")})
	require.NoError(t, err)

	assert.Equal(t, len(p1.Proof.BitCommitments), len(p2.Proof.BitCommitments))
	assert.Equal(t, len(p1.Proof.Bits), len(p2.Proof.Bits))
}

func TestProofBindsThreshold(t *testing.T) {
	params := testIssuer(t)
	cred, err := IssueCredential(params, 30)
	require.NoError(t, err)

	proof, err := ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: 18, Context: []byte("x")})
	require.NoError(t, err)

	resp, err := Verify(&VerifyRequest{
		Params:     params,
		Commitment: cred.Commitment(),
		Threshold:  21,
		Context:    []byte("x"),
		Proof:      proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid, "a proof for one threshold must not verify under another")
}

func TestProofBindsContext(t *testing.T) {
	params := testIssuer(t)
	cred, err := IssueCredential(params, 30)
	require.NoError(t, err)

	proof, err := ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: 18, Context: []byte("A")})
	require.NoError(t, err)

	resp, err := Verify(&VerifyRequest{
		Params:     params,
		Commitment: cred.Commitment(),
		Threshold:  18,
		Context:    []byte("B"),
		Proof:      proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestProofBindsCommitment(t *testing.T) {
	params := testIssuer(t)
	cred, err := IssueCredential(params, 30)
	require.NoError(t, err)
	other, err := IssueCredential(params, 30)
	require.NoError(t, err)

	proof, err := ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: 18, Context: []byte("x")})
	require.NoError(t, err)

	resp, err := Verify(&VerifyRequest{
		Params:     params,
		Commitment: other.Commitment(),
		Threshold:  18,
		Context:    []byte("x"),
		Proof:      proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid, "a proof is bound to one credential commitment")
}

func TestTamperedBitProofIsRejected(t *testing.T) {
	params := testIssuer(t)
	cred, err := IssueCredential(params, 30)
	require.NoError(t, err)

	proof, err := ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: 18, Context: []byte("x")})
	require.NoError(t, err)
	q := params.Group().Q()
	proof.Proof.Bits[3].S0 = new(big.Int).Mod(new(big.Int).Add(proof.Proof.Bits[3].S0, big.NewInt(1)), q)

	resp, err := Verify(&VerifyRequest{
		Params:     params,
		Commitment: cred.Commitment(),
		Threshold:  18,
		Context:    []byte("x"),
		Proof:      proof.Proof,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestMalformedProofErrors(t *testing.T) {
	params := testIssuer(t)
	cred, err := IssueCredential(params, 30)
	require.NoError(t, err)
	proof, err := ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: 18, Context: []byte("x")})
	require.NoError(t, err)

	var malformed *group.MalformedProofError

	_, err = Verify(&VerifyRequest{
		Params:     params,
		Commitment: cred.Commitment(),
		Threshold:  18,
		Context:    []byte("x"),
	})
	require.ErrorAs(t, err, &malformed)

	truncated := *proof.Proof
	truncated.Bits = truncated.Bits[:AgeBits-1]
	_, err = Verify(&VerifyRequest{
		Params:     params,
		Commitment: cred.Commitment(),
		Threshold:  18,
		Context:    []byte("x"),
		Proof:      &truncated,
	})
	require.ErrorAs(t, err, &malformed)

	outOfRange := *proof.Proof
	outOfRange.LinkS = params.Group().Q()
	_, err = Verify(&VerifyRequest{
		Params:     params,
		Commitment: cred.Commitment(),
		Threshold:  18,
		Context:    []byte("x"),
		Proof:      &outOfRange,
	})
	require.ErrorAs(t, err, &malformed)
}

func TestProveRequestValidation(t *testing.T) {
	params := testIssuer(t)
	cred, err := IssueCredential(params, 30)
	require.NoError(t, err)

	_, err = ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: MaxAge + 1, Context: []byte("x")})
	require.Error(t, err)

	_, err = ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: 18})
	require.Error(t, err, "empty context must be explicit")

	cred.Wipe()
	_, err = ProveAboveThreshold(&ProveRequest{Credential: cred, Threshold: 18, Context: []byte("x")})
	require.Error(t, err, "a wiped credential must not prove")
}
