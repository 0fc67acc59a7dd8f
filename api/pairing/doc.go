// Package pairing implements an identity-based identification scheme over
// the bn256 bilinear group: the prover convinces a verifier that it holds
// the private key extracted for an identity string, without revealing it.
//
// The scheme is the Boneh-Boyen (BB1) key structure, stated explicitly so
// cross-implementation behavior is pinned down:
//
//   - public key of identity ID is the deterministic hash-to-group map
//     u_ID = a^H(ID) * h in G1, where a = g1^alpha and h = g1^delta come
//     from setup and H is SHA3-256 reduced mod the group order; no
//     per-identity randomness enters the public key
//   - a trusted Authority holding the master secret extracts the identity
//     key d = (d0, d1) in G2^2 with d0 = g0Hat * (aHat^H(ID) * hHat)^r,
//     d1 = gHat^r for fresh r
//   - the defining relation is e(g1, d0) * e(u_ID, d1)^-1 = v, where v is
//     the GT element published at setup
//
// Proofs are sigma-protocol proofs of a preimage under the homomorphism
// phi(X0, X1) = e(g1, X0) * e(u_ID, X1)^-1, made non-interactive with the
// same Fiat-Shamir hashing used by the zk package. The acceptance
// predicate is
//
//	e(g1, S0) * e(u_ID, S1)^-1 == T * v^c
//
// Every received group element is checked for membership in the expected
// prime-order subgroup before any pairing is evaluated; a violation fails
// with PairingMismatchError, never with a boolean verdict.
package pairing
