// Package ageproof issues committed-age credentials and proves, in zero
// knowledge, that the committed age meets a threshold.
//
// A credential is a Pedersen commitment C = g^age * h^rho over the same
// prime-order group the other protocols use; h is a second generator
// derived by hashing the group description into the subgroup, so that
// log_g h is unknown to every party. The commitment is perfectly hiding:
// C alone reveals nothing about the age.
//
// A threshold proof shows knowledge of (age, rho) opening C with
// age >= threshold, without revealing age. The realization is a
// bit-decomposition range proof over d = age - threshold:
//
//   - d is decomposed into AgeBits binary digits, each committed to as
//     C_i = g^b_i * h^rho_i
//   - each bit commitment carries a two-branch OR proof that it opens to
//     0 or 1 (simulated-branch sigma composition)
//   - a final proof shows C * g^-threshold * prod C_i^-2^i is a pure
//     h-power, tying the bits to the credential
//
// All sub-proofs share one Fiat-Shamir challenge bound to the
// commitment, the threshold and the caller's context, so a proof cannot
// be replayed against a different threshold or session.
//
// A prover whose credential is under the threshold still produces a
// structurally well-formed proof; verification simply returns false for
// it, the same negative result an impostor gets.
package ageproof
