// Package group provides the algebraic setting shared by every protocol in
// zkid-go: a prime-order subgroup of (Z/pZ)* described by a safe prime p,
// the subgroup order q = (p-1)/2 and a generator g of order q.
//
// Parameters are immutable once constructed. A single *Params value may be
// shared read-only across any number of concurrent proof sessions; none of
// its methods mutate it.
//
// The package also generates identity key pairs over those parameters:
//
//	params, err := group.Generate(256)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kp, err := group.GenerateKeyPair(params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y := kp.Public() // g^x mod p
//
// The private scalar x never leaves the KeyPair. Protocols that need it
// call KeyPair.Respond, which only ever releases the Schnorr combination
// nonce + challenge*x mod q.
package group
