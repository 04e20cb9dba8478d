// Package seedsig implements ECDSA over short-Weierstrass prime curves in
// affine coordinates, with private keys derived deterministically from a
// seed and a salt.
//
// # Quick Start
//
//	client := seedsig.NewClient()
//
//	kp, err := client.DeriveKeyPair(ctx, "my seed", "my salt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sig, err := client.Sign(ctx, kp.PrivateKey, "hello world")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.Verify(ctx, kp.PublicKey, "hello world", sig.Signature)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Valid)
//
// All integers cross the client boundary as lowercase big-endian hex
// without padding. The Scheme type offers the same operations on
// *big.Int values.
//
// # Providers
//
// Hashing and randomness come from a CryptoProvider. SoftwareProvider
// supports SHA-256 and SHA3-256; TimeoutProvider bounds each call:
//
//	p, _ := seedsig.NewSoftwareProvider(seedsig.SHA3)
//	client := seedsig.NewClient().
//	    WithProvider(&seedsig.TimeoutProvider{Provider: p, Timeout: time.Second})
//
// # Batches
//
// VerifyBatch checks many records on a worker pool. With auditing enabled
// it also reports signatures from one key that share r, which means an
// ephemeral scalar was reused and the private key is exposed.
//
// # Security
//
// Scalar multiplication runs in time that depends on the scalar. The
// package is meant for study and tooling, not for guarding keys against
// side-channel attackers.
package seedsig
