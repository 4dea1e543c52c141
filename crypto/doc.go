/*
Package crypto holds the ed25519 keys used to sign transactions.

A public key is turned into the "sigs/ed25519/<key>" condition. The address
of that condition identifies the signer everywhere in the application, for
example as a vault owner or a wallet holder.
*/
package crypto
