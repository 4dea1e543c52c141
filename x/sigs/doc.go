/*
Package sigs verifies transaction signatures and protects against replay.

Every signer has a User record holding its public key and a sequence
number. A signature commits to the chain id and the current sequence, and a
successful verification increments the sequence, so the same signed bytes
can never be accepted twice.
*/
package sigs
