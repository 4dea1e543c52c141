/*
Package orm provides the small amount of structure the extensions need on
top of a raw KVStore: monotonic sequences for dense identifiers and model
buckets that validate and serialize entities under a common key prefix.

Models are serialized using canonical CBOR, so that the same entity always
produces the same bytes and the merkle root of the state is deterministic.
*/
package orm
