/*
Package cash is the ledger of wallet balances. Every address owns at most one
wallet holding a single currency. Coins are moved between wallets with
Transfer and created at genesis or by Issue.

The vault uses this ledger as its transfer rail: the pooled balance is the
wallet of the vault address.
*/
package cash
