/*
Package vault implements a wallet controlled by a fixed group of owners.

A vault is created once with a list of owners and the number of approvals
required to move funds. Anybody can deposit coins. Only owners can submit
actions, approve them and revoke their approvals. An action is a proposed
transfer of the pooled balance to a target address, optionally carrying an
opaque payload. Actions are identified by a sequential id starting at 0.

Once an action collected the required number of approvals it can be
executed. Execution is not restricted to owners: any address can finalize
an action that already reached the quorum. Callers relying on a
restricted executor must enforce it before calling Execute.

An executed action moves its value to the target. If a contract is
registered for the target address, it is called with the payload and a
Session that allows it to call back into the vault within the same
transaction. The action is marked as executed before the contract is
called, so it cannot be executed twice, and a failing contract rolls back
the whole execution.

Every operation is atomic. Events describing successful operations are
collected in an EventBuffer and published by the Engine once the
operation completed.
*/
package vault
