/*
Package sigs authenticates pool transactions.

Every signature covers the transaction sign bytes, the chain id and the
signer sequence. The sequence is stored per public key and incremented on
each accepted signature so a signed stake or claim cannot be replayed.
Verified signers are put in the context and exposed through Authenticate.
*/
package sigs
