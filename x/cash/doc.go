/*
Package cash implements the fungible asset ledger of the application.

It keeps a registry of known tokens together with their precision, a wallet
per address and allowances that let one address spend coins owned by another.
Other extensions move funds only through the Controller: MoveCoins pushes
coins owned by the caller, MoveFrom pulls coins from an owner that approved
the caller beforehand. The balance of any coin may never go below zero.
*/
package cash
