/*
Package cash implements the ledger of the application: wallets holding a
single token, balance lookups and transfers between accounts.

The escrow extension uses the Controller to read custody balances, and the
transfer queue uses it to move value between accounts.
*/
package cash
