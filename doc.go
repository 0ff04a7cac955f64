// Package wealth provides the types and pure functions behind a local-first
// personal wealth tracker.
//
// The core functionalities include:
//   - Assets: a closed set of holdings (stocks and ETFs, bonds, deposits,
//     precious metals, real estate, private investments, cash, crypto).
//   - Ledger Reconciliation: every asset owns an append-only list of buy and
//     sell transactions. Net quantity, net amount, average purchase price and
//     the "fully sold" status are folded from it. Assets recorded before
//     transactions existed get a synthesized initial purchase.
//   - Valuation: assets are valued with a live market price when one is known,
//     and at cost basis otherwise.
//   - Data Persistence: assets are encoded as JSONL, one asset per line.
//
// Functions in this package never perform I/O and are safe for concurrent use.
// Storage, market prices and exchange rates live in the store and market
// packages; exposure analytics in the analysis package.
package wealth
