// Package domain contains the core business entities, value objects, and
// domain logic of the shop: accounts, the catalogue, purchases with their
// dual-currency totals, reviews and the stock ledger. It has no knowledge of
// HTTP or storage.
package domain
