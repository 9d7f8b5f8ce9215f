// Package stablecoin implements the quote and transaction-construction
// engine for the Reflect protocol API.
//
// The package is pure computation: request validation, fee arithmetic and
// descriptor serialization never perform I/O. Rates, APY, supply caps and
// other read-side data are supplied by the services package and passed in
// as immutable snapshots.
//
// Handlers for the HTTP surface live in the handlers subpackage.
package stablecoin
