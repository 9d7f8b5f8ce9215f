package stablecoin

// types.go defines the domain types shared by the validation layer, the
// quote engine and the descriptor builder.

import (
	"fmt"
	"time"
)

// Asset identifies a stablecoin supported by the protocol.
type Asset struct {
	// Index is the stable integer identifier used on the wire (0 = USDC+).
	Index int

	// Name is the display name/symbol of the stablecoin.
	Name string
}

// OperationKind enumerates the operations a quote or transaction descriptor
// can be built for.
type OperationKind int

const (
	OperationMint OperationKind = iota + 1
	OperationRedeem
	OperationBurn
)

func (k OperationKind) String() string {
	switch k {
	case OperationMint:
		return "mint"
	case OperationRedeem:
		return "redeem"
	case OperationBurn:
		return "burn"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseOperationKind parses the wire representation of an operation
// ("mint", "redeem" or "burn").
func ParseOperationKind(s string) (OperationKind, error) {
	switch s {
	case "mint":
		return OperationMint, nil
	case "redeem":
		return OperationRedeem, nil
	case "burn":
		return OperationBurn, nil
	default:
		return 0, NewUnsupportedOperationError("Invalid request type")
	}
}

// QuoteRequest is the input to the quote engine. DepositAmount is in the
// smallest unit of the collateral asset.
type QuoteRequest struct {
	StablecoinIndex int
	DepositAmount   int64
	Operation       OperationKind
}

// TxRequest is the input to the transaction-construction endpoints.
// MinimumReceived is a pointer so that an absent field can be distinguished
// from an explicit zero.
type TxRequest struct {
	StablecoinIndex int
	DepositAmount   int64
	Operation       OperationKind
	Signer          string
	MinimumReceived *int64
	CollateralMint  string
}

// Quote is a computed, non-binding estimate of the net amount after fees.
// Net is always Gross - Fee.
type Quote struct {
	StablecoinIndex int
	Gross           int64
	Fee             int64
	Net             int64
	FeeBps          int64
	Rate            ExchangeRateSnapshot
}

// ExchangeRateSnapshot is a point-in-time exchange rate produced by a rate
// provider. Immutable once issued.
type ExchangeRateSnapshot struct {
	ID                 int64
	StablecoinIndex    int
	BaseUSDValueBps    int64
	ReceiptUSDValueBps int64
	Timestamp          time.Time
}

// ApySnapshot is a point-in-time APY reading in basis points.
type ApySnapshot struct {
	StablecoinIndex int
	ApyBps          int64
	Timestamp       time.Time
}

// SupplyCap describes the supply limits of a stablecoin.
type SupplyCap struct {
	StablecoinIndex int
	Cap             int64
	CurrentSupply   int64
}

// RemainingCapacity returns Cap - CurrentSupply, floored at zero when the
// current supply exceeds the cap (possible when the cap is lowered upstream
// after supply was issued).
func (c SupplyCap) RemainingCapacity() int64 {
	if c.CurrentSupply > c.Cap {
		return 0
	}
	return c.Cap - c.CurrentSupply
}

// UtilizationPercentage returns CurrentSupply/Cap as a whole percentage,
// clamped to [0, 100].
func (c SupplyCap) UtilizationPercentage() int64 {
	if c.Cap <= 0 {
		return 100
	}
	pct := c.CurrentSupply * 100 / c.Cap
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// TransactionDescriptor is an opaque, unsigned representation of an
// operation, ready for external signing and broadcast. The engine holds no
// reference to it after construction.
type TransactionDescriptor struct {
	// Reference uniquely identifies the descriptor.
	Reference string

	// Transaction is the base64-encoded canonical payload.
	Transaction string
}
