package stablecoin

// descriptor.go implements the transaction descriptor builder. A descriptor
// is the canonical JSON (RFC 8785) of an accepted quote plus operation
// metadata, base64-encoded. Signing and broadcast happen outside this
// service.

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
)

// DescriptorParties carries the party and slippage parameters of a
// transaction-construction request.
type DescriptorParties struct {
	Signer          string
	Recipient       string
	CollateralMint  string
	MinimumReceived *int64

	// Cluster is the target network ("mainnet" or "devnet"). Empty means
	// the signer's default.
	Cluster string
}

// descriptorPayload is the serialized form of a descriptor. Field names are
// part of the wire contract consumed by the external signer.
type descriptorPayload struct {
	Reference          string `json:"reference"`
	Operation          string `json:"operation"`
	StablecoinIndex    int    `json:"stablecoinIndex"`
	GrossAmount        int64  `json:"grossAmount"`
	FeeAmount          int64  `json:"feeAmount"`
	NetAmount          int64  `json:"netAmount"`
	FeeBps             int64  `json:"feeBps"`
	BaseUSDValueBps    int64  `json:"baseUsdValueBps"`
	ReceiptUSDValueBps int64  `json:"receiptUsdValueBps"`
	RateTimestamp      string `json:"rateTimestamp"`
	Signer             string `json:"signer"`
	Recipient          string `json:"recipient,omitempty"`
	CollateralMint     string `json:"collateralMint,omitempty"`
	MinimumReceived    *int64 `json:"minimumReceived,omitempty"`
	Cluster            string `json:"cluster,omitempty"`
}

// BuildDescriptor turns an accepted quote into an opaque transaction
// descriptor. It performs no network or storage I/O.
//
// The operation kind is re-checked here even though the validation layer
// rejects unknown kinds first, so that a future kind added without a
// validation-layer update still fails closed.
func BuildDescriptor(quote Quote, kind OperationKind, parties DescriptorParties) (TransactionDescriptor, error) {
	switch kind {
	case OperationMint, OperationRedeem, OperationBurn:
	default:
		return TransactionDescriptor{}, NewUnsupportedOperationError("Invalid request type")
	}

	payload := descriptorPayload{
		Reference:          uuid.NewString(),
		Operation:          kind.String(),
		StablecoinIndex:    quote.StablecoinIndex,
		GrossAmount:        quote.Gross,
		FeeAmount:          quote.Fee,
		NetAmount:          quote.Net,
		FeeBps:             quote.FeeBps,
		BaseUSDValueBps:    quote.Rate.BaseUSDValueBps,
		ReceiptUSDValueBps: quote.Rate.ReceiptUSDValueBps,
		RateTimestamp:      quote.Rate.Timestamp.UTC().Format(time.RFC3339),
		Signer:             parties.Signer,
		Recipient:          parties.Recipient,
		CollateralMint:     parties.CollateralMint,
		MinimumReceived:    parties.MinimumReceived,
		Cluster:            parties.Cluster,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return TransactionDescriptor{}, WrapInternalError(err, "failed to serialize transaction descriptor")
	}

	// canonicalize per RFC 8785 so identical inputs yield identical bytes
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return TransactionDescriptor{}, WrapInternalError(err, "failed to canonicalize transaction descriptor")
	}

	return TransactionDescriptor{
		Reference:   payload.Reference,
		Transaction: base64.StdEncoding.EncodeToString(canonical),
	}, nil
}
