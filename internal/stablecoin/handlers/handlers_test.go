package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

func pinnedNow() time.Time {
	return time.Date(2025, 12, 19, 16, 55, 42, 0, time.UTC)
}

// newTestRouter wires all handlers against the static provider, mirroring
// the production route table.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	provider := services.NewStaticProvider(pinnedNow)
	registry := stablecoin.NewRegistry([]stablecoin.Asset{{Index: 0, Name: "USDC+"}})
	feeBps := int64(stablecoin.DefaultFeeBps)
	timeout := 5 * time.Second

	quoteHandler := NewQuoteHandler(provider, registry, feeBps, timeout)
	txHandler := NewTransactionHandler(provider, registry, feeBps, timeout)
	ratesHandler := NewRatesHandler(provider, registry, timeout)
	apyHandler := NewAPYHandler(provider, registry, timeout)
	limitsHandler := NewLimitsHandler(provider, registry, timeout)
	assetsHandler := NewAssetsHandler(registry)
	integrationHandler := NewIntegrationHandler(provider, registry, feeBps, timeout)
	statsHandler := NewStatsHandler(provider, timeout)
	eventsHandler := NewEventsHandler(provider, timeout)

	router := chi.NewRouter()
	router.Route("/stablecoins", func(r chi.Router) {
		r.Get("/", assetsHandler.HandleList)
		r.Post("/quote", quoteHandler.HandleQuote)
		r.Post("/mint/tx", txHandler.HandleMintTx)
		r.Post("/burn/tx", txHandler.HandleBurnTx)
		r.Get("/exchange-rates/historical", ratesHandler.HandleHistoricalRates)
		r.Get("/apy", apyHandler.HandleAllAPY)
		r.Get("/limits", limitsHandler.HandleAllLimits)
		r.Get("/{stablecoinIndex}/exchange-rate", ratesHandler.HandleCurrentRate)
		r.Get("/{stablecoinIndex}/apy", apyHandler.HandleCurrentAPY)
		r.Get("/{stablecoinIndex}/apy/historical", apyHandler.HandleHistoricalAPY)
		r.Get("/{stablecoinIndex}/limits", limitsHandler.HandleLimits)
	})
	router.Route("/integrations", func(r chi.Router) {
		r.Post("/mint/tx", integrationHandler.HandleMintTx)
		r.Post("/redeem/tx", integrationHandler.HandleRedeemTx)
		r.Post("/claim/tx", integrationHandler.HandleClaimTx)
		r.Get("/{stablecoinIndex}/exchange-rate", integrationHandler.HandleExchangeRate)
	})
	router.Route("/stats", func(r chi.Router) {
		r.Get("/protocol", statsHandler.HandleProtocolStats)
		r.Get("/historical", statsHandler.HandleHistoricalStats)
	})
	router.Route("/events", func(r chi.Router) {
		r.Get("/recent", eventsHandler.HandleRecentEvents)
		r.Get("/signer/{signer}", eventsHandler.HandleEventsBySigner)
	})
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("response is not a valid envelope: %v", err)
	}
	return env
}

func TestHandleQuote(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
		wantFee    int64
		wantNet    int64
	}{
		{
			name:       "mint quote",
			body:       `{"stablecoinIndex":0,"depositAmount":1000000,"operation":"mint"}`,
			wantStatus: http.StatusOK,
			wantFee:    1000,
			wantNet:    999000,
		},
		{
			name:       "redeem quote",
			body:       `{"stablecoinIndex":0,"depositAmount":50000,"operation":"redeem"}`,
			wantStatus: http.StatusOK,
			wantFee:    50,
			wantNet:    49950,
		},
		{
			name:       "negative amount",
			body:       `{"stablecoinIndex":0,"depositAmount":-100,"operation":"mint"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request data: depositAmount must be positive",
		},
		{
			name:       "zero amount",
			body:       `{"stablecoinIndex":0,"depositAmount":0,"operation":"burn"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request data: depositAmount must be positive",
		},
		{
			name:       "unknown stablecoin",
			body:       `{"stablecoinIndex":42,"depositAmount":1000000,"operation":"mint"}`,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Stablecoin with the specified index not found",
		},
		{
			name:       "unknown operation",
			body:       `{"stablecoinIndex":0,"depositAmount":1000000,"operation":"swap"}`,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Invalid request type",
		},
		{
			name:       "negative amount with unknown operation reports the amount",
			body:       `{"stablecoinIndex":0,"depositAmount":-100,"operation":"swap"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request data: depositAmount must be positive",
		},
		{
			name:       "malformed JSON",
			body:       `{"stablecoinIndex":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, "POST", "/stablecoins/quote", tt.body)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}

			env := decodeEnvelope(t, rr)
			if tt.wantStatus != http.StatusOK {
				if env.Success {
					t.Error("success = true, want false")
				}
				if tt.wantMsg != "" && env.Message != tt.wantMsg {
					t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
				}
				return
			}

			var data QuoteResponse
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("failed to decode data: %v", err)
			}
			if data.Fee != tt.wantFee {
				t.Errorf("fee = %d, want %d", data.Fee, tt.wantFee)
			}
			if data.Net != tt.wantNet {
				t.Errorf("net = %d, want %d", data.Net, tt.wantNet)
			}
			if data.Gross != data.Fee+data.Net {
				t.Errorf("gross (%d) != fee + net (%d)", data.Gross, data.Fee+data.Net)
			}
		})
	}
}

func TestHandleTransactions(t *testing.T) {
	router := newTestRouter(t)

	validBody := `{"stablecoinIndex":0,"depositAmount":1000000,"signer":"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM","minimumReceived":999000}`

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantMsg    string
		wantOp     string
	}{
		{"mint tx", "/stablecoins/mint/tx", validBody, http.StatusOK, "", "mint"},
		{"burn tx", "/stablecoins/burn/tx", validBody, http.StatusOK, "", "burn"},
		{
			"missing signer", "/stablecoins/mint/tx",
			`{"stablecoinIndex":0,"depositAmount":1000000,"minimumReceived":999000}`,
			http.StatusBadRequest, "Invalid request data: signer is required", "",
		},
		{
			"missing minimumReceived", "/stablecoins/mint/tx",
			`{"stablecoinIndex":0,"depositAmount":1000000,"signer":"abc"}`,
			http.StatusBadRequest, "Invalid request data: minimumReceived is required", "",
		},
		{
			"unknown stablecoin", "/stablecoins/burn/tx",
			`{"stablecoinIndex":9,"depositAmount":1000000,"signer":"abc","minimumReceived":0}`,
			http.StatusNotFound, "Stablecoin with the specified index not found", "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, "POST", tt.path, tt.body)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}

			env := decodeEnvelope(t, rr)
			if tt.wantStatus != http.StatusOK {
				if env.Message != tt.wantMsg {
					t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
				}
				return
			}

			var data TransactionResponse
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("failed to decode data: %v", err)
			}
			if data.Transaction == "" {
				t.Fatal("transaction is empty")
			}

			raw, err := base64.StdEncoding.DecodeString(data.Transaction)
			if err != nil {
				t.Fatalf("transaction is not valid base64: %v", err)
			}
			var payload map[string]any
			if err := json.Unmarshal(raw, &payload); err != nil {
				t.Fatalf("transaction payload is not valid JSON: %v", err)
			}
			if payload["operation"] != tt.wantOp {
				t.Errorf("operation = %v, want %s", payload["operation"], tt.wantOp)
			}
			if payload["netAmount"] != float64(999000) {
				t.Errorf("netAmount = %v, want 999000", payload["netAmount"])
			}
		})
	}
}

func TestHandleTransactionCluster(t *testing.T) {
	router := newTestRouter(t)

	validBody := `{"stablecoinIndex":0,"depositAmount":1000000,"signer":"abc","minimumReceived":999000}`

	t.Run("cluster carried into descriptor", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/stablecoins/mint/tx?cluster=devnet", validBody)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}

		env := decodeEnvelope(t, rr)
		var data TransactionResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		raw, err := base64.StdEncoding.DecodeString(data.Transaction)
		if err != nil {
			t.Fatalf("transaction is not valid base64: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if payload["cluster"] != "devnet" {
			t.Errorf("cluster = %v, want devnet", payload["cluster"])
		}
	})

	t.Run("absent cluster omitted from descriptor", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/stablecoins/mint/tx", validBody)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}

		env := decodeEnvelope(t, rr)
		var data TransactionResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		raw, _ := base64.StdEncoding.DecodeString(data.Transaction)
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if _, ok := payload["cluster"]; ok {
			t.Errorf("cluster = %v, want omitted", payload["cluster"])
		}
	})

	t.Run("unknown cluster rejected", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/stablecoins/burn/tx?cluster=testnet", validBody)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
		}
		env := decodeEnvelope(t, rr)
		if env.Message != "Invalid request data: cluster must be mainnet or devnet" {
			t.Errorf("message = %q", env.Message)
		}
	})
}

func TestHandleCurrentRate(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/stablecoins/0/exchange-rate", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	env := decodeEnvelope(t, rr)
	var data CurrentRateResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if data.Base != 1016858791 || data.Receipt != 1016858791 {
		t.Errorf("rate = %+v", data)
	}

	tests := []struct {
		name string
		path string
	}{
		{"unknown index", "/stablecoins/42/exchange-rate"},
		{"non-numeric index", "/stablecoins/abc/exchange-rate"},
		{"negative index", "/stablecoins/-1/exchange-rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, "GET", tt.path, "")
			if rr.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rr.Code)
			}
			env := decodeEnvelope(t, rr)
			if env.Message != "Stablecoin with the specified index not found" {
				t.Errorf("message = %q", env.Message)
			}
		})
	}
}

func TestHandleHistoricalRates(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/stablecoins/exchange-rates/historical?stablecoin=0&days=7", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	env := decodeEnvelope(t, rr)
	var data []HistoricalRateResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(data) != 7 {
		t.Errorf("got %d rates, want 7", len(data))
	}

	t.Run("defaults to 30 days", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/exchange-rates/historical?stablecoin=0", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		var data []HistoricalRateResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		if len(data) != 30 {
			t.Errorf("got %d rates, want 30", len(data))
		}
	})

	t.Run("zero days rejected", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/exchange-rates/historical?stablecoin=0&days=0", "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		if env.Message != "Invalid request data: days must be at least 1" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("non-numeric days rejected", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/exchange-rates/historical?stablecoin=0&days=week", "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("missing stablecoin param rejected", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/exchange-rates/historical?days=7", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
	})
}

func TestHandleAPY(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/stablecoins/0/apy", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr)
	var data APYResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if data.APY != 224 {
		t.Errorf("apy = %d, want 224", data.APY)
	}

	t.Run("all assets", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/apy", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		var data []APYResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		if len(data) != 1 || data[0].APY != 224 {
			t.Errorf("data = %+v", data)
		}
	})

	t.Run("historical", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/0/apy/historical?days=14", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		var data []APYResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		if len(data) != 14 {
			t.Errorf("got %d snapshots, want 14", len(data))
		}
	})

	t.Run("unknown index", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/7/apy", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
	})
}

func TestHandleLimits(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/stablecoins/0/limits", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	env := decodeEnvelope(t, rr)
	var data SupplyCapResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if data.SupplyCap != 1_000_000_000 {
		t.Errorf("supplyCap = %d", data.SupplyCap)
	}
	if data.CurrentSupply != 500_000_000 {
		t.Errorf("currentSupply = %d", data.CurrentSupply)
	}
	if data.RemainingCapacity != 500_000_000 {
		t.Errorf("remainingCapacity = %d", data.RemainingCapacity)
	}
	if data.UtilizationPercentage != 50 {
		t.Errorf("utilizationPercentage = %d", data.UtilizationPercentage)
	}

	t.Run("all assets", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stablecoins/limits", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		var data []SupplyCapResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		if len(data) != 1 {
			t.Errorf("got %d caps, want 1", len(data))
		}
	})
}

// emptyRateProvider reports no rows for the collection queries.
type emptyRateProvider struct {
	*services.StaticProvider
}

func (emptyRateProvider) AllAPY(ctx context.Context) ([]stablecoin.ApySnapshot, error) {
	return nil, services.ErrNotFound
}

func (emptyRateProvider) SupplyCaps(ctx context.Context) ([]stablecoin.SupplyCap, error) {
	return nil, services.ErrNotFound
}

func TestCollectionEndpointsWithNoRows(t *testing.T) {
	provider := emptyRateProvider{services.NewStaticProvider(pinnedNow)}
	registry := stablecoin.NewRegistry([]stablecoin.Asset{{Index: 0, Name: "USDC+"}})
	timeout := 5 * time.Second

	apyHandler := NewAPYHandler(provider, registry, timeout)
	limitsHandler := NewLimitsHandler(provider, registry, timeout)

	router := chi.NewRouter()
	router.Get("/stablecoins/apy", apyHandler.HandleAllAPY)
	router.Get("/stablecoins/limits", limitsHandler.HandleAllLimits)

	for _, path := range []string{"/stablecoins/apy", "/stablecoins/limits"} {
		t.Run(path, func(t *testing.T) {
			rr := doRequest(t, router, "GET", path, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
			}

			env := decodeEnvelope(t, rr)
			if !env.Success {
				t.Errorf("success = false, message = %q", env.Message)
			}

			var data []json.RawMessage
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("failed to decode data: %v", err)
			}
			if data == nil {
				t.Error("data = null, want []")
			}
			if len(data) != 0 {
				t.Errorf("got %d items, want 0", len(data))
			}
		})
	}
}

func TestHandleListAssets(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/stablecoins", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	env := decodeEnvelope(t, rr)
	var data []AssetResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(data) != 1 || data[0].Index != 0 || data[0].Name != "USDC+" {
		t.Errorf("data = %+v", data)
	}
}

func TestHandleIntegrations(t *testing.T) {
	router := newTestRouter(t)

	t.Run("mint requires recipient", func(t *testing.T) {
		body := `{"stablecoinIndex":0,"depositAmount":1000000,"signer":"abc","minimumReceived":999000}`
		rr := doRequest(t, router, "POST", "/integrations/mint/tx", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		if env.Message != "Invalid request data: recipient is required" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("mint with recipient", func(t *testing.T) {
		body := `{"stablecoinIndex":0,"depositAmount":1000000,"signer":"abc","recipient":"def","minimumReceived":999000}`
		rr := doRequest(t, router, "POST", "/integrations/mint/tx", body)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}

		env := decodeEnvelope(t, rr)
		var data TransactionResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}

		raw, err := base64.StdEncoding.DecodeString(data.Transaction)
		if err != nil {
			t.Fatalf("transaction is not valid base64: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if payload["recipient"] != "def" {
			t.Errorf("recipient = %v, want def", payload["recipient"])
		}
	})

	t.Run("redeem uses holder as signer", func(t *testing.T) {
		body := `{"stablecoinIndex":0,"depositAmount":1000000,"holder":"xyz","minimumReceived":999000}`
		rr := doRequest(t, router, "POST", "/integrations/redeem/tx", body)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}

		env := decodeEnvelope(t, rr)
		var data TransactionResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		raw, _ := base64.StdEncoding.DecodeString(data.Transaction)
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if payload["signer"] != "xyz" {
			t.Errorf("signer = %v, want xyz", payload["signer"])
		}
		if payload["operation"] != "redeem" {
			t.Errorf("operation = %v, want redeem", payload["operation"])
		}
	})

	t.Run("claim requires claimant", func(t *testing.T) {
		body := `{"stablecoinIndex":0,"depositAmount":1000000}`
		rr := doRequest(t, router, "POST", "/integrations/claim/tx", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		if env.Message != "Invalid request data: claimant is required" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("claim builds redeem descriptor", func(t *testing.T) {
		body := `{"stablecoinIndex":0,"depositAmount":1000000,"claimant":"abc"}`
		rr := doRequest(t, router, "POST", "/integrations/claim/tx", body)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}

		env := decodeEnvelope(t, rr)
		var data TransactionResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		raw, _ := base64.StdEncoding.DecodeString(data.Transaction)
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if payload["operation"] != "redeem" {
			t.Errorf("operation = %v, want redeem", payload["operation"])
		}
		if payload["signer"] != "abc" {
			t.Errorf("signer = %v, want abc", payload["signer"])
		}
	})

	t.Run("exchange rate", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/integrations/0/exchange-rate", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
	})
}

func TestHandleStats(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/stats/protocol", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	env := decodeEnvelope(t, rr)
	var data ProtocolStatsResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if data.TotalMinted != 50_000 || data.TotalRedeemed != 10_000 {
		t.Errorf("stats = %+v", data)
	}

	t.Run("historical", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/stats/historical?days=7", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		var data []StatsPointResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		if len(data) != 7 {
			t.Errorf("got %d points, want 7", len(data))
		}
	})
}

func TestHandleEvents(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/events/recent?limit=5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	env := decodeEnvelope(t, rr)
	var data []EventResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(data) != 5 {
		t.Errorf("got %d events, want 5", len(data))
	}

	t.Run("by signer", func(t *testing.T) {
		signer := "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
		rr := doRequest(t, router, "GET", "/events/signer/"+signer+"?limit=3", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		var data []EventResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
		for _, e := range data {
			if e.Signer != signer {
				t.Errorf("event %s has signer %s", e.ID, e.Signer)
			}
		}
	})

	t.Run("zero limit rejected", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/events/recent?limit=0", "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		if env.Message != "Invalid request data: limit must be at least 1" {
			t.Errorf("message = %q", env.Message)
		}
	})
}
