package services

// http.go implements the network-backed provider. It queries a remote
// aggregation service that speaks the same success/error envelope as this
// API.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// HTTPProvider reads rates, APY, supply caps, stats and events from a
// remote JSON API.
//
//	GET {baseURL}/stablecoins/{index}/exchange-rate
//	Response: {"success": true, "data": {...}}
//	404 if the upstream has no data for the asset
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPProvider creates an HTTP provider. The client's timeout bounds
// every upstream call.
func NewHTTPProvider(baseURL string, httpClient *http.Client) *HTTPProvider {
	return &HTTPProvider{baseURL: baseURL, httpClient: httpClient}
}

// upstream wire shapes

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type rateResponse struct {
	ID                 int64     `json:"id"`
	StablecoinIndex    int       `json:"stablecoinIndex"`
	BaseUSDValueBps    int64     `json:"baseUsdValueBps"`
	ReceiptUSDValueBps int64     `json:"receiptUsdValueBps"`
	Timestamp          time.Time `json:"timestamp"`
}

type apyResponse struct {
	StablecoinIndex int       `json:"stablecoinIndex"`
	ApyBps          int64     `json:"apyBps"`
	Timestamp       time.Time `json:"timestamp"`
}

type supplyCapResponse struct {
	StablecoinIndex int   `json:"stablecoinIndex"`
	SupplyCap       int64 `json:"supplyCap"`
	CurrentSupply   int64 `json:"currentSupply"`
}

type statsResponse struct {
	TotalMinted   int64 `json:"totalMinted"`
	TotalRedeemed int64 `json:"totalRedeemed"`
}

type statsPointResponse struct {
	Timestamp time.Time `json:"timestamp"`
	TVL       int64     `json:"tvl"`
	Volume    int64     `json:"volume"`
}

type eventResponse struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	StablecoinIndex int       `json:"stablecoinIndex"`
	Signer          string    `json:"signer"`
	Amount          int64     `json:"amount"`
	Timestamp       time.Time `json:"timestamp"`
}

// get calls the upstream service and decodes the envelope's data field
// into out.
func (p *HTTPProvider) get(ctx context.Context, path string, query url.Values, out any) error {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u = u.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call rate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rate service returned status %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("rate service reported failure: %s", env.Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func (p *HTTPProvider) CurrentRate(ctx context.Context, stablecoinIndex int) (stablecoin.ExchangeRateSnapshot, error) {
	var resp rateResponse
	path := fmt.Sprintf("stablecoins/%d/exchange-rate", stablecoinIndex)
	if err := p.get(ctx, path, nil, &resp); err != nil {
		return stablecoin.ExchangeRateSnapshot{}, err
	}
	return rateFromResponse(resp), nil
}

func (p *HTTPProvider) HistoricalRates(ctx context.Context, stablecoinIndex, days int) ([]stablecoin.ExchangeRateSnapshot, error) {
	var resp []rateResponse
	query := url.Values{}
	query.Set("stablecoin", strconv.Itoa(stablecoinIndex))
	query.Set("days", strconv.Itoa(days))
	if err := p.get(ctx, "stablecoins/exchange-rates/historical", query, &resp); err != nil {
		return nil, err
	}
	rates := make([]stablecoin.ExchangeRateSnapshot, len(resp))
	for i, r := range resp {
		rates[i] = rateFromResponse(r)
	}
	return rates, nil
}

func (p *HTTPProvider) CurrentAPY(ctx context.Context, stablecoinIndex int) (stablecoin.ApySnapshot, error) {
	var resp apyResponse
	path := fmt.Sprintf("stablecoins/%d/apy", stablecoinIndex)
	if err := p.get(ctx, path, nil, &resp); err != nil {
		return stablecoin.ApySnapshot{}, err
	}
	return apyFromResponse(resp), nil
}

func (p *HTTPProvider) AllAPY(ctx context.Context) ([]stablecoin.ApySnapshot, error) {
	var resp []apyResponse
	if err := p.get(ctx, "stablecoins/apy", nil, &resp); err != nil {
		return nil, err
	}
	snapshots := make([]stablecoin.ApySnapshot, len(resp))
	for i, r := range resp {
		snapshots[i] = apyFromResponse(r)
	}
	return snapshots, nil
}

func (p *HTTPProvider) HistoricalAPY(ctx context.Context, stablecoinIndex, days int) ([]stablecoin.ApySnapshot, error) {
	var resp []apyResponse
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))
	path := fmt.Sprintf("stablecoins/%d/apy/historical", stablecoinIndex)
	if err := p.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	snapshots := make([]stablecoin.ApySnapshot, len(resp))
	for i, r := range resp {
		snapshots[i] = apyFromResponse(r)
	}
	return snapshots, nil
}

func (p *HTTPProvider) SupplyCap(ctx context.Context, stablecoinIndex int) (stablecoin.SupplyCap, error) {
	var resp supplyCapResponse
	path := fmt.Sprintf("stablecoins/%d/limits", stablecoinIndex)
	if err := p.get(ctx, path, nil, &resp); err != nil {
		return stablecoin.SupplyCap{}, err
	}
	return capFromResponse(resp), nil
}

func (p *HTTPProvider) SupplyCaps(ctx context.Context) ([]stablecoin.SupplyCap, error) {
	var resp []supplyCapResponse
	if err := p.get(ctx, "stablecoins/limits", nil, &resp); err != nil {
		return nil, err
	}
	caps := make([]stablecoin.SupplyCap, len(resp))
	for i, r := range resp {
		caps[i] = capFromResponse(r)
	}
	return caps, nil
}

func (p *HTTPProvider) GetProtocolStats(ctx context.Context) (ProtocolStats, error) {
	var resp statsResponse
	if err := p.get(ctx, "stats/protocol", nil, &resp); err != nil {
		return ProtocolStats{}, err
	}
	return ProtocolStats{TotalMinted: resp.TotalMinted, TotalRedeemed: resp.TotalRedeemed}, nil
}

func (p *HTTPProvider) HistoricalStats(ctx context.Context, days int) ([]StatsPoint, error) {
	var resp []statsPointResponse
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))
	if err := p.get(ctx, "stats/historical", query, &resp); err != nil {
		return nil, err
	}
	points := make([]StatsPoint, len(resp))
	for i, r := range resp {
		points[i] = StatsPoint{Timestamp: r.Timestamp, TVL: r.TVL, Volume: r.Volume}
	}
	return points, nil
}

func (p *HTTPProvider) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return p.getEvents(ctx, "events/recent", query)
}

func (p *HTTPProvider) EventsBySigner(ctx context.Context, signer string, limit int) ([]Event, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return p.getEvents(ctx, "events/signer/"+url.PathEscape(signer), query)
}

func (p *HTTPProvider) getEvents(ctx context.Context, path string, query url.Values) ([]Event, error) {
	var resp []eventResponse
	if err := p.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	events := make([]Event, len(resp))
	for i, r := range resp {
		events[i] = Event{
			ID:              r.ID,
			Kind:            r.Kind,
			StablecoinIndex: r.StablecoinIndex,
			Signer:          r.Signer,
			Amount:          r.Amount,
			Timestamp:       r.Timestamp,
		}
	}
	return events, nil
}

func rateFromResponse(r rateResponse) stablecoin.ExchangeRateSnapshot {
	return stablecoin.ExchangeRateSnapshot{
		ID:                 r.ID,
		StablecoinIndex:    r.StablecoinIndex,
		BaseUSDValueBps:    r.BaseUSDValueBps,
		ReceiptUSDValueBps: r.ReceiptUSDValueBps,
		Timestamp:          r.Timestamp,
	}
}

func apyFromResponse(r apyResponse) stablecoin.ApySnapshot {
	return stablecoin.ApySnapshot{
		StablecoinIndex: r.StablecoinIndex,
		ApyBps:          r.ApyBps,
		Timestamp:       r.Timestamp,
	}
}

func capFromResponse(r supplyCapResponse) stablecoin.SupplyCap {
	return stablecoin.SupplyCap{
		StablecoinIndex: r.StablecoinIndex,
		Cap:             r.SupplyCap,
		CurrentSupply:   r.CurrentSupply,
	}
}
