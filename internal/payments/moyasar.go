package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Moyasar is the gateway of record. In sandbox mode (the default, and the
// only mode exercised by this service) the charge is acknowledged locally
// without a network round-trip.
type Moyasar struct {
	apiKey  string
	baseURL string
	sandbox bool
	client  *http.Client
}

func NewMoyasar(apiKey, baseURL string, sandbox bool) *Moyasar {
	return &Moyasar{
		apiKey:  apiKey,
		baseURL: baseURL,
		sandbox: sandbox,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *Moyasar) Name() string { return "moyasar" }

type moyasarPayment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
	Source struct {
		Message string `json:"message"`
	} `json:"source"`
}

func (m *Moyasar) Charge(ctx context.Context, c Charge) (ChargeResult, error) {
	if m.sandbox {
		return ChargeResult{
			Ref:      "moyasar_sim_" + uuid.NewString(),
			Captured: true,
			Message:  "sandbox charge approved",
		}, nil
	}

	body, err := json.Marshal(map[string]any{
		"amount":      c.AmountCents,
		"currency":    c.Currency,
		"description": c.Description,
		"source":      map[string]string{"type": "token", "token": c.Source},
	})
	if err != nil {
		return ChargeResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return ChargeResult{}, err
	}
	req.SetBasicAuth(m.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("moyasar request failed: %w", err)
	}
	defer resp.Body.Close()

	var p moyasarPayment
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return ChargeResult{}, fmt.Errorf("moyasar response decode failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return ChargeResult{Ref: p.ID, Captured: false, Message: p.Source.Message},
			fmt.Errorf("moyasar rejected charge: status %d", resp.StatusCode)
	}

	return ChargeResult{
		Ref:      p.ID,
		Captured: p.Status == "paid",
		Message:  p.Source.Message,
	}, nil
}
