package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
)

// Classifier maps a clinical note to billing codes.
type Classifier interface {
	Classify(ctx context.Context, note string, history []ChatExchange) ([]models.BillingCode, error)
}

// ChatExchange is one prior (question, answer) turn sent as conversation context.
type ChatExchange [2]string

// --- Wire shapes for the classification service ---

type classifyRequest struct {
	Text        string         `json:"text"`
	ChatHistory []ChatExchange `json:"chat_history"`
}

type classifiedCode struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	Unit        int     `json:"unit"`
}

type classifyResponse struct {
	Codes []classifiedCode `json:"codes"`
	Error string           `json:"error"`
}

// CodeClassifier talks to the external note-to-code service over HTTP.
type CodeClassifier struct {
	baseURL string
	client  *http.Client
}

// NewCodeClassifier builds a client for baseURL. A zero timeout keeps the transport default.
func NewCodeClassifier(baseURL string, timeout time.Duration) *CodeClassifier {
	return &CodeClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Classify posts the note and returns the suggested codes. An empty or absent code list is
// a valid answer and yields an empty slice.
func (s *CodeClassifier) Classify(ctx context.Context, note string, history []ChatExchange) ([]models.BillingCode, error) {
	if history == nil {
		history = []ChatExchange{}
	}
	jsonBody, err := json.Marshal(classifyRequest{Text: note, ChatHistory: history})
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/bill", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call classifier: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read classifier response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned %d: %s", httpResp.StatusCode, truncate(string(respBody), 200))
	}

	var out classifyResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	if out.Error != "" {
		return nil, errors.New("classifier error: " + out.Error)
	}

	codes := make([]models.BillingCode, 0, len(out.Codes))
	for _, c := range out.Codes {
		if strings.TrimSpace(c.Code) == "" {
			continue
		}
		unit := c.Unit
		if unit < 1 {
			unit = 1
		}
		price := c.UnitPrice
		if price < 0 {
			price = 0
		}
		codes = append(codes, models.BillingCode{
			Code:        c.Code,
			Description: c.Description,
			UnitPrice:   price,
			Unit:        unit,
		})
	}
	return codes, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
