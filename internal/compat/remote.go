package compat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Remote asks an external scoring service for breakdowns. While the service fails
// or the breaker is open it answers with the fallback provider instead.
type Remote struct {
	url      string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
	fallback Provider
	log      *zap.Logger
}

func NewRemote(url string, fallback Provider, logger *zap.Logger) *Remote {
	st := gobreaker.Settings{
		Name:        "compat-remote",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &Remote{
		url:      url,
		client:   &http.Client{Timeout: 5 * time.Second},
		cb:       gobreaker.NewCircuitBreaker(st),
		fallback: fallback,
		log:      logger,
	}
}

type remoteRequest struct {
	User     Profile `json:"user"`
	Roommate Profile `json:"roommate"`
}

func (r *Remote) Breakdown(ctx context.Context, a, b Profile) (*Breakdown, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.call(ctx, a, b)
	})
	if err != nil {
		r.log.Warn("remote breakdown failed, using fallback", zap.Error(err))
		return r.fallback.Breakdown(ctx, a, b)
	}
	return res.(*Breakdown), nil
}

func (r *Remote) call(ctx context.Context, a, b Profile) (*Breakdown, error) {
	body, err := json.Marshal(remoteRequest{User: a, Roommate: b})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote breakdown: unexpected status %d", resp.StatusCode)
	}

	var out Breakdown
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding remote breakdown: %w", err)
	}
	if out.Highlights == nil {
		out.Highlights = []string{}
	}
	out.Label = Label(out.Overall)
	return &out, nil
}
