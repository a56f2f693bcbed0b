package lib

import (
	"buspass/src/lifecycle"
	"context"
	"log"
	"time"
)

// SimulatedGateway stands in for a real payment processor. It waits for the
// configured latency and then approves the charge. A real integration slots
// in here with its own timeout and retry handling.
type SimulatedGateway struct {
	Latency time.Duration
}

func NewSimulatedGateway(latency time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Latency: latency}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req lifecycle.ChargeRequest) error {
	log.Printf("[gateway] Processing charge %s: %d %s via %s\n", req.ReferenceID, req.Amount, req.Currency, req.Mode)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.Latency):
	}
	return nil
}
