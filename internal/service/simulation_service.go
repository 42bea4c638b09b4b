package service

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

const (
	// DefaultSimulationCount is used when no count is requested.
	DefaultSimulationCount = 10
	// MaxSimulationCount caps a single simulation request.
	MaxSimulationCount = 100

	simulationSource = "simulator"
)

// TicketProcessor runs one ticket through the pipeline.
type TicketProcessor interface {
	ProcessTicket(ctx context.Context, input SubmitInput) (*PipelineResult, error)
}

// SampleTicket is a canned ticket used for demo traffic.
type SampleTicket struct {
	Title       string
	Description string
}

var defaultSamples = []SampleTicket{
	{"App crash on login", "The mobile app crashes every time I try to log in."},
	{"Error 404 on dashboard", "I get a 404 error when opening the reports dashboard."},
	{"Export keeps failing", "The CSV export fails with an exception halfway through."},
	{"Production down", "Our production environment is down after the last deploy, possible data loss."},
	{"Locked out of my account", "I was locked out after too many password attempts."},
	{"Cannot sign in", "Sign in says my password is wrong even after a reset."},
	{"Change account email", "How do I change the email address on my account?"},
	{"Help needed", "How do I export data to a spreadsheet?"},
	{"Question about webhooks", "How can I configure webhook notifications for new invoices?"},
	{"Setting up two teams", "How to invite teammates into a second workspace?"},
	{"Dark mode", "Feature request: dark mode for the web dashboard."},
	{"Bulk edit", "It would be nice to bulk edit tags on many records."},
	{"Calendar integration", "Please add a Google Calendar integration."},
	{"Something happened", "Not sure what."},
	{"Pricing question", "Do you offer discounts for non-profit organizations?"},
}

// SimulatedTicket is the outcome of one simulated submission.
type SimulatedTicket struct {
	TicketID string
	Title    string
	Category domain.TicketCategory
	Severity domain.TicketSeverity
	Status   domain.TicketStatus
	Score    float64
	Err      error
}

// SimulationSummary aggregates a simulation batch.
type SimulationSummary struct {
	Requested    int
	Processed    int
	AutoResolved int
	Escalated    int
	Failed       int
	Tickets      []SimulatedTicket
}

// SimulationService generates demo traffic through the pipeline.
type SimulationService struct {
	pipeline    TicketProcessor
	samples     []SampleTicket
	concurrency int
	seed        int64
	logger      *zap.Logger
}

// SimulationDependencies bundles simulator settings.
type SimulationDependencies struct {
	Pipeline    TicketProcessor
	Samples     []SampleTicket
	Concurrency int
	Seed        int64
	Logger      *zap.Logger
}

// NewSimulationService constructs the simulator. A zero seed uses the clock.
func NewSimulationService(deps SimulationDependencies) *SimulationService {
	s := &SimulationService{
		pipeline:    deps.Pipeline,
		samples:     deps.Samples,
		concurrency: deps.Concurrency,
		seed:        deps.Seed,
		logger:      deps.Logger,
	}
	if len(s.samples) == 0 {
		s.samples = defaultSamples
	}
	if s.concurrency <= 0 {
		s.concurrency = 1
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Simulate submits count sample tickets concurrently. Individual failures are
// counted, not returned; only an invalid count is an error.
func (s *SimulationService) Simulate(ctx context.Context, count int) (*SimulationSummary, error) {
	if count == 0 {
		count = DefaultSimulationCount
	}
	if count < 1 || count > MaxSimulationCount {
		return nil, apperrors.NewValidationError("count must be between 1 and 100", map[string]any{"count": count})
	}

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	picks := make([]SampleTicket, count)
	for i := range picks {
		picks[i] = s.samples[rng.Intn(len(s.samples))]
	}

	results := make([]SimulatedTicket, count)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, sample := range picks {
		i, sample := i, sample
		g.Go(func() error {
			results[i] = s.runOne(gCtx, sample)
			return nil
		})
	}
	_ = g.Wait()

	summary := &SimulationSummary{Requested: count, Tickets: results}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Processed++
		switch r.Status {
		case domain.TicketStatusAutoResolved:
			summary.AutoResolved++
		case domain.TicketStatusEscalated:
			summary.Escalated++
		}
	}
	s.logger.Info("simulation finished",
		zap.Int("requested", summary.Requested),
		zap.Int("auto_resolved", summary.AutoResolved),
		zap.Int("escalated", summary.Escalated),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (s *SimulationService) runOne(ctx context.Context, sample SampleTicket) SimulatedTicket {
	out := SimulatedTicket{Title: sample.Title}
	result, err := s.pipeline.ProcessTicket(ctx, SubmitInput{
		Title:       sample.Title,
		Description: sample.Description,
		Source:      simulationSource,
	})
	if result != nil {
		out.TicketID = result.Ticket.ID
		out.Category = result.Category
		out.Severity = result.Severity
		out.Status = result.Ticket.Status
		out.Score = result.MatchScore
	}
	if err != nil && (result == nil || !result.Ticket.Status.IsTerminal()) {
		out.Err = err
	}
	return out
}
