package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/events"
	"github.com/spec-kit/ticket-deflection/internal/observability"
	"github.com/spec-kit/ticket-deflection/internal/repository"
	"github.com/spec-kit/ticket-deflection/internal/triage"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// ArticleFinder supplies the knowledge snapshot for one category.
type ArticleFinder interface {
	FindArticlesByCategory(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, error)
}

// PipelineService runs submitted tickets through classification, matching and decision.
type PipelineService struct {
	tickets    repository.TicketRepository
	articles   ArticleFinder
	activity   repository.ActivityRepository
	classifier *triage.Classifier
	matcher    *triage.Matcher
	decider    *triage.DecisionEngine
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        Clock
}

// PipelineDependencies bundles collaborators for the pipeline.
type PipelineDependencies struct {
	TicketRepo   repository.TicketRepository
	Articles     ArticleFinder
	ActivityRepo repository.ActivityRepository
	Classifier   *triage.Classifier
	Matcher      *triage.Matcher
	Decider      *triage.DecisionEngine
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Clock        Clock
}

// SubmitInput is a raw ticket entering the pipeline.
type SubmitInput struct {
	Title       string
	Description string
	Source      string
}

// PipelineResult bundles the outcome of one run.
type PipelineResult struct {
	Ticket              domain.Ticket
	Category            domain.TicketCategory
	Severity            domain.TicketSeverity
	MatchedArticleTitle *string
	MatchScore          float64
	ActivityLog         []domain.ActivityLogEntry
}

// NewPipelineService constructs the service, defaulting the triage components.
func NewPipelineService(deps PipelineDependencies) *PipelineService {
	s := &PipelineService{
		tickets:    deps.TicketRepo,
		articles:   deps.Articles,
		activity:   deps.ActivityRepo,
		classifier: deps.Classifier,
		matcher:    deps.Matcher,
		decider:    deps.Decider,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.classifier == nil {
		s.classifier = triage.NewClassifier(nil)
	}
	if s.matcher == nil {
		s.matcher = triage.NewMatcher(triage.MatcherOptions{})
	}
	if s.decider == nil {
		s.decider = triage.NewDecisionEngine(triage.DefaultAutoResolveThreshold)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ProcessTicket creates a ticket and drives it to AutoResolved or Escalated.
//
// A stage fault stops the run; the result then holds the last committed ticket
// and the entries recorded so far, and the fault is returned with it. Activity
// store failures do not stop the run and are returned next to the full result.
func (s *PipelineService) ProcessTicket(ctx context.Context, input SubmitInput) (*PipelineResult, error) {
	started := time.Now()
	now := s.now()
	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusNew,
		Source:      strings.TrimSpace(input.Source),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, &ticket); err != nil {
		return nil, apperrors.NewPersistenceFailure("create ticket", err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		Payload:  events.TicketSubmittedPayload{Title: ticket.Title, Source: ticket.Source},
	})

	run := &pipelineRun{
		svc:      s,
		recorder: NewActivityRecorder(s.activity, s.now),
	}
	result := &PipelineResult{Ticket: ticket}

	var match triage.Match
	err := run.stage("classify", func() error {
		next, err := run.classify(ctx, ticket)
		if err != nil {
			return err
		}
		ticket = next
		return nil
	})
	if err == nil {
		err = run.stage("match", func() error {
			next, m, err := run.match(ctx, ticket)
			if err != nil {
				return err
			}
			ticket, match = next, m
			return nil
		})
	}
	if err == nil {
		err = run.stage("decide", func() error {
			next, err := run.decide(ctx, ticket, match)
			if err != nil {
				return err
			}
			ticket = next
			return nil
		})
	}

	result.Ticket = ticket
	result.Category = ticket.Category
	result.Severity = ticket.Severity
	if match.Found() {
		articleTitle := match.Article.Title
		result.MatchedArticleTitle = &articleTitle
		result.MatchScore = match.Score
	}
	result.ActivityLog = run.recorder.Entries()

	if err != nil {
		s.logger.Error("pipeline aborted",
			zap.String("ticket_id", ticket.ID),
			zap.String("status", string(ticket.Status)),
			zap.Error(err))
		s.metrics.RecordOutcome("Aborted", time.Since(started))
		return result, errors.Join(append([]error{err}, run.activityErrs...)...)
	}

	s.metrics.RecordOutcome(string(ticket.Status), time.Since(started))
	s.publishOutcome(ctx, ticket, result)

	if len(run.activityErrs) > 0 {
		s.logger.Warn("activity log incomplete",
			zap.String("ticket_id", ticket.ID),
			zap.Int("failed_entries", len(run.activityErrs)))
		return result, errors.Join(run.activityErrs...)
	}
	return result, nil
}

// pipelineRun holds the per-run recorder and the activity failures it saw.
type pipelineRun struct {
	svc          *PipelineService
	recorder     *ActivityRecorder
	activityErrs []error
}

// stage runs fn, converting a panic into an internal error.
func (r *pipelineRun) stage(name string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewInternalError(fmt.Errorf("stage %s panicked: %v", name, rec))
		}
	}()
	return fn()
}

func (r *pipelineRun) classify(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	c := r.svc.classifier.Classify(ticket.Title, ticket.Description)

	next := ticket
	next.Category = c.Category
	next.Severity = c.Severity
	if err := r.commit(ctx, &next, domain.TicketStatusClassified); err != nil {
		return ticket, err
	}
	r.record(ctx, next.ID, domain.ActionClassified,
		fmt.Sprintf("Classified as %s with %s severity (rule: %s)", c.Category, c.Severity, c.Rule))
	return next, nil
}

func (r *pipelineRun) match(ctx context.Context, ticket domain.Ticket) (domain.Ticket, triage.Match, error) {
	var articles []domain.KnowledgeArticle
	if r.svc.articles != nil {
		found, err := r.svc.articles.FindArticlesByCategory(ctx, ticket.Category)
		if err != nil {
			return ticket, triage.Match{}, apperrors.NewPersistenceFailure("find articles", err)
		}
		articles = found
	}
	m := r.svc.matcher.Match(ticket, articles)

	next := ticket
	if err := r.commit(ctx, &next, domain.TicketStatusMatched); err != nil {
		return ticket, triage.Match{}, err
	}
	details := "No matching knowledge article found"
	if m.Found() {
		details = fmt.Sprintf("Matched article %q with score %.2f", m.Article.Title, m.Score)
	}
	r.record(ctx, next.ID, domain.ActionMatched, details)
	return next, m, nil
}

func (r *pipelineRun) decide(ctx context.Context, ticket domain.Ticket, m triage.Match) (domain.Ticket, error) {
	d := r.svc.decider.Decide(ticket.Severity, m)

	next := ticket
	next.Resolution = d.Resolution
	if err := r.commit(ctx, &next, d.Status); err != nil {
		return ticket, err
	}

	if d.AutoResolved() {
		r.record(ctx, next.ID, domain.ActionAutoResolved,
			fmt.Sprintf("Auto-resolved using article %q", m.Article.Title))
	} else {
		r.record(ctx, next.ID, domain.ActionEscalated, escalationReason(ticket.Severity, m, r.svc.decider.Threshold()))
	}
	return next, nil
}

// commit moves the ticket forward and persists it. A failed write leaves the
// caller's previous ticket value as the last committed state.
func (r *pipelineRun) commit(ctx context.Context, ticket *domain.Ticket, status domain.TicketStatus) error {
	if !ticket.Status.CanTransitionTo(status) {
		return apperrors.NewInternalError(fmt.Errorf("illegal transition %s -> %s", ticket.Status, status))
	}
	ticket.Status = status
	ticket.UpdatedAt = r.svc.now()
	if err := r.svc.tickets.Update(ctx, ticket); err != nil {
		return apperrors.NewPersistenceFailure("update ticket", err)
	}
	return nil
}

func (r *pipelineRun) record(ctx context.Context, ticketID string, action domain.ActivityAction, details string) {
	if _, err := r.recorder.Record(ctx, ticketID, action, details); err != nil {
		r.activityErrs = append(r.activityErrs, err)
	}
}

func escalationReason(severity domain.TicketSeverity, m triage.Match, threshold float64) string {
	switch {
	case severity == domain.SeverityCritical:
		return "Escalated: critical severity requires human review"
	case !m.Found():
		return "Escalated: no matching knowledge article"
	default:
		return fmt.Sprintf("Escalated: match score %.2f below threshold %.2f", m.Score, threshold)
	}
}

func (s *PipelineService) publishOutcome(ctx context.Context, ticket domain.Ticket, result *PipelineResult) {
	eventType := events.EventTicketEscalated
	if ticket.Status == domain.TicketStatusAutoResolved {
		eventType = events.EventTicketDeflected
	}
	s.publishEvent(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Payload: events.TicketOutcomePayload{
			Category:     ticket.Category,
			Severity:     ticket.Severity,
			ArticleTitle: result.MatchedArticleTitle,
			Score:        result.MatchScore,
		},
	})
}

func (s *PipelineService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}
