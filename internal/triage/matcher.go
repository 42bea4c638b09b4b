package triage

import (
	"sort"
	"strings"
	"unicode"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// DefaultMinTokenLength drops tokens shorter than this many runes.
const DefaultMinTokenLength = 3

var defaultStopWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "your", "with", "this",
	"that", "have", "has", "had", "was", "were", "will", "can", "cannot", "what",
	"when", "where", "which", "who", "how", "why", "from", "into", "about", "there",
	"their", "they", "them", "then", "than", "our", "out", "all", "any", "some",
	"get", "got", "does", "did", "doing", "just", "also", "very", "too", "its",
	"been", "being", "would", "could", "should", "please",
}

// Match is the best-scoring knowledge article for a ticket, if any.
type Match struct {
	Article *domain.KnowledgeArticle
	Score   float64
}

// Found reports whether an article qualified.
func (m Match) Found() bool {
	return m.Article != nil
}

// MatcherOptions tunes tokenization.
type MatcherOptions struct {
	MinTokenLength int
	StopWords      []string
}

// Matcher scores knowledge articles by significant-word overlap.
type Matcher struct {
	minTokenLength int
	stopWords      map[string]struct{}
}

// NewMatcher constructs a matcher; zero options use the defaults.
func NewMatcher(opts MatcherOptions) *Matcher {
	if opts.MinTokenLength <= 0 {
		opts.MinTokenLength = DefaultMinTokenLength
	}
	if opts.StopWords == nil {
		opts.StopWords = defaultStopWords
	}
	stop := make(map[string]struct{}, len(opts.StopWords))
	for _, w := range opts.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Matcher{minTokenLength: opts.MinTokenLength, stopWords: stop}
}

// Match scores every article in the ticket's category and returns the best one.
// Articles from other categories are ignored even if the caller passed them.
func (m *Matcher) Match(ticket domain.Ticket, articles []domain.KnowledgeArticle) Match {
	words := m.SignificantWords(ticket.Text())
	if len(words) == 0 {
		return Match{}
	}

	candidates := make([]domain.KnowledgeArticle, 0, len(articles))
	for _, a := range articles {
		if a.Category == ticket.Category {
			candidates = append(candidates, a)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})

	best := -1
	bestScore := 0.0
	for i := range candidates {
		score := m.score(words, candidates[i])
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Match{}
	}
	article := candidates[best]
	return Match{Article: &article, Score: bestScore}
}

func (m *Matcher) score(words map[string]struct{}, article domain.KnowledgeArticle) float64 {
	vocab := m.SignificantWords(strings.Join(article.Tags, " ") + " " + article.Content)
	hits := 0
	for w := range words {
		if _, ok := vocab[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

// SignificantWords lower-cases and tokenizes text, dropping short tokens and stop words.
func (m *Matcher) SignificantWords(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < m.minTokenLength {
			continue
		}
		if _, stop := m.stopWords[f]; stop {
			continue
		}
		words[f] = struct{}{}
	}
	return words
}
