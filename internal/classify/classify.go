// Package classify decides whether a document belongs to a study program by
// counting program keywords in its leading text.
package classify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrNoCandidates is returned by Select when there is nothing to choose from.
var ErrNoCandidates = errors.New("no candidate documents")

// Classifier holds per-program keyword sets. Keywords are compared
// lower-cased against lower-cased text.
type Classifier struct {
	keywords  map[string][]string
	threshold int
	log       *slog.Logger
}

// New builds a classifier. threshold is the number of distinct keywords a
// text must contain to match; values below 1 are treated as 1.
func New(keywords map[string][]string, threshold int, log *slog.Logger) *Classifier {
	if threshold < 1 {
		threshold = 1
	}
	if log == nil {
		log = slog.Default()
	}
	c := &Classifier{
		keywords:  make(map[string][]string, len(keywords)),
		threshold: threshold,
		log:       log,
	}
	for id, words := range keywords {
		var lowered []string
		seen := make(map[string]bool, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" && !seen[w] {
				seen[w] = true
				lowered = append(lowered, w)
			}
		}
		c.keywords[id] = lowered
	}
	return c
}

// Threshold returns the minimum score for a match.
func (c *Classifier) Threshold() int {
	return c.threshold
}

// Keywords returns the lower-cased keyword set for a program.
func (c *Classifier) Keywords(programID string) []string {
	return append([]string(nil), c.keywords[programID]...)
}

// Known reports whether programID has a keyword set.
func (c *Classifier) Known(programID string) bool {
	_, ok := c.keywords[programID]
	return ok
}

// Score counts how many of the program's keywords occur in text.
// Repeated occurrences of one keyword count once.
func (c *Classifier) Score(text, programID string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, kw := range c.keywords[programID] {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

// Matches reports whether text scores at least the threshold.
func (c *Classifier) Matches(text, programID string) bool {
	return c.Score(text, programID) >= c.threshold
}

// LoadFunc returns the classification text for a candidate document.
type LoadFunc func(ctx context.Context, candidate string) (string, error)

// Select returns the first candidate whose text matches programID. When none
// match it falls back to the first candidate. A candidate that cannot be
// loaded counts as a non-match.
func (c *Classifier) Select(ctx context.Context, programID string, candidates []string, load LoadFunc) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := load(ctx, cand)
		if err != nil {
			c.log.Warn("candidate unreadable", "program_id", programID, "candidate", cand, "error", err)
			continue
		}
		if score := c.Score(text, programID); score >= c.threshold {
			c.log.Debug("candidate matched", "program_id", programID, "candidate", cand, "score", score)
			return cand, nil
		}
	}
	c.log.Info("no candidate matched, using first", "program_id", programID, "candidate", candidates[0])
	return candidates[0], nil
}
