package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/actnova/resume-referee/internal/ai"
	"github.com/actnova/resume-referee/internal/archive"
	"github.com/actnova/resume-referee/internal/logger"
)

//go:embed prompt_compare.md
var comparePromptTemplate string

const (
	// CompareFailedMarker prefixes every error returned when the remote
	// comparison call fails.
	CompareFailedMarker = "resume comparison failed"

	compareTemperature = 0.7

	compareSystem = "You are a recruiter at a small startup. " +
		"You compare multiple resumes and provide a relative assessment of each candidate."
)

var (
	// ErrNotReviewed reports a comparison request for a submission whose
	// evaluation has not been persisted yet.
	ErrNotReviewed = errors.New("no evaluation available for this submission yet")

	// ErrNotEnoughHistory reports that fewer than two reviewed submissions
	// (the current one plus at least one peer) exist for the position. This
	// is an expected outcome, not a fault.
	ErrNotEnoughHistory = errors.New("not enough reviewed submissions to compare against; at least 2 are required")
)

// Comparator ranks a submission's evaluation against recently archived
// evaluations for the same position.
type Comparator struct {
	store     *archive.Store
	gen       ai.Generator
	logger    *zap.Logger
	limit     int
	maxLogLen int
}

// NewComparator creates a Comparator that considers up to limit recent peers.
func NewComparator(store *archive.Store, gen ai.Generator, log *zap.Logger, limit, maxLogLength int) *Comparator {
	if limit <= 0 {
		limit = archive.DefaultRecentLimit
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Comparator{
		store:     store,
		gen:       gen,
		logger:    logger.WithFields(log),
		limit:     limit,
		maxLogLen: maxLogLength,
	}
}

// Compare loads the current submission's evaluation, selects recent reviewed
// peers for the position, and asks the model for a relative assessment.
// Self-comparison is prevented by the selector's path-based exclusion; no
// second check happens during prompt assembly.
func (c *Comparator) Compare(ctx context.Context, currentFolder, position string) (string, error) {
	current, err := c.store.LoadEvaluation(currentFolder)
	if errors.Is(err, archive.ErrNoEvaluation) {
		return "", ErrNotReviewed
	}
	if err != nil {
		return "", err
	}

	peers, err := c.store.SelectRecent(position, currentFolder, c.limit)
	if err != nil {
		return "", err
	}

	if len(peers) < 1 {
		return "", ErrNotEnoughHistory
	}

	var peerBlocks strings.Builder
	for i, peer := range peers {
		fmt.Fprintf(&peerBlocks, "Resume %d review:\n%s\n\n", i+1, peer.Evaluation)
	}

	prompt := strings.ReplaceAll(comparePromptTemplate, "{{CURRENT_REVIEW}}", current)
	prompt = strings.ReplaceAll(prompt, "{{PEER_REVIEWS}}", strings.TrimRight(peerBlocks.String(), "\n"))

	c.logger.Debug("resume comparison request",
		zap.String(logger.FieldPosition, position),
		zap.String(logger.FieldFolder, currentFolder),
		zap.Int("peers", len(peers)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	output, err := c.gen.GenerateContent(ctx, ai.Request{
		System:          compareSystem,
		Prompt:          prompt,
		Temperature:     compareTemperature,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", CompareFailedMarker, err)
	}

	c.logger.Debug("resume comparison response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", logger.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}
