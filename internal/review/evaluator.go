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
	"github.com/actnova/resume-referee/internal/logger"
)

//go:embed prompt_review.md
var reviewPromptTemplate string

const (
	// ReviewFailedMarker prefixes every error returned when the remote review
	// call fails, so callers and logs can identify the failing operation.
	ReviewFailedMarker = "resume review failed"

	// The review leans deterministic; the comparison runs warmer to allow
	// broader comparative language.
	reviewTemperature = 0.3

	maxOutputTokens = 2500

	reviewSystemTemplate = "You are a {{POSITION}} at a small startup looking for an outstanding teammate. " +
		"Read the resume, decide strictly whether the application passes or fails the document screening, " +
		"and give the reasons for your decision."

	defaultMaxLogLength = 200
)

// Evaluator produces a single-submission hiring evaluation from extracted
// resume text.
type Evaluator struct {
	gen       ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewEvaluator creates an Evaluator backed by the given generator.
func NewEvaluator(gen ai.Generator, log *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Evaluator{
		gen:       gen,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// Evaluate sends the resume text to the model and returns its raw evaluation
// text unparsed. The evaluation is an opaque blob from here on.
func (e *Evaluator) Evaluate(ctx context.Context, resumeText, position string) (string, error) {
	if strings.TrimSpace(resumeText) == "" {
		return "", errors.New("resume text is required")
	}
	if strings.TrimSpace(position) == "" {
		return "", errors.New("position is required")
	}

	system := strings.ReplaceAll(reviewSystemTemplate, "{{POSITION}}", position)
	prompt := strings.ReplaceAll(reviewPromptTemplate, "{{RESUME_TEXT}}", resumeText)

	e.logger.Debug("resume review request",
		zap.String(logger.FieldPosition, position),
		zap.String(logger.FieldModel, e.gen.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	output, err := e.gen.GenerateContent(ctx, ai.Request{
		System:          system,
		Prompt:          prompt,
		Temperature:     reviewTemperature,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", ReviewFailedMarker, err)
	}

	e.logger.Debug("resume review response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", logger.TruncateForLog(output, e.maxLogLen)),
	)

	return output, nil
}
