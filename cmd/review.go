package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/actnova/resume-referee/internal/ai"
	"github.com/actnova/resume-referee/internal/archive"
	"github.com/actnova/resume-referee/internal/extract"
	"github.com/actnova/resume-referee/internal/logger"
	"github.com/actnova/resume-referee/internal/review"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

// session carries the explicit workflow state through the review steps, from
// unreviewed upload to reviewed (and optionally compared) submission.
type session struct {
	position   string
	submission *archive.Submission
	resumeText string
	evaluation string
	comparison string
}

func (s *session) status(store *archive.Store) archive.Status {
	if s.submission == nil {
		return archive.StatusUnreviewed
	}
	return store.Status(s.submission.Folder)
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a resume for a position and archive the evaluation",
	Run: func(cmd *cobra.Command, _ []string) {
		runReview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringP("file", "f", "", "path to the resume document (pdf or txt)")
	reviewCmd.Flags().StringP("position", "p", "", "hiring position; must be one of the configured positions")
	reviewCmd.Flags().BoolP("compare", "c", false, "compare against recent submissions without asking")
}

// runReview drives upload → extraction → evaluation → archive → comparison.
func runReview(cmd *cobra.Command) {
	ctx := context.Background()

	logr, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logr.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logr.Fatal("config is required")
	}

	file := strings.TrimSpace(cmd.Flag("file").Value.String())
	if file == "" {
		logr.Fatal("resume file is required", zap.String("hint", "pass the document with --file"))
	}

	position, err := resolvePosition(cmd, config)
	if err != nil {
		logr.Fatal("resolving position", zap.Error(err))
	}

	sess := &session{position: position}
	store := archive.NewStore(config.ArchiveRoot, logr)

	data, err := os.ReadFile(file)
	if err != nil {
		logr.Fatal("reading resume file", zap.Error(err))
	}

	sub, err := store.SaveDocument(position, filepath.Base(file), data, time.Now())
	if err != nil {
		logr.Fatal("archiving resume", zap.Error(err))
	}
	sess.submission = sub

	logr.Info("resume archived",
		zap.String(logger.FieldPosition, position),
		zap.String(logger.FieldFolder, sub.Folder),
	)

	text, err := extract.Text(sub.DocumentPath)
	if err != nil {
		logr.Fatal("extracting resume text", zap.Error(err))
	}
	sess.resumeText = text

	gen, err := newGenerator(ctx, config.AI, logr)
	if err != nil {
		logr.Fatal("building ai generator", zap.Error(err))
	}

	evaluator := review.NewEvaluator(gen, logr, maxLogLength(config))

	logr.Info("reviewing resume, this may take a few minutes",
		zap.String(logger.FieldPosition, position),
		zap.String(logger.FieldModel, gen.Model()),
	)

	start := time.Now()
	evaluation, err := evaluator.Evaluate(ctx, text, position)
	if err != nil {
		// The evaluation file is written only on success, so the submission
		// stays unreviewed.
		logr.Fatal("reviewing resume", zap.Error(err))
	}
	sess.evaluation = evaluation

	if err := store.WriteEvaluation(sub.Folder, evaluation); err != nil {
		logr.Fatal("persisting evaluation", zap.Error(err))
	}

	logr.Info("resume review finished",
		zap.String(logger.FieldFolder, sub.Folder),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("status", sess.status(store).String()),
	)

	fmt.Println(evaluation)

	if !shouldCompare(cmd) {
		return
	}

	runComparison(ctx, sess, store, gen, config, logr)
}

// shouldCompare honors the --compare flag and otherwise asks.
func shouldCompare(cmd *cobra.Command) bool {
	if cmd.Flag("compare").Value.String() == "true" {
		return true
	}

	prompt := promptui.Select{
		Label: "Compare against recent submissions?",
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false
	}

	return answer == PromptYes
}

func runComparison(ctx context.Context, sess *session, store *archive.Store, gen ai.Generator, config *Config, logr *zap.Logger) {
	comparator := review.NewComparator(store, gen, logr, config.RecentLimit, maxLogLength(config))

	logr.Info("comparing against recent submissions, this may take a few minutes",
		zap.String(logger.FieldPosition, sess.position),
	)

	comparison, err := comparator.Compare(ctx, sess.submission.Folder, sess.position)
	switch {
	case errors.Is(err, review.ErrNotEnoughHistory), errors.Is(err, review.ErrNotReviewed):
		logr.Info("skipping comparison", zap.String("reason", err.Error()))
		return
	case err != nil:
		logr.Fatal("comparing resume", zap.Error(err))
	}
	sess.comparison = comparison

	fmt.Println(comparison)
}

// resolvePosition validates the --position flag against the configured
// positions, or offers an interactive selection when the flag is absent.
func resolvePosition(cmd *cobra.Command, config *Config) (string, error) {
	if len(config.Positions) == 0 {
		return "", errors.New("no positions configured; set the 'positions' list in the configuration file")
	}

	requested := strings.TrimSpace(cmd.Flag("position").Value.String())
	if requested != "" {
		for _, position := range config.Positions {
			if position == requested {
				return position, nil
			}
		}
		return "", fmt.Errorf("unknown position %q (configured: %s)", requested, strings.Join(config.Positions, ", "))
	}

	prompt := promptui.Select{
		Label: "Select the position",
		Items: config.Positions,
	}

	_, selected, err := prompt.Run()
	return selected, err
}
