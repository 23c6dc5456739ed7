package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/actnova/resume-referee/internal/archive"
	"github.com/actnova/resume-referee/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare an archived submission against recent submissions for the same position",
	Run: func(cmd *cobra.Command, _ []string) {
		runCompare(cmd)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringP("position", "p", "", "hiring position; must be one of the configured positions")
	compareCmd.Flags().StringP("token", "t", "", "submission timestamp token (default is the latest submission)")
}

func runCompare(cmd *cobra.Command) {
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

	position, err := resolvePosition(cmd, config)
	if err != nil {
		logr.Fatal("resolving position", zap.Error(err))
	}

	store := archive.NewStore(config.ArchiveRoot, logr)

	folder, err := resolveFolder(cmd, store, position)
	if err != nil {
		if errors.Is(err, archive.ErrNoSubmissions) {
			logr.Info("nothing to compare", zap.String("reason", err.Error()))
			return
		}
		logr.Fatal("resolving submission", zap.Error(err))
	}

	sess := &session{position: position, submission: &archive.Submission{
		Position: position,
		Folder:   folder,
	}}

	gen, err := newGenerator(ctx, config.AI, logr)
	if err != nil {
		logr.Fatal("building ai generator", zap.Error(err))
	}

	runComparison(ctx, sess, store, gen, config, logr)
}

// resolveFolder picks the submission to compare: the one addressed by the
// --token flag, or the latest archived submission for the position.
func resolveFolder(cmd *cobra.Command, store *archive.Store, position string) (string, error) {
	token := strings.TrimSpace(cmd.Flag("token").Value.String())
	if token == "" {
		return store.LatestFolder(position)
	}

	folder := store.Folder(position, token)
	if _, err := os.Stat(folder); err != nil {
		return "", err
	}

	return folder, nil
}
