package archive

import (
	"errors"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/actnova/resume-referee/internal/logger"
)

// DefaultRecentLimit is how many prior submissions a comparison considers.
const DefaultRecentLimit = 5

// RecentEntry pairs a qualifying submission folder with its document and
// persisted evaluation text.
type RecentEntry struct {
	Folder       string
	DocumentPath string
	Evaluation   string
}

// SelectRecent returns up to limit reviewed submissions for the position,
// most recent first. Folders without a document, folders without a persisted
// evaluation, and the excluded folder are skipped; skipped folders do not
// count against the limit. Fewer than limit results is a normal outcome.
//
// The exclusion compares cleaned paths. This is the single authoritative
// exclusion point for self-comparison.
func (s *Store) SelectRecent(position, excludeFolder string, limit int) ([]RecentEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	folders, err := s.ListSubmissionFolders(position)
	if err != nil {
		return nil, err
	}

	// Tokens are fixed-width and zero-padded, so lexical descending order is
	// chronological descending order.
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))

	exclude := filepath.Clean(excludeFolder)

	entries := make([]RecentEntry, 0, limit)
	for _, folder := range folders {
		if filepath.Clean(folder) == exclude {
			continue
		}

		doc, err := s.LoadDocumentRef(folder)
		if errors.Is(err, ErrNoDocument) {
			continue
		}
		if err != nil {
			return nil, err
		}

		evaluation, err := s.LoadEvaluation(folder)
		if errors.Is(err, ErrNoEvaluation) {
			s.logger.Debug("skipping unreviewed submission", zap.String(logger.FieldFolder, folder))
			continue
		}
		if err != nil {
			return nil, err
		}

		entries = append(entries, RecentEntry{
			Folder:       folder,
			DocumentPath: doc,
			Evaluation:   evaluation,
		})

		if len(entries) >= limit {
			break
		}
	}

	s.logger.Debug("selected recent submissions",
		zap.String(logger.FieldPosition, position),
		zap.Int("count", len(entries)),
	)

	return entries, nil
}
