package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/actnova/resume-referee/internal/logger"
)

const (
	// EvaluationFile is the fixed name of the file holding a submission's
	// review text inside its folder.
	EvaluationFile = "review_result.txt"

	// tokenLayout produces fixed-width, zero-padded timestamp tokens so that
	// lexical descending order equals chronological descending order.
	tokenLayout = "20060102_150405"
)

var (
	// ErrNoDocument reports a submission folder without an original document.
	ErrNoDocument = errors.New("submission folder has no document")
	// ErrNoEvaluation reports a submission that has not been reviewed yet.
	ErrNoEvaluation = errors.New("submission has no evaluation yet")
	// ErrNoSubmissions reports a position without any archived submission.
	ErrNoSubmissions = errors.New("no submissions archived for this position")
)

// Store is the filesystem archive of submissions, organized as
// <root>/<position>/<token>/ with the original document and, once reviewed,
// the evaluation file inside each folder.
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore creates a Store rooted at the given directory.
func NewStore(root string, log *zap.Logger) *Store {
	return &Store{
		root:   root,
		logger: logger.WithFields(log),
	}
}

// Root returns the archive root directory.
func (s *Store) Root() string { return s.root }

// PositionDir returns the directory grouping all submissions for a position.
func (s *Store) PositionDir(position string) string {
	return filepath.Join(s.root, position)
}

// Folder returns the submission folder for a position and timestamp token.
func (s *Store) Folder(position, token string) string {
	return filepath.Join(s.root, position, token)
}

// NewToken formats the creation timestamp token for a submission.
func NewToken(now time.Time) string {
	return now.Format(tokenLayout)
}

// ListSubmissionFolders enumerates every submission folder for the position
// in lexical ascending order. A position without submissions yields an empty
// list.
func (s *Store) ListSubmissionFolders(position string) ([]string, error) {
	dir := s.PositionDir(position)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading position directory %q: %w", dir, err)
	}

	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folders = append(folders, filepath.Join(dir, entry.Name()))
	}

	return folders, nil
}

// LoadDocumentRef locates the original document within a folder. The first
// regular file in lexical order that is not the evaluation file wins; more
// than one document in a folder is an anomalous state.
func (s *Store) LoadDocumentRef(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", fmt.Errorf("reading submission folder %q: %w", folder, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == EvaluationFile {
			continue
		}
		return filepath.Join(folder, entry.Name()), nil
	}

	return "", ErrNoDocument
}

// LoadEvaluation reads the persisted evaluation for a folder. Absence is
// reported as ErrNoEvaluation and is distinct from an evaluation that is
// merely empty text.
func (s *Store) LoadEvaluation(folder string) (string, error) {
	data, err := os.ReadFile(filepath.Join(folder, EvaluationFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoEvaluation
	}
	if err != nil {
		return "", fmt.Errorf("reading evaluation for %q: %w", folder, err)
	}

	return string(data), nil
}

// WriteEvaluation persists evaluation text for a folder, overwriting any
// previous evaluation.
func (s *Store) WriteEvaluation(folder, text string) error {
	path := filepath.Join(folder, EvaluationFile)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing evaluation to %q: %w", path, err)
	}

	s.logger.Debug("evaluation persisted", zap.String(logger.FieldFolder, folder))
	return nil
}

// SaveDocument creates a fresh submission folder for the position, keyed by
// the creation timestamp, and writes the document bytes into it.
func (s *Store) SaveDocument(position, filename string, data []byte, now time.Time) (*Submission, error) {
	token := NewToken(now)
	folder := s.Folder(position, token)

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("creating submission folder %q: %w", folder, err)
	}

	path := filepath.Join(folder, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing document to %q: %w", path, err)
	}

	s.logger.Debug("document archived",
		zap.String(logger.FieldPosition, position),
		zap.String(logger.FieldFolder, folder),
	)

	return &Submission{
		Position:     position,
		Token:        token,
		Folder:       folder,
		DocumentPath: path,
	}, nil
}

// LatestFolder returns the most recent submission folder for the position
// that contains a document.
func (s *Store) LatestFolder(position string) (string, error) {
	folders, err := s.ListSubmissionFolders(position)
	if err != nil {
		return "", err
	}

	for i := len(folders) - 1; i >= 0; i-- {
		if _, err := s.LoadDocumentRef(folders[i]); err == nil {
			return folders[i], nil
		}
	}

	return "", ErrNoSubmissions
}
