package archive

// Submission is one archived unit, identified by its position and creation
// timestamp token.
type Submission struct {
	Position     string
	Token        string
	Folder       string
	DocumentPath string
}

// Status describes where a submission is in its lifecycle. It is derived
// from the archive contents, never cached, so a reader observing a folder
// mid-write simply sees it as unreviewed.
type Status int

const (
	StatusUnreviewed Status = iota
	StatusReviewed
)

func (st Status) String() string {
	switch st {
	case StatusReviewed:
		return "reviewed"
	default:
		return "unreviewed"
	}
}

// Status reports whether the folder's submission has a persisted evaluation.
func (s *Store) Status(folder string) Status {
	if _, err := s.LoadEvaluation(folder); err != nil {
		return StatusUnreviewed
	}
	return StatusReviewed
}
