package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

// RecordWriter receives extraction and scoring output for persistence. The
// extraction core never persists anything itself.
type RecordWriter interface {
	UpsertExtracted(ctx context.Context, sourceURL string, rec ExtractedJobRecord) (uuid.UUID, error)
	SaveMatch(ctx context.Context, m MatchRecord) error
}

type Reader interface {
	FindByID(ctx context.Context, id uuid.UUID) (Job, error)
}
