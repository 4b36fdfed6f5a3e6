package driven

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// Connector delivers raw log records from a source.
// Each connector type (filesystem, stdin) implements this interface.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the source location this connector reads.
	SourceID() string

	// Validate checks the source exists and is readable.
	// Returns nil if ready to read, error describing the problem otherwise.
	Validate(ctx context.Context) error

	// Read streams every record of the source.
	// Both channels are closed when the source is exhausted or ctx is done.
	// A value on the error channel is fatal for the read.
	Read(ctx context.Context) (<-chan domain.RawRecord, <-chan error)

	// Close releases resources.
	Close() error
}

// Watcher reports new source locations as they appear.
type Watcher interface {
	// Watch emits the location of each file that becomes ready to ingest.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)

	// Close stops watching.
	Close() error
}

// ConnectorFactory creates connectors from a source location.
type ConnectorFactory interface {
	// Create builds a connector for the given source ("-" for stdin).
	Create(ctx context.Context, source string) (Connector, error)
}
