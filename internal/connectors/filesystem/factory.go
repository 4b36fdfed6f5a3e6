package filesystem

import (
	"context"
	"fmt"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory creates filesystem connectors sharing one set of options.
type Factory struct {
	opts []Option
}

// NewFactory creates a factory. opts are applied to every connector.
func NewFactory(opts ...Option) *Factory {
	return &Factory{opts: opts}
}

// Create builds a connector for source. The source itself is checked
// by the connector's Validate.
func (f *Factory) Create(_ context.Context, source string) (driven.Connector, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", domain.ErrInvalidInput)
	}
	c := New(source, f.opts...)
	if _, err := decoderFor(c.encoding); err != nil {
		return nil, err
	}
	return c, nil
}
