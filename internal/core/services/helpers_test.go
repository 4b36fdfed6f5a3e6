package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/detector"
	"github.com/custodia-labs/f5lake/internal/extractor"
	"github.com/custodia-labs/f5lake/internal/normalisers/f5"
	"github.com/custodia-labs/f5lake/internal/postprocessors"
)

var testClock = func() time.Time {
	return time.Date(2025, time.August, 9, 12, 0, 0, 0, time.UTC)
}

// flatLine renders a flat-text record with the given variable fields.
func flatLine(code, ms int, ua, contentType string) string {
	return fmt.Sprintf(
		`Aug  8 03:33:33 www.gub.uy 186.48.242.68 [10.233.114.14] - "" [08/Aug/2025:03:33:33 -0300] `+
			`"GET /a HTTP/1.1" %d 100 "-" "%s" Time %d Age "" "%s" "" - `+
			`"/Common/vs_portal" "/Common/pool_portal" TEPROD`,
		code, ua, ms, contentType)
}

const structuredLine = `{"timestamp_syslog":"Aug 18 10:00:00","hostname":"h","ip_cliente_externo":"1.2.3.4",` +
	`"codigo_respuesta":503,"tiempo_respuesta_ms":20,"f5_pool":"/Common/pool_api","entorno_nodo":"TEPROD"}`

func newTestPipeline(t *testing.T) *RecordPipeline {
	t.Helper()
	cfg := domain.DefaultEnrichmentConfig()
	cfg.Now = testClock
	cfg.EngineVersion = "f5lake/test"

	enrich, err := postprocessors.NewDefaultPipeline(cfg)
	require.NoError(t, err)

	return NewRecordPipeline(detector.New(), extractor.New(), extractor.NewDecoder(), f5.New(), enrich)
}

// brokenNormaliser always reports a contract violation.
type brokenNormaliser struct{}

func (brokenNormaliser) Normalise(domain.FieldMap) (domain.NormalizedRecord, error) {
	return domain.NormalizedRecord{}, fmt.Errorf("%w: missing node_environment", domain.ErrContractViolation)
}

func feed(records ...domain.RawRecord) <-chan domain.RawRecord {
	ch := make(chan domain.RawRecord, len(records))
	for _, r := range records {
		ch <- r
	}
	close(ch)
	return ch
}

func raws(payloads ...string) []domain.RawRecord {
	out := make([]domain.RawRecord, len(payloads))
	for i, p := range payloads {
		out[i] = domain.RawRecord{Source: "test.log", Line: int64(i + 1), Payload: p}
	}
	return out
}

// mockConnector implements driven.Connector for testing.
type mockConnector struct {
	source      string
	records     []domain.RawRecord
	readErr     error
	validateErr error
	closed      bool
}

func (m *mockConnector) Type() string     { return "mock" }
func (m *mockConnector) SourceID() string { return m.source }

func (m *mockConnector) Validate(_ context.Context) error {
	return m.validateErr
}

func (m *mockConnector) Read(ctx context.Context) (<-chan domain.RawRecord, <-chan error) {
	out := make(chan domain.RawRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		for _, r := range m.records {
			select {
			case <-ctx.Done():
				return
			case out <- r:
			}
		}
		if m.readErr != nil {
			errs <- m.readErr
		}
	}()

	return out, errs
}

func (m *mockConnector) Close() error {
	m.closed = true
	return nil
}

// mockFactory implements driven.ConnectorFactory.
type mockFactory struct {
	connectors map[string]*mockConnector
}

func (f *mockFactory) Create(_ context.Context, source string) (driven.Connector, error) {
	if c, ok := f.connectors[source]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, source)
}

// failingSink rejects every write.
type failingSink struct{}

func (failingSink) Name() string { return "failing" }
func (failingSink) Write(context.Context, []domain.EnrichedRecord) error {
	return errors.New("disk full")
}
func (failingSink) Close() error { return nil }

// recordingNotifier captures alert batches.
type recordingNotifier struct {
	mu      sync.Mutex
	batches [][]domain.Alert
}

func (n *recordingNotifier) Notify(_ context.Context, alerts []domain.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, append([]domain.Alert(nil), alerts...))
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

// recordingReporter captures reported runs.
type recordingReporter struct {
	runs []domain.BatchRun
}

func (r *recordingReporter) ReportRun(run domain.BatchRun) {
	r.runs = append(r.runs, run)
}
