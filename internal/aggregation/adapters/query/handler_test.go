package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"event-aggregation-bot/internal/aggregation/core/domain"
	"event-aggregation-bot/internal/aggregation/core/usecase"
)

// fakeEventReader fakes EventReaderPort for tests.
type fakeEventReader struct {
	FetchFn func(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

func (f *fakeEventReader) FetchRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	if f.FetchFn != nil {
		return f.FetchFn(ctx, from, to)
	}
	return nil, nil
}

// fakeAggregator fakes the use case for tests.
type fakeAggregator struct {
	ExecuteFn func(ctx context.Context, in usecase.AggregateInput) (*domain.Series, error)
	lastInput usecase.AggregateInput
	called    bool
}

func (f *fakeAggregator) Execute(ctx context.Context, in usecase.AggregateInput) (*domain.Series, error) {
	f.called = true
	f.lastInput = in
	return f.ExecuteFn(ctx, in)
}

func newHandler(t *testing.T, uc Aggregator) (*Handler, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	return NewHandler(uc, logger), hook
}

func mustAnswer(t *testing.T, h *Handler, text string) string {
	t.Helper()
	out, err := h.Answer(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func expectFailure(t *testing.T, h *Handler, text string, want error) error {
	t.Helper()
	out, err := h.Answer(context.Background(), text)
	if out != ErrorMessage {
		t.Fatalf("%s: expected the error message, got %q", text, out)
	}
	if !errors.Is(err, want) {
		t.Fatalf("%s: expected %v, got %v", text, want, err)
	}
	return err
}

// ------------------------------------------------------------
// END TO END (real use case, fake store)
// ------------------------------------------------------------

func TestAnswer_DailyScenario(t *testing.T) {
	reader := &fakeEventReader{
		FetchFn: func(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
			return []domain.Event{
				{Timestamp: time.Date(2023, 1, 1, 5, 0, 0, 0, time.UTC), Value: 10},
				{Timestamp: time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC), Value: 5},
			}, nil
		},
	}
	h, _ := newHandler(t, usecase.NewAggregateUseCase(reader))

	out := mustAnswer(t, h,
		`{"dt_from": "2023-01-01T00:00:00", "dt_upto": "2023-01-03T00:00:00", "group_type": "day"}`)

	want := `{"dataset":[10,5,0],"labels":["2023-01-01T00:00:00","2023-01-02T00:00:00","2023-01-03T00:00:00"]}`
	if out != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestAnswer_MonthlyScenario(t *testing.T) {
	h, _ := newHandler(t, usecase.NewAggregateUseCase(&fakeEventReader{}))

	out := mustAnswer(t, h,
		`{"dt_from": "2022-09-01T00:00:00", "dt_upto": "2022-12-31T23:59:00", "group_type": "month"}`)

	want := `{"dataset":[0,0,0,0],"labels":["2022-09-01T00:00:00","2022-10-01T00:00:00","2022-11-01T00:00:00","2022-12-01T00:00:00"]}`
	if out != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestAnswer_OffsetAwareQueryKeepsOffset(t *testing.T) {
	h, _ := newHandler(t, usecase.NewAggregateUseCase(&fakeEventReader{}))

	out := mustAnswer(t, h,
		`{"dt_from": "2023-01-01T00:00:00+03:00", "dt_upto": "2023-01-01T01:30:00+03:00", "group_type": "hour"}`)

	want := `{"dataset":[0,0],"labels":["2023-01-01T00:00:00+03:00","2023-01-01T01:00:00+03:00"]}`
	if out != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestAnswer_ExtraKeysIgnored(t *testing.T) {
	h, _ := newHandler(t, usecase.NewAggregateUseCase(&fakeEventReader{}))

	mustAnswer(t, h, `{"dt_from": "2023-01-01", "dt_upto": "2023-01-01", "group_type": "day", "extra": 1}`)
}

func TestAnswer_PassesParsedInput(t *testing.T) {
	uc := &fakeAggregator{
		ExecuteFn: func(ctx context.Context, in usecase.AggregateInput) (*domain.Series, error) {
			return &domain.Series{Labels: []time.Time{in.From}, Dataset: []int64{7}}, nil
		},
	}
	h, _ := newHandler(t, uc)

	before := testutil.ToFloat64(queriesTotal.WithLabelValues(outcomeOK))

	out := mustAnswer(t, h,
		`{"dt_from": "2023-01-01 10:15:30.250", "dt_upto": "2023-01-02", "group_type": "hour"}`)

	if !uc.lastInput.From.Equal(time.Date(2023, 1, 1, 10, 15, 30, 250000000, time.UTC)) {
		t.Fatalf("unexpected from: %v", uc.lastInput.From)
	}
	if !uc.lastInput.To.Equal(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected to: %v", uc.lastInput.To)
	}
	if uc.lastInput.GroupType != "hour" {
		t.Fatalf("expected group_type=hour, got %s", uc.lastInput.GroupType)
	}
	if out != `{"dataset":[7],"labels":["2023-01-01T10:15:30.250000"]}` {
		t.Fatalf("unexpected reply: %s", out)
	}
	if got := testutil.ToFloat64(queriesTotal.WithLabelValues(outcomeOK)); got != before+1 {
		t.Fatalf("expected ok counter to grow by 1, got %v -> %v", before, got)
	}
}

// ------------------------------------------------------------
// FAILURES collapse to the one message
// ------------------------------------------------------------

func TestAnswer_MalformedInput(t *testing.T) {
	uc := &fakeAggregator{}
	h, hook := newHandler(t, uc)

	expectFailure(t, h, "not valid json at all", ErrMalformedInput)

	if uc.called {
		t.Fatalf("use case should not be called on malformed input")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %+v", entry)
	}
	if id, _ := entry.Data["request_id"].(string); id == "" {
		t.Fatalf("expected a request_id field")
	}
}

func TestAnswer_MissingField(t *testing.T) {
	h, _ := newHandler(t, &fakeAggregator{})

	for _, text := range []string{
		`{"dt_upto": "2023-01-03T00:00:00", "group_type": "day"}`,
		`{"dt_from": "2023-01-01T00:00:00", "group_type": "day"}`,
		`{"dt_from": "2023-01-01T00:00:00", "dt_upto": "2023-01-03T00:00:00"}`,
		`{"dt_from": null, "dt_upto": "2023-01-03T00:00:00", "group_type": "day"}`,
	} {
		expectFailure(t, h, text, ErrMissingField)
	}
}

func TestAnswer_WrongFieldTypes(t *testing.T) {
	h, _ := newHandler(t, &fakeAggregator{})

	for _, text := range []string{
		`{"dt_from": 1, "dt_upto": "2023-01-03T00:00:00", "group_type": "day"}`,
		`["dt_from", "dt_upto", "group_type"]`,
		`{"dt_from": "yesterday", "dt_upto": "2023-01-03T00:00:00", "group_type": "day"}`,
		`{"dt_from": "2023-01-01T00:00:00Z", "dt_upto": "2023-01-03T00:00:00", "group_type": "day"}`,
	} {
		expectFailure(t, h, text, ErrMalformedInput)
	}
}

func TestAnswer_UnsupportedGranularity(t *testing.T) {
	h, _ := newHandler(t, usecase.NewAggregateUseCase(&fakeEventReader{}))

	err := expectFailure(t, h,
		`{"dt_from": "2023-01-01T00:00:00", "dt_upto": "2023-01-03T00:00:00", "group_type": "week"}`,
		usecase.ErrInvalidGranularity)

	if !IsCallerError(err) {
		t.Fatalf("expected a caller error")
	}
}

func TestAnswer_DataSourceFailure(t *testing.T) {
	reader := &fakeEventReader{
		FetchFn: func(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
			return nil, errors.New("connection refused")
		},
	}
	h, hook := newHandler(t, usecase.NewAggregateUseCase(reader, usecase.WithLogger(logrus.New())))

	before := testutil.ToFloat64(queriesTotal.WithLabelValues(outcomeSourceError))

	err := expectFailure(t, h,
		`{"dt_from": "2023-01-01T00:00:00", "dt_upto": "2023-01-03T00:00:00", "group_type": "day"}`,
		usecase.ErrDataSourceFailure)

	if IsCallerError(err) {
		t.Fatalf("data source failures are not caller errors")
	}
	if got := testutil.ToFloat64(queriesTotal.WithLabelValues(outcomeSourceError)); got != before+1 {
		t.Fatalf("expected source_error counter to grow by 1, got %v -> %v", before, got)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected an error log entry, got %+v", entry)
	}
}

func TestAnswer_ContinuesAfterFailure(t *testing.T) {
	h, _ := newHandler(t, usecase.NewAggregateUseCase(&fakeEventReader{}))

	expectFailure(t, h, "not valid json at all", ErrMalformedInput)

	out := mustAnswer(t, h,
		`{"dt_from": "2023-01-01T00:00:00", "dt_upto": "2023-01-01T00:00:00", "group_type": "day"}`)
	if out != `{"dataset":[0],"labels":["2023-01-01T00:00:00"]}` {
		t.Fatalf("unexpected reply: %s", out)
	}
}
