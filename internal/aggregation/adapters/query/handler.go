package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"event-aggregation-bot/internal/aggregation/core/domain"
	"event-aggregation-bot/internal/aggregation/core/usecase"
)

const (
	// ErrorMessage is the only reply a caller ever sees on failure.
	ErrorMessage = "Error occured, try to send a valid json"
	StartMessage = "Please, send a json query"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrMissingField   = errors.New("missing field")
)

type Aggregator interface {
	Execute(ctx context.Context, in usecase.AggregateInput) (*domain.Series, error)
}

type request struct {
	DtFrom    *string `json:"dt_from"`
	DtUpto    *string `json:"dt_upto"`
	GroupType *string `json:"group_type"`
}

type response struct {
	Dataset []int64  `json:"dataset"`
	Labels  []string `json:"labels"`
}

// Handler turns a JSON query text into a JSON reply text.
type Handler struct {
	uc  Aggregator
	log logrus.FieldLogger
}

func NewHandler(uc Aggregator, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{uc: uc, log: log}
}

// Answer returns the reply for text. On failure the reply is ErrorMessage and
// the error tells why.
func (h *Handler) Answer(ctx context.Context, text string) (string, error) {
	start := time.Now()
	log := h.log.WithField("request_id", uuid.NewString())

	reply, err := h.answer(ctx, text)

	queryDuration.Observe(time.Since(start).Seconds())
	queriesTotal.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		entry := log.WithError(err).WithField("query", text)
		if IsCallerError(err) {
			entry.Warn("rejected aggregation query")
		} else {
			entry.Error("failed to answer aggregation query")
		}
		return ErrorMessage, err
	}

	log.WithField("duration", time.Since(start)).Info("answered aggregation query")
	return reply, nil
}

func (h *Handler) answer(ctx context.Context, text string) (string, error) {
	var req request
	if err := json.Unmarshal([]byte(text), &req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	switch {
	case req.DtFrom == nil:
		return "", fmt.Errorf("%w: dt_from", ErrMissingField)
	case req.DtUpto == nil:
		return "", fmt.Errorf("%w: dt_upto", ErrMissingField)
	case req.GroupType == nil:
		return "", fmt.Errorf("%w: group_type", ErrMissingField)
	}

	from, fromAware, err := parseISO(*req.DtFrom)
	if err != nil {
		return "", err
	}
	to, toAware, err := parseISO(*req.DtUpto)
	if err != nil {
		return "", err
	}
	if fromAware != toAware {
		return "", fmt.Errorf("%w: can't compare offset-naive and offset-aware datetimes", ErrMalformedInput)
	}

	series, err := h.uc.Execute(ctx, usecase.AggregateInput{
		From:      from,
		To:        to,
		GroupType: *req.GroupType,
	})
	if err != nil {
		return "", err
	}

	resp := response{
		Dataset: series.Dataset,
		Labels:  make([]string, len(series.Labels)),
	}
	if resp.Dataset == nil {
		resp.Dataset = []int64{}
	}
	for i, l := range series.Labels {
		resp.Labels[i] = formatLabel(l, fromAware)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// IsCallerError reports whether err was caused by the query itself rather than
// by the data source.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, usecase.ErrInvalidGranularity) ||
		errors.Is(err, usecase.ErrInvalidTimeRange) ||
		errors.Is(err, usecase.ErrTooManyBuckets)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case IsCallerError(err):
		return outcomeBadRequest
	default:
		return outcomeSourceError
	}
}
