package fiber

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"event-aggregation-bot/internal/aggregation/adapters/query"
)

type QueryAnswerer interface {
	Answer(ctx context.Context, text string) (string, error)
}

type AggregationHandler struct {
	q QueryAnswerer
}

func NewAggregationHandler(q QueryAnswerer) *AggregationHandler {
	return &AggregationHandler{q: q}
}

// Aggregate godoc
// @Summary Aggregate events into calendar buckets
// @Description Sums event values per hour, day or month between dt_from and dt_upto (both inclusive)
// @Tags Aggregation
// @Accept json
// @Produce json
// @Param query body AggregateRequest true "Aggregation query"
// @Success 200 {object} AggregateResponse
// @Failure 400 {string} string "Error occured, try to send a valid json"
// @Failure 500 {string} string "Error occured, try to send a valid json"
// @Router /aggregate [post]
func (h *AggregationHandler) Aggregate(c *fiber.Ctx) error {
	// Server shutdown must not cancel a query that has already started.
	reply, err := h.q.Answer(context.WithoutCancel(c.UserContext()), string(c.Body()))
	if err != nil {
		status := http.StatusInternalServerError
		if query.IsCallerError(err) {
			status = http.StatusBadRequest
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(status).SendString(reply)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).SendString(reply)
}

// Health godoc
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(HealthResponse{Status: "ok"})
}
