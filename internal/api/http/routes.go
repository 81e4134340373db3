package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-bot/internal/store"
)

var validate = validator.New()

// ReadBufferSize fits a request head carrying a maximum-length reply text:
// 4096 runes at up to twelve URL-encoded bytes each, plus headers.
const ReadBufferSize = 64 << 10

// Replier answers chat text. *chat.Responder implements it.
type Replier interface {
	Reply(ctx context.Context, text string) string
}

// ProbeStore exposes recorded provider probes. *store.MemoryStore implements it.
type ProbeStore interface {
	Latest() (store.Probe, error)
	Range(from, to time.Time) ([]store.Probe, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, replier Replier, probes ProbeStore) {
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		var latest *store.Probe
		if p, err := probes.Latest(); err == nil {
			latest = &p
			if !p.OK {
				status = "degraded"
			}
		}

		return c.JSON(fiber.Map{
			"status":  status,
			"service": "weather-bot",
			"probe":   latest,
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/reply", func(c *fiber.Ctx) error {
		req := replyQuery{Text: c.Query("text")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"reply": replier.Reply(c.UserContext(), req.Text),
		})
	})

	v1.Get("/probes", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		history, err := probes.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no provider probes for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch provider probes")
		}

		return c.JSON(fiber.Map{
			"from":   req.From,
			"to":     req.To,
			"probes": history,
		})
	})
}

// replyQuery holds the chat text to preview a reply for.
type replyQuery struct {
	Text string `validate:"required,max=4096"`
}

// historyQuery holds query parameters for the probe history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
