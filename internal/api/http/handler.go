package http

import (
	"signalcopier/internal/usecasees/structs"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SignalQueue is the read side served to the polling agent.
type SignalQueue interface {
	PendingSignals(accountID string) []structs.QueuedSignal
	PendingModifications(accountID string) []structs.Command
}

// AckHandler consumes the agent's acknowledgments.
type AckHandler interface {
	HandleSignalAck(req *structs.AckSignalRequest)
	HandleModificationAck(req *structs.AckModificationRequest)
}

type Handler struct {
	fiber  *fiber.App
	queue  SignalQueue
	acks   AckHandler
	logger *logrus.Logger
}

func NewHandler(f *fiber.App, queue SignalQueue, acks AckHandler, l *logrus.Logger) *Handler {
	return &Handler{
		fiber:  f,
		queue:  queue,
		acks:   acks,
		logger: l,
	}
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	body := struct {
		Status bool `json:"status"`
	}{
		Status: true,
	}

	if err := c.JSON(body); err != nil {
		return err
	}

	return nil
}

// PendingSignals serves the agent's signal poll. Entries stay queued until
// acknowledged, so repeated polls return the same set.
func (h *Handler) PendingSignals(c *fiber.Ctx) error {
	account := c.Query("account")
	if account == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("account is required"))
	}

	signals := h.queue.PendingSignals(account)
	if signals == nil {
		signals = []structs.QueuedSignal{}
	}

	return c.JSON(structs.PendingSignalsResponse{Signals: signals})
}

func (h *Handler) AckSignal(c *fiber.Ctx) error {
	var req structs.AckSignalRequest

	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Warn("unparsable ack-signal body")
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("invalid body"))
	}
	if req.SignalID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("signalId is required"))
	}

	h.acks.HandleSignalAck(&req)

	return c.JSON(okBody())
}

func (h *Handler) PendingModifications(c *fiber.Ctx) error {
	account := c.Query("account")
	if account == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("account is required"))
	}

	mods := h.queue.PendingModifications(account)
	if mods == nil {
		mods = []structs.Command{}
	}

	return c.JSON(structs.PendingModificationsResponse{Modifications: mods})
}

func (h *Handler) AckModification(c *fiber.Ctx) error {
	var req structs.AckModificationRequest

	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Warn("unparsable ack-modification body")
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("invalid body"))
	}
	if req.AccountNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("accountNumber is required"))
	}

	h.acks.HandleModificationAck(&req)

	return c.JSON(okBody())
}

func okBody() interface{} {
	return struct {
		Status bool `json:"status"`
	}{
		Status: true,
	}
}

func errorBody(message string) interface{} {
	return struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}{
		Status:  false,
		Message: message,
	}
}
