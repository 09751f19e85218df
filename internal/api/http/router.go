package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func RegisterHTTPEndpoints(f *fiber.App, queue SignalQueue, acks AckHandler, l *logrus.Logger) {
	h := NewHandler(f, queue, acks, l)

	router := f.Group("api")
	router.Get("/healthcheck", h.HealthCheck)
	router.Get("/pending-signals", h.PendingSignals)
	router.Post("/ack-signal", h.AckSignal)
	router.Get("/pending-modifications", h.PendingModifications)
	router.Post("/ack-modification", h.AckModification)
}
