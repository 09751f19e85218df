package main

import (
	"github.com/ic2hrmk/promtail"
	"github.com/sirupsen/logrus"
)

// lokiHook mirrors warning-and-above log entries to Loki. Shipping is
// buffered inside the promtail client, so Fire does not block.
type lokiHook struct {
	client promtail.Client
}

func (h *lokiHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	}
}

func (h *lokiHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}

	h.client.Logf(promtailLevel(entry.Level), "%s", line)

	return nil
}

func promtailLevel(level logrus.Level) promtail.Level {
	switch level {
	case logrus.PanicLevel:
		return promtail.Panic
	case logrus.FatalLevel:
		return promtail.Fatal
	case logrus.ErrorLevel:
		return promtail.Error
	default:
		return promtail.Warn
	}
}
