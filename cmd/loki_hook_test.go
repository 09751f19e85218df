package main

import (
	"fmt"
	"io/ioutil"
	"testing"

	"github.com/ic2hrmk/promtail"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedLine struct {
	level promtail.Level
	line  string
}

type fakePromtail struct {
	lines []capturedLine
}

func (f *fakePromtail) Logf(level promtail.Level, format string, args ...interface{}) {
	f.lines = append(f.lines, capturedLine{level: level, line: fmt.Sprintf(format, args...)})
}

func (f *fakePromtail) LogfWithLabels(level promtail.Level, labels map[string]string, format string, args ...interface{}) {
}

func (f *fakePromtail) Debugf(format string, args ...interface{}) {}
func (f *fakePromtail) Infof(format string, args ...interface{})  {}
func (f *fakePromtail) Warnf(format string, args ...interface{})  {}
func (f *fakePromtail) Errorf(format string, args ...interface{}) {}
func (f *fakePromtail) Fatalf(format string, args ...interface{}) {}
func (f *fakePromtail) Panicf(format string, args ...interface{}) {}

func (f *fakePromtail) Ping() (*promtail.PongResponse, error) { return nil, nil }
func (f *fakePromtail) Close()                                {}

func TestLokiHookMirrorsWarningsAndErrors(t *testing.T) {
	client := &fakePromtail{}

	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	logger.AddHook(&lokiHook{client: client})

	logger.Info("connected")
	logger.Warn("relay slow")
	logger.Error("relay down")

	require.Len(t, client.lines, 2)
	assert.Equal(t, promtail.Warn, client.lines[0].level)
	assert.Contains(t, client.lines[0].line, "relay slow")
	assert.Equal(t, promtail.Error, client.lines[1].level)
	assert.Contains(t, client.lines[1].line, "relay down")
}

func TestPromtailLevelMapping(t *testing.T) {
	assert.Equal(t, promtail.Warn, promtailLevel(logrus.WarnLevel))
	assert.Equal(t, promtail.Error, promtailLevel(logrus.ErrorLevel))
	assert.Equal(t, promtail.Fatal, promtailLevel(logrus.FatalLevel))
	assert.Equal(t, promtail.Panic, promtailLevel(logrus.PanicLevel))
}
