package main

import (
	"net/http"
	"time"
)

// relayRequestTimeout bounds every relay call so a dead relay cannot hold
// the pipeline hostage.
const relayRequestTimeout = 5 * time.Second

func (a *App) initHTTPClient() {
	a.HTTPClient = &http.Client{
		Timeout: relayRequestTimeout,
	}
}
