package sources

import (
	"net"
	"net/http"
	"time"
)

const maxResultsPerSource = 10

// newHTTPClient builds the bounded client shared by all source adapters.
// 5s dial / 30s total keeps the fan-out from ever hanging the orchestrator.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
}

// truncate caps a string at n characters without splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
