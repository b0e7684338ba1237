// Command healthcheck probes the local server's liveness endpoint. It
// exists for container HEALTHCHECK directives where curl is unavailable
// in the final image. Exit code 0 means alive, 1 means not.
package main

import (
	"net/http"
	"os"
	"time"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "10000"
	}

	// Below typical orchestrator probe timeouts (10s).
	client := &http.Client{Timeout: 8 * time.Second}

	resp, err := client.Get("http://localhost:" + port + "/healthz")
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
