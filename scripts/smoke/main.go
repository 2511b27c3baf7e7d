// Command smoke probes a running planner-api instance and reports whether the
// core endpoints respond as expected. Intended for post-deploy checks.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type probe struct {
	Name       string
	Method     string
	Path       string
	Body       any
	WantStatus []int
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "planner-api base URL")
	termID := flag.String("term", "2026-FALL", "term id used for the generation probe")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	probes := []probe{
		{Name: "health", Method: http.MethodGet, Path: "/health", WantStatus: []int{http.StatusOK}},
		{Name: "ready", Method: http.MethodGet, Path: "/ready", WantStatus: []int{http.StatusOK}},
		{Name: "metrics", Method: http.MethodGet, Path: "/metrics", WantStatus: []int{http.StatusOK}},
		{
			Name:   "generate",
			Method: http.MethodPost,
			Path:   "/api/v1/plans/generate",
			Body: map[string]any{
				"termId":      *termID,
				"courseCodes": []string{"MATH101"},
			},
			// 404 is acceptable when the probe course is not seeded.
			WantStatus: []int{http.StatusOK, http.StatusNotFound},
		},
	}

	client := &http.Client{Timeout: *timeout}
	failed := 0
	for _, p := range probes {
		if err := run(client, *baseURL, p); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %-10s %v\n", p.Name, err)
			failed++
			continue
		}
		fmt.Printf("OK   %s\n", p.Name)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d probes failed\n", failed, len(probes))
		os.Exit(1)
	}
}

func run(client *http.Client, baseURL string, p probe) error {
	var body io.Reader
	if p.Body != nil {
		raw, err := json.Marshal(p.Body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(p.Method, baseURL+p.Path, body)
	if err != nil {
		return err
	}
	if p.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	for _, want := range p.WantStatus {
		if resp.StatusCode == want {
			return nil
		}
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
