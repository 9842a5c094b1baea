// Command seed-cases populates a running lemonaid instance with a synthetic
// matter: a case, a benchmark rate schedule, an attorney roster, billing
// entries, and a billing document upload. Useful for demos and for smoke
// testing a deployment end to end.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second
	defaultCases   = 1
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numCases = flag.Int("cases", defaultCases, "Number of synthetic cases to create")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := &client{base: *baseURL, http: &http.Client{Timeout: *timeout}}

	if err := c.seedSchedule(ctx); err != nil {
		fail("seeding rate schedule", err)
	}
	if err := c.seedRoster(ctx); err != nil {
		fail("seeding roster", err)
	}
	for i := 0; i < *numCases; i++ {
		id, err := c.seedCase(ctx, i)
		if err != nil {
			fail("seeding case", err)
		}
		fmt.Printf("seeded case %s\n", id)
	}
}

func fail(what string, err error) {
	os.Stderr.WriteString(what + ": " + err.Error() + "\n")
	os.Exit(1)
}

type client struct {
	base string
	http *http.Client
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// seedSchedule stores a Laffey-style benchmark table.
func (c *client) seedSchedule(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/rate-schedule", map[string]float64{
		"tier_1_3_rate":    381,
		"tier_4_7_rate":    468,
		"tier_8_10_rate":   585,
		"tier_11_19_rate":  742,
		"tier_20plus_rate": 919,
		"paralegal_rate":   208,
	}, nil)
}

func (c *client) seedRoster(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/attorneys", []map[string]any{
		{"name": "R. Alvarez", "years_experience": 12},
		{"name": "T. Okafor", "years_experience": 3},
		{"name": "M. Chen", "years_experience": 21},
		{"name": "J. Brandt", "years_experience": 6, "is_paralegal": true},
	}, nil)
}

func (c *client) seedCase(ctx context.Context, n int) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/cases", map[string]any{
		"client_name":   fmt.Sprintf("Synthetic Client %d", n+1),
		"vehicle_year":  2022,
		"vehicle_make":  "Chevrolet",
		"vehicle_model": "Bolt",
		"vin":           fmt.Sprintf("1G1ZD5ST8NF%06d", n+100001),
		"status":        "open",
	}, &created)
	if err != nil {
		return "", err
	}

	entries := []map[string]any{
		{"attorney_name": "R. Alvarez", "date": "2026-01-12", "hours": 4.5, "billed_rate": 650, "description": "draft complaint"},
		{"attorney_name": "R. Alvarez", "date": "2026-01-20", "hours": 2.0, "billed_rate": 650, "description": "discovery plan"},
		{"attorney_name": "T. Okafor", "date": "2026-01-21", "hours": 6.0, "billed_rate": 320, "description": "document review"},
		{"attorney_name": "J. Brandt", "date": "2026-01-22", "hours": 3.0, "billed_rate": 150, "description": "exhibit preparation"},
	}
	if err := c.do(ctx, http.MethodPost, "/cases/"+created.ID+"/entries", entries, nil); err != nil {
		return "", err
	}

	// Upload a repair order so the motion draft has a chronology. The
	// upload id makes reruns of the seeder idempotent per process.
	err = c.do(ctx, http.MethodPost, "/cases/"+created.ID+"/documents", map[string]any{
		"upload_id": uuid.NewString(),
		"kind":      "repair",
		"filename":  "repair-order-1.txt",
		"text": "RO 48213. Vehicle in 2025-03-02, out 2025-03-09, odometer 8211. " +
			"Customer states battery warning light on. Replaced battery module. 7 days out of service.",
	}, nil)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
