// Command simulate hammers the booking endpoint with concurrent requests for
// the same day's slots and reports how many land versus how many are turned
// away. Every slot should be won exactly once; any double booking shows up as
// more successes than open slots.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

type simConfig struct {
	baseURL string
	date    string
	workers int
	rounds  int
}

type metrics struct {
	total     int64
	booked    int64
	conflicts int64
	errors    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *metrics) record(latency time.Duration, status int) {
	atomic.AddInt64(&m.total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.booked, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.conflicts, 1)
	default:
		atomic.AddInt64(&m.errors, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *metrics) percentile(p float64) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

type timeWindow struct {
	StartTime string `json:"startTime"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{}
	flag.StringVar(&cfg.baseURL, "base-url", "http://localhost:8080", "api server base URL")
	flag.StringVar(&cfg.date, "date", time.Now().AddDate(0, 0, 7).Format("2006-01-02"), "date to fight over")
	flag.IntVar(&cfg.workers, "workers", 20, "concurrent workers")
	flag.IntVar(&cfg.rounds, "rounds", 5, "booking attempts per worker")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	slots, err := fetchOpenSlots(cfg.baseURL, cfg.date)
	if err != nil {
		log.Fatalf("fetch open slots: %v", err)
	}
	if len(slots) == 0 {
		log.Fatalf("no open slots on %s, pick a working day", cfg.date)
	}
	log.Printf("fighting over %d open slots on %s with %d workers", len(slots), cfg.date, cfg.workers)

	m := &metrics{}
	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	for w := 0; w < cfg.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < cfg.rounds; i++ {
				slot := slots[rand.Intn(len(slots))]
				attemptBooking(client, cfg, slot, m)
			}
		}()
	}
	wg.Wait()

	fmt.Printf("\nresults for %s:\n", cfg.date)
	fmt.Printf("  attempts:  %d\n", m.total)
	fmt.Printf("  booked:    %d (open slots: %d)\n", m.booked, len(slots))
	fmt.Printf("  conflicts: %d\n", m.conflicts)
	fmt.Printf("  errors:    %d\n", m.errors)
	fmt.Printf("  p50: %s  p95: %s\n", m.percentile(0.50), m.percentile(0.95))

	if int(m.booked) > len(slots) {
		log.Fatalf("DOUBLE BOOKING: %d bookings landed on %d slots", m.booked, len(slots))
	}
	log.Println("no double bookings observed")
}

func fetchOpenSlots(baseURL, date string) ([]timeWindow, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/availability?date=%s", baseURL, date))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var slots []timeWindow
	if err := json.NewDecoder(resp.Body).Decode(&slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func attemptBooking(client *http.Client, cfg simConfig, slot timeWindow, m *metrics) {
	payload := map[string]string{
		"patientName":      gofakeit.Name(),
		"patientEmail":     gofakeit.Email(),
		"patientPhone":     gofakeit.Phone(),
		"appointmentDate":  cfg.date,
		"appointmentTime":  slot.StartTime,
		"consultationType": "offline",
	}
	body, _ := json.Marshal(payload)

	start := time.Now()
	resp, err := client.Post(cfg.baseURL+"/api/appointments", "application/json", bytes.NewReader(body))
	latency := time.Since(start)
	if err != nil {
		m.record(latency, 0)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	m.record(latency, resp.StatusCode)
}
