// Command simulate drives concurrent booking traffic at a running api-server
// and reports the success/conflict split. Pointing every worker at the same
// (doctor, date, time) demonstrates that exactly one booking wins and the
// rest are rejected with slot_taken.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digihealth/clinic-booking/internal/config"
	"github.com/digihealth/clinic-booking/internal/db"
	"github.com/digihealth/clinic-booking/internal/identity"
)

type SimConfig struct {
	APIBaseURL  string
	Workers     int
	Date        string
	Time        string
	PostgresDSN string
	JWTSecret   string
}

type Counters struct {
	Success  int64
	Conflict int64
	Rejected int64
	Error    int64
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadSimConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	doctorID, patients, err := loadTargets(ctx, pgPool, cfg.Workers)
	if err != nil {
		log.Fatalf("load targets: %v", err)
	}
	log.Printf("target doctor=%s patients=%d slot=%s %s", doctorID, len(patients), cfg.Date, cfg.Time)

	resolver := identity.NewResolver([]byte(cfg.JWTSecret))
	client := &http.Client{Timeout: 10 * time.Second}

	var counters Counters
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < cfg.Workers; i++ {
		patientID := patients[i%len(patients)]
		token, err := resolver.Sign(identity.Principal{UserID: patientID, Role: identity.RolePatient})
		if err != nil {
			log.Fatalf("sign token: %v", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			book(client, cfg, token, doctorID, &counters)
		}()
	}

	began := time.Now()
	close(start)
	wg.Wait()

	log.Printf("done in %s", time.Since(began))
	log.Printf("success=%d conflict=%d rejected=%d error=%d",
		atomic.LoadInt64(&counters.Success),
		atomic.LoadInt64(&counters.Conflict),
		atomic.LoadInt64(&counters.Rejected),
		atomic.LoadInt64(&counters.Error))

	if atomic.LoadInt64(&counters.Success) > 1 {
		log.Fatal("DOUBLE BOOKING DETECTED: more than one success for the same slot")
	}
}

func book(client *http.Client, cfg SimConfig, token string, doctorID uuid.UUID, c *Counters) {
	payload := map[string]string{
		"doctor_id": doctorID.String(),
		"date":      cfg.Date,
		"time":      cfg.Time,
		"reason":    "load test",
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, cfg.APIBaseURL+"/api/appointments", bytes.NewReader(body))
	if err != nil {
		atomic.AddInt64(&c.Error, 1)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		atomic.AddInt64(&c.Error, 1)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusCreated:
		atomic.AddInt64(&c.Success, 1)
	case resp.StatusCode == http.StatusConflict:
		atomic.AddInt64(&c.Conflict, 1)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		atomic.AddInt64(&c.Rejected, 1)
	default:
		atomic.AddInt64(&c.Error, 1)
	}
}

func loadSimConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	// Default target: the next Monday at 10:00, comfortably inside the
	// default advance window.
	target := time.Now().AddDate(0, 0, 7)
	for target.Weekday() != time.Monday {
		target = target.AddDate(0, 0, 1)
	}

	return SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Workers:     getInt("SIM_WORKERS", 50),
		Date:        getEnv("SIM_DATE", target.Format("2006-01-02")),
		Time:        getEnv("SIM_TIME", "10:00"),
		PostgresDSN: baseCfg.PostgresDSN,
		JWTSecret:   baseCfg.JWTSecret,
	}
}

func loadTargets(ctx context.Context, pool *pgxpool.Pool, patientLimit int) (uuid.UUID, []uuid.UUID, error) {
	var doctorID uuid.UUID
	err := pool.QueryRow(ctx, `SELECT id FROM doctors WHERE approved LIMIT 1`).Scan(&doctorID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("load doctor: %w", err)
	}

	rows, err := pool.Query(ctx, `SELECT id FROM patients LIMIT $1`, patientLimit)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("load patients: %w", err)
	}
	defer rows.Close()

	var patients []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, nil, err
		}
		patients = append(patients, id)
	}
	if len(patients) == 0 {
		return uuid.Nil, nil, fmt.Errorf("no patients seeded")
	}
	return doctorID, patients, rows.Err()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
