package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// SpeedTestRunner measures the connection. Implementations must be safe for
// concurrent use; both the HTTP endpoint and the cron job call Run.
type SpeedTestRunner interface {
	Run(ctx context.Context) (models.SpeedTestResult, error)
}

// SpeedTest exported for testing purposes
type SpeedTest struct {
	DB     databases.SpeedTestDatabase
	Runner SpeedTestRunner
}

// LatestHandler returns the most recent speed test result
func (s SpeedTest) LatestHandler(w http.ResponseWriter, r *http.Request) {
	opts := &options.FindOneOptions{}
	opts.SetSort(bson.M{"testedAt": -1})
	dbResp, err := s.DB.FindOne(r.Context(), bson.M{}, opts)
	if err != nil {
		config.ErrorStatus("no speed test results yet", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// HistoryHandler returns recent speed test results, newest first
func (s SpeedTest) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit <= 0 {
		Limit = 24
	}
	limit64 := int64(Limit)
	opts := &options.FindOptions{Limit: &limit64}
	opts.SetSort(bson.M{"testedAt": -1})

	dbResp, err := s.DB.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		config.ErrorStatus("failed to get speed test history", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.SpeedTestResult{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RunHandler runs a speed test now and stores the result
func (s SpeedTest) RunHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.runAndStore(r.Context())
	if err != nil {
		config.ErrorStatus("speed test failed", http.StatusBadGateway, w, err)
		return
	}

	b, err := json.Marshal(result)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RunAndStore is the scheduler entrypoint for the periodic speed test
func (s SpeedTest) RunAndStore() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := s.runAndStore(ctx); err != nil {
		zap.S().Warnw("scheduled speed test failed", "error", err)
	}
}

func (s SpeedTest) runAndStore(ctx context.Context) (models.SpeedTestResult, error) {
	result, err := s.Runner.Run(ctx)
	if err != nil {
		return models.SpeedTestResult{}, err
	}
	result.ID = primitive.NewObjectID()
	result.TestedAt = primitive.NewDateTimeFromTime(time.Now())

	if _, err := s.DB.InsertOne(ctx, result); err != nil {
		return models.SpeedTestResult{}, err
	}
	return result, nil
}

// httpSpeedTestRunner estimates download speed and latency with plain HTTP
// probes against a public test file. It is a rough measure, not a full
// speedtest protocol client.
type httpSpeedTestRunner struct {
	probeURL string
	client   *http.Client
}

// NewHTTPSpeedTestRunner returns the default HTTP download probe runner
func NewHTTPSpeedTestRunner() SpeedTestRunner {
	return &httpSpeedTestRunner{
		probeURL: "https://speed.cloudflare.com/__down?bytes=10000000",
		client:   &http.Client{Timeout: 90 * time.Second},
	}
}

func (h *httpSpeedTestRunner) Run(ctx context.Context) (models.SpeedTestResult, error) {
	ping, err := h.measurePing(ctx)
	if err != nil {
		return models.SpeedTestResult{}, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.probeURL, nil)
	if err != nil {
		return models.SpeedTestResult{}, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return models.SpeedTestResult{}, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return models.SpeedTestResult{}, err
	}
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return models.SpeedTestResult{}, fmt.Errorf("download probe finished too fast to measure")
	}

	// bytes -> megabits per second
	downloadMbps := float64(n) * 8 / elapsed / 1e6

	return models.SpeedTestResult{
		Download:   downloadMbps,
		Ping:       ping,
		ServerName: "cloudflare",
	}, nil
}

func (h *httpSpeedTestRunner) measurePing(ctx context.Context) (float64, error) {
	var total time.Duration
	const samples = 3
	for i := 0; i < samples; i++ {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.probeURL, nil)
		if err != nil {
			return 0, err
		}
		resp, err := h.client.Do(req)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()
		total += time.Since(start)
	}
	return float64(total.Milliseconds()) / samples, nil
}
