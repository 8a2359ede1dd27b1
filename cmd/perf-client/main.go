package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Load-test client for the public claim endpoint. Requests carry no session
// cookie, so the server mints a fresh session per request and the one-hour
// window never throttles the run. Point it at a disposable database with
// enough seeded coupons and raise CLAIM_IP_RATE_PER_MINUTE on the server,
// otherwise the per-IP guard dominates the results.

// PerfResult gathers aggregated counters for the run. Atomics keep the hot
// path lock-free; LatencySum and P95Latency are nanoseconds.
type PerfResult struct {
	TotalRequests int64
	SuccessCount  int64
	RateLimited   int64
	Exhausted     int64
	ErrorCount    int64
	LatencySum    int64
	P95Latency    int64
}

const (
	fixedWorkers   = 50
	fixedRPSTarget = 700
	fixedDuration  = 30 * time.Second
	defaultTimeout = 30 * time.Second
)

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	baseURL := os.Getenv("PERF_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	transport := &http.Transport{
		MaxIdleConns:        fixedWorkers * 4,
		MaxIdleConnsPerHost: fixedWorkers * 4,
		IdleConnTimeout:     90 * time.Second,
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   defaultTimeout,
	}

	fmt.Println("==========================================")
	fmt.Println("coupon claim load test")
	fmt.Println("==========================================")
	fmt.Printf("target   : %s\n", baseURL)
	fmt.Printf("rps      : %d\n", fixedRPSTarget)
	fmt.Printf("duration : %v\n", fixedDuration)
	fmt.Println("==========================================")

	burst := fixedRPSTarget / fixedWorkers
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(fixedRPSTarget), burst)

	ctx, cancel := context.WithTimeout(context.Background(), fixedDuration)
	defer cancel()

	var result PerfResult
	var wg sync.WaitGroup

	// latencyChan feeds the P95 estimator.
	latencyChan := make(chan time.Duration, 4096)
	go trackP95(latencyChan, &result)

	for i := 0; i < fixedWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := limiter.Wait(ctx); err != nil { // context done, exit
					return
				}
				doRequest(httpClient, baseURL, &result, latencyChan)
			}
		}()
	}

	start := time.Now()
	<-ctx.Done()
	wg.Wait()
	close(latencyChan)

	totalDur := time.Since(start)

	fmt.Println("==========================================")
	fmt.Println("results")
	fmt.Println("==========================================")
	fmt.Printf("elapsed        : %.2fs\n", totalDur.Seconds())
	fmt.Printf("total requests : %d\n", result.TotalRequests)
	fmt.Printf("claimed        : %d\n", result.SuccessCount)
	fmt.Printf("rate limited   : %d\n", result.RateLimited)
	fmt.Printf("pool exhausted : %d\n", result.Exhausted)
	fmt.Printf("errors         : %d\n", result.ErrorCount)

	if result.TotalRequests > 0 {
		fmt.Printf("success rate   : %.2f%%\n",
			float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
	fmt.Printf("actual rps     : %.2f\n", float64(result.SuccessCount)/totalDur.Seconds())
	if result.SuccessCount > 0 {
		fmt.Printf("avg latency    : %v\n", time.Duration(result.LatencySum/result.SuccessCount))
	}
	fmt.Printf("p95 latency    : %v\n", time.Duration(atomic.LoadInt64(&result.P95Latency)))
	fmt.Println("==========================================")

	password := os.Getenv("PERF_ADMIN_PASSWORD")
	if password == "" {
		fmt.Println("PERF_ADMIN_PASSWORD not set, skipping claim count verification")
		return
	}
	username := os.Getenv("PERF_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	if err := verifyClaimCount(httpClient, baseURL, username, password, result.SuccessCount); err != nil {
		fmt.Fprintf(os.Stderr, "claim count verification failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("claim counts match")
}

// doRequest performs one claim request and classifies the outcome by HTTP
// status.
func doRequest(client *http.Client, baseURL string, result *PerfResult, latencyChan chan<- time.Duration) {
	// Independent context so in-flight requests finish when the run ends.
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/v1/claim", nil)
	if err != nil {
		atomic.AddInt64(&result.ErrorCount, 1)
		return
	}

	start := time.Now()
	atomic.AddInt64(&result.TotalRequests, 1)

	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		atomic.AddInt64(&result.ErrorCount, 1)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		atomic.AddInt64(&result.ErrorCount, 1)
		return
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var envelope apiEnvelope
		var data struct {
			Code string `json:"code"`
		}
		if json.Unmarshal(body, &envelope) == nil &&
			json.Unmarshal(envelope.Data, &data) == nil && data.Code != "" {
			atomic.AddInt64(&result.SuccessCount, 1)
			atomic.AddInt64(&result.LatencySum, latency.Nanoseconds())
			select {
			case latencyChan <- latency:
			default:
			}
			return
		}
		atomic.AddInt64(&result.ErrorCount, 1)
	case http.StatusTooManyRequests:
		atomic.AddInt64(&result.RateLimited, 1)
	case http.StatusConflict:
		atomic.AddInt64(&result.Exhausted, 1)
	default:
		atomic.AddInt64(&result.ErrorCount, 1)
	}
}

// trackP95 keeps a best-effort P95 estimate over a sampled window of
// successful request latencies.
func trackP95(latencies <-chan time.Duration, result *PerfResult) {
	const size = 1000
	buf := make([]int64, 0, size)

	for lat := range latencies {
		if len(buf) < size {
			buf = append(buf, lat.Nanoseconds())
		} else if idx := time.Now().UnixNano() % int64(size); idx < int64(size/10) {
			// Replace a pseudo-random element, simple reservoir sampling.
			buf[idx] = lat.Nanoseconds()
		}

		if len(buf) >= 100 && len(buf)%100 == 0 {
			sorted := make([]int64, len(buf))
			copy(sorted, buf)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
			idx := int(float64(len(sorted)) * 0.95)
			if idx >= len(sorted) {
				idx = len(sorted) - 1
			}
			atomic.StoreInt64(&result.P95Latency, sorted[idx])
		}
	}
}

// verifyClaimCount compares the server's claims audit against the successes
// the client observed. Meaningful only when the claims table started empty.
func verifyClaimCount(client *http.Client, baseURL, username, password string, expected int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/v1/auth/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var token string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "access_token" {
			token = cookie.Value
		}
	}
	if token == "" {
		return fmt.Errorf("no access token cookie in login response")
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/admin/claims", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to list claims: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("claims listing rejected with status %d", resp.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("malformed claims response: %w", err)
	}
	var claims []json.RawMessage
	if err := json.Unmarshal(envelope.Data, &claims); err != nil {
		return fmt.Errorf("malformed claims payload: %w", err)
	}

	recorded := int64(len(claims))
	fmt.Printf("claims recorded (server): %d\n", recorded)
	fmt.Printf("claims observed (client): %d\n", expected)
	if recorded != expected {
		return fmt.Errorf("claim count mismatch: server=%d client=%d", recorded, expected)
	}
	return nil
}
