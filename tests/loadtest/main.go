// Command loadtest hammers the read-only HTTP surface of a running bot
// (/catalog, /stats, /health) and prints per-endpoint latency percentiles.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
)

type result struct {
	endpoint string
	latency  time.Duration
	failed   bool
}

type endpointStats struct {
	count     int64
	failures  int64
	latencies []time.Duration
}

// mix is the share of requests each endpoint receives.
var mix = []struct {
	path   string
	weight float64
}{
	{"/catalog", 0.6},
	{"/stats", 0.3},
	{"/health", 0.1},
}

func main() {
	baseURL := pflag.String("url", "http://127.0.0.1:8090", "bot HTTP base URL")
	workers := pflag.Int("workers", 50, "concurrent clients")
	duration := pflag.Duration("duration", 10*time.Second, "test duration")
	pflag.Parse()

	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: *workers,
			IdleConnTimeout:     30 * time.Second,
			DialContext:         (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
		},
	}

	fmt.Printf("Workers: %d | Duration: %s | Target: %s\n", *workers, *duration, *baseURL)
	if err := waitReady(client, *baseURL+"/health"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	results := run(*workers, *duration, func(rng *rand.Rand) result {
		return get(client, *baseURL, pick(rng))
	})
	report(results, *duration)
}

func waitReady(client *http.Client, url string) error {
	for i := 0; i < 30; i++ {
		resp, err := client.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("server at %s not responding", url)
}

func pick(rng *rand.Rand) string {
	r := rng.Float64()
	for _, m := range mix {
		if r < m.weight {
			return m.path
		}
		r -= m.weight
	}
	return mix[len(mix)-1].path
}

func get(client *http.Client, baseURL, path string) result {
	start := time.Now()
	resp, err := client.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint: path, latency: lat, failed: true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{endpoint: path, latency: lat, failed: resp.StatusCode != http.StatusOK}
}

func run(workers int, duration time.Duration, work func(rng *rand.Rand) result) map[string]*endpointStats {
	results := make(chan result, 10000)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- work(rng)
				}
			}
		}(time.Now().UnixNano() + int64(i))
	}

	all := make(map[string]*endpointStats)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			s, ok := all[r.endpoint]
			if !ok {
				s = &endpointStats{}
				all[r.endpoint] = s
			}
			s.count++
			if r.failed {
				s.failures++
			}
			s.latencies = append(s.latencies, r.latency)
		}
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done
	return all
}

func report(all map[string]*endpointStats, duration time.Duration) {
	endpoints := make([]string, 0, len(all))
	for ep := range all {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-10s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 60))

	var total, failures int64
	for _, ep := range endpoints {
		s := all[ep]
		total += s.count
		failures += s.failures
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		fmt.Printf("  %-10s %8d %6d %10s %10s %10s\n", ep, s.count, s.failures,
			percentile(s.latencies, 0.50), percentile(s.latencies, 0.95), percentile(s.latencies, 0.99))
	}
	if total == 0 {
		return
	}
	fmt.Println("  " + strings.Repeat("-", 60))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		total, failures, float64(failures)/float64(total)*100, float64(total)/duration.Seconds())
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx].Round(time.Microsecond)
}
