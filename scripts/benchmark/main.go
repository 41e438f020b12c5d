package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "bingdict API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "Number of runs per word for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Test words covering both directions and a miss.
var testWords = []struct {
	Label string
	Query string
}{
	{"en→zh", "dictionary"},
	{"en→zh phrase", "look up"},
	{"zh→en", "词典"},
	{"pinyin", "你好"},
	{"miss", "yranoitcid"},
}

// --- Response types (mirrors models package) ---

type translateResponse struct {
	Success     bool         `json:"success"`
	Found       bool         `json:"found"`
	CacheStatus string       `json:"cache_status"`
	Timing      timingInfo   `json:"timing"`
	Error       *errorDetail `json:"error,omitempty"`
}

type timingInfo struct {
	TotalMs int64 `json:"total_ms"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Benchmark result types ---

type runResult struct {
	Run        int    `json:"run"`
	TotalMs    int64  `json:"total_ms"`
	RoundTrip  int64  `json:"round_trip_ms"`
	Cached     bool   `json:"cached"`
	Found      bool   `json:"found"`
	StatusCode int    `json:"status_code"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type wordAverages struct {
	ColdMs   float64 `json:"cold_ms"`
	CachedMs float64 `json:"cached_ms"`
}

type wordResult struct {
	Query    string        `json:"query"`
	Label    string        `json:"label"`
	Runs     []runResult   `json:"runs"`
	Averages *wordAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp   string       `json:"timestamp"`
	APIURL      string       `json:"api_url"`
	RunsPerWord int          `json:"runs_per_word"`
	Results     []wordResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== bingdict Benchmark Suite ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs/word: %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		RunsPerWord: *runs,
	}

	for _, t := range testWords {
		fmt.Printf("Benchmarking [%s] %s ...\n", t.Label, t.Query)
		wr := wordResult{Query: t.Query, Label: t.Label}

		// The first run bypasses the cache; later runs should be hits.
		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkWord(t.Query, i, i == 1)
			if rr.Success {
				fmt.Printf("OK  %dms  cached=%v found=%v\n", rr.RoundTrip, rr.Cached, rr.Found)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			wr.Runs = append(wr.Runs, rr)
		}

		wr.Averages = computeAverages(wr.Runs)
		report.Results = append(report.Results, wr)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkWord(query string, run int, noCache bool) runResult {
	rr := runResult{Run: run}

	params := url.Values{"q": {query}}
	if noCache {
		params.Set("no_cache", "true")
	}
	req, err := http.NewRequest(http.MethodGet, *apiURL+"/api/v1/translate?"+params.Encode(), nil)
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var tr translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}
	rr.RoundTrip = time.Since(start).Milliseconds()

	rr.Success = tr.Success
	rr.StatusCode = resp.StatusCode
	rr.TotalMs = tr.Timing.TotalMs
	rr.Cached = tr.CacheStatus == "hit"
	rr.Found = tr.Found
	if tr.Error != nil {
		rr.Error = tr.Error.Message
	}
	return rr
}

func computeAverages(runs []runResult) *wordAverages {
	var avg wordAverages
	var cold, cached int

	for _, r := range runs {
		if !r.Success {
			continue
		}
		if r.Cached {
			cached++
			avg.CachedMs += float64(r.RoundTrip)
		} else {
			cold++
			avg.ColdMs += float64(r.RoundTrip)
		}
	}

	if cold+cached == 0 {
		return nil
	}
	if cold > 0 {
		avg.ColdMs /= float64(cold)
	}
	if cached > 0 {
		avg.CachedMs /= float64(cached)
	}
	return &avg
}

func printTable(results []wordResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Word\tLabel\tCold\tCached\tFound\n")
	fmt.Fprintf(w, "────\t─────\t────\t──────\t─────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\t%s\tFAILED\t-\t-\n", r.Query, r.Label)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%dms\t%dms\t%v\n",
			r.Query,
			r.Label,
			int64(r.Averages.ColdMs),
			int64(r.Averages.CachedMs),
			anyFound(r.Runs),
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func anyFound(runs []runResult) bool {
	for _, r := range runs {
		if r.Found {
			return true
		}
	}
	return false
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
