package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const appPort = 8081

var payloads = map[string]struct {
	path string
	body string
	auth [2]string
}{
	"openai": {
		path: "/chat/completions",
		body: `{"model":"gpt-4o-mini","max_tokens":64,"messages":[{"role":"system","content":"You are terse."},{"role":"user","content":"Hello, how are you?"}]}`,
		auth: [2]string{"Authorization", "Bearer sk-bench"},
	},
	"anthropic": {
		path: "/claude/completions",
		body: `{"model":"claude-3-5-sonnet-20241022","messages":[{"role":"user","content":[{"type":"text","text":"Hello, Claude"}]}]}`,
		auth: [2]string{"x-api-key", "cl-bench"},
	},
	"invalid": {
		path: "/chat/completions",
		body: `{"model":"gpt-4","messages":[]}`,
		auth: [2]string{"Authorization", "Bearer sk-bench"},
	},
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 200, "Requests per second")
	provider := flag.String("provider", "mixed", "openai, anthropic, invalid or mixed")
	target := flag.String("target", "", "Base URL of a running server; empty builds and starts one")
	flag.Parse()

	baseURL := *target
	if baseURL == "" {
		stop := startApp()
		defer stop()
		baseURL = fmt.Sprintf("http://localhost:%d", appPort)
	}

	waitForApp(baseURL + "/health")

	targeter, err := newTargeter(baseURL, *provider)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Running %s benchmark: %s duration, %d req/s\n", *provider, *duration, *rate)

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Benchmark") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("Status codes:   ", formatCodes(metrics.StatusCodes))
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")

		seen := make(map[string]bool)
		for _, msg := range metrics.Errors {
			if !seen[msg] && len(seen) < 5 {
				fmt.Println(msg)
				seen[msg] = true
			}
		}
	}

	printServerMetrics(baseURL + "/metrics")
}

// newTargeter cycles through the payloads for provider. "mixed" rotates over
// every payload, including the invalid one.
func newTargeter(baseURL, provider string) (vegeta.Targeter, error) {
	var names []string
	if provider == "mixed" {
		for name := range payloads {
			names = append(names, name)
		}
		sort.Strings(names)
	} else if _, ok := payloads[provider]; ok {
		names = []string{provider}
	} else {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	targets := make([]vegeta.Target, 0, len(names))
	for _, name := range names {
		p := payloads[name]
		targets = append(targets, vegeta.Target{
			Method: http.MethodPost,
			URL:    baseURL + p.path,
			Body:   []byte(p.body),
			Header: http.Header{
				"Content-Type": []string{"application/json"},
				p.auth[0]:      []string{p.auth[1]},
			},
		})
	}
	return vegeta.NewStaticTargeter(targets...), nil
}

func startApp() func() {
	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		"LOG_LEVEL=error",
		"NO_COLOR=1",
	)

	logFile, err := os.Create("bench_server.log")
	if err != nil {
		log.Fatalf("Failed to create log file: %v", err)
	}
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	return func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = logFile.Close()
	}
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("App timed out")
}

func formatCodes(codes map[string]int) string {
	keys := make([]string, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, codes[k]))
	}
	return strings.Join(parts, " ")
}

// printServerMetrics echoes the server's own request and token counters.
func printServerMetrics(url string) {
	resp, err := http.Get(url)
	if err != nil {
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return
	}

	fmt.Println("Server counters:")
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "_requests_total") || strings.Contains(line, "_tokens_total") || strings.Contains(line, "_validation_failures_total") {
			fmt.Println("  " + line)
		}
	}
}
