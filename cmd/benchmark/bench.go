package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
)

var (
	catalogResp = []byte(`{"data":[{"id":"bench-free"},{"id":"bench-paid"}]}`)
	enrichResp  = []byte(`{"bench":{"npm":"@ai-sdk/openai-compatible","models":{` +
		`"bench-free":{"name":"Bench Free","cost":{"input":0,"output":0}},` +
		`"bench-paid":{"name":"Bench Paid","cost":{"input":0.01,"output":0.03}}}}}`)
	streamChunk = []byte("data: {\"choices\":[{\"delta\":{\"content\":\"bench\"}}]}\n\ndata: [DONE]\n\n")
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	dispatch := flag.Bool("dispatch", false, "Attack the dispatch path instead of the models listing")
	flag.Parse()

	go startMockServer()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	cacheDir, err := os.MkdirTemp("", "bench-cache")
	if err != nil {
		log.Fatalf("Failed to create cache dir: %v", err)
	}
	defer os.RemoveAll(cacheDir)

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		"SERVER_ENV=production",
		fmt.Sprintf("CATALOG_URL=http://localhost:%d/v1/models", mockPort),
		fmt.Sprintf("ENRICH_URL=http://localhost:%d/api.json", mockPort),
		fmt.Sprintf("PROVIDER_BASE_URL=http://localhost:%d/v1", mockPort),
		"PROVIDER_SLUG=bench",
		fmt.Sprintf("MODEL_SYNC_CACHE_DIR=%s", cacheDir),
		"STORE_DSN=file:bench.db?cache=shared&mode=rwc",
		"RATE_LIMIT_REQUESTS_PER_SECOND=100000",
		"RATE_LIMIT_BURST=100000",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}()

	waitForApp(fmt.Sprintf("http://localhost:%d/health", appPort))

	targeter := modelsTargeter()
	mode := "models listing"
	if *dispatch {
		targeter = dispatchTargeter()
		mode = "dispatch"
	}
	fmt.Printf("Running %s benchmark: %s duration, %d req/s\n", mode, *duration, *rate)

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
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Errors (first 5):")
		for i, msg := range metrics.Errors {
			if i >= 5 {
				break
			}
			fmt.Println(msg)
		}
	}

	os.Remove("bench.db")
}

func modelsTargeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		t.Method = "GET"
		t.URL = fmt.Sprintf("http://localhost:%d/v1/models", appPort)
		return nil
	}
}

func dispatchTargeter() vegeta.Targeter {
	body := `{"model": "bench-free", "stream": true, "messages": [{"role": "user", "content": "Hello"}]}`
	return func(t *vegeta.Target) error {
		t.Method = "POST"
		t.URL = fmt.Sprintf("http://localhost:%d/v1/chat/completions", appPort)
		t.Body = []byte(body)
		t.Header = http.Header{
			"Content-Type": []string{"application/json"},
		}
		return nil
	}
}

func waitForApp(url string) {
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	log.Fatal("App did not become ready")
}

func startMockServer() {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(catalogResp)
	})

	mux.HandleFunc("/api.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(enrichResp)
	})

	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write(streamChunk)
	})

	if err := http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux); err != nil {
		log.Fatalf("Mock server failed: %v", err)
	}
}
