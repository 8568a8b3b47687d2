package options

import (
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	DefaultScrapeInterval = 6 * time.Hour
	DefaultWorkerPoolSize = 3
	DefaultDebugPort      = 0
	DefaultListenAddr     = 8080
	DefaultLogLevel       = zapcore.InfoLevel
	DefaultDataDir        = "data"
)

type Options struct {
	ScrapeInterval time.Duration
	WorkerPoolSize int
	DebugPort      int
	ListenAddr     int
	LogLevel       zapcore.Level
	DataDir        string
}

func ParseArgs() *Options {
	var logLevel zapcore.Level

	scrapeInterval := flag.Duration("scrape-interval", DefaultScrapeInterval, "The wait duration of the interval between 2 collections of provider pricing")
	workerPoolSize := flag.Int("worker-pool-size", DefaultWorkerPoolSize, "The number of workers in the pool")
	logLevelStr := flag.String("log-level", DefaultLogLevel.String(), "The log-level of the application. E.g. fatal, error, info, debug etc")
	listenAddr := flag.Int("listen-addr", DefaultListenAddr, "The application starts server in this port to serve the snapshot API, metrics and healthz endpoints")
	debugPort := flag.Int("debug-port", DefaultDebugPort, "The custom port to debug when needed")
	dataDir := flag.String("data-dir", DefaultDataDir, "The directory snapshot files are written to and served from")
	flag.Parse()

	err := logLevel.Set(*logLevelStr)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", logLevel)
	}

	return &Options{
		ScrapeInterval: *scrapeInterval,
		WorkerPoolSize: *workerPoolSize,
		DebugPort:      *debugPort,
		LogLevel:       logLevel,
		ListenAddr:     *listenAddr,
		DataDir:        *dataDir,
	}
}

func (o *Options) String() string {
	return fmt.Sprintf("--scrape-interval=%v "+
		"--worker-pool-size=%d --log-level=%s --listen-addr=%d, --debug-port=%d --data-dir=%s",
		o.ScrapeInterval, o.WorkerPoolSize, o.LogLevel, o.ListenAddr, o.DebugPort, o.DataDir)
}
