// cmd/assistant/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finassist/internal/assistant/crypto"
	"finassist/internal/assistant/format"
	"finassist/internal/assistant/genai"
	"finassist/internal/assistant/intent"
	"finassist/internal/assistant/quotes"
	"finassist/internal/assistant/router"
	"finassist/internal/assistant/scrape"
	"finassist/internal/assistant/ticker"
	"finassist/internal/assistant/transcript"
	"finassist/internal/common/cache"
	"finassist/internal/common/config"
	"finassist/internal/common/logger"
	"finassist/internal/common/observability"
	"finassist/internal/models"
	"finassist/pkg/lookup"
)

const queryTimeout = 60 * time.Second

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting financial assistant...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis cache (optional) ---
	var redisClient *cache.RedisClient
	if cfg.Cache.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = cache.NewRedis(cfg.Cache)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// Typed-nil would defeat the cache == nil checks downstream.
	var quoteCache quotes.Cache
	var cryptoCache crypto.Cache
	if redisClient != nil {
		quoteCache = redisClient
		cryptoCache = redisClient
	}

	// --- Ticker resolver, optionally extended from a table file ---
	resolver := ticker.NewResolver()
	if cfg.Lookup.TablePath != "" {
		tab, err := lookup.LoadTable(cfg.Lookup.TablePath)
		if err != nil {
			zapLog.Fatal("company table load failed", zap.Error(err))
		}
		resolver = ticker.NewResolverWithTable(tab)
		zapLog.Info("company table loaded",
			zap.String("path", cfg.Lookup.TablePath),
			zap.Int("companies", len(tab.Companies)),
		)
	}

	// --- Language model (optional; rule fallback covers its absence) ---
	var llm genai.Generator
	if cfg.GenAI.APIKey != "" {
		llm = genai.NewClient(cfg.GenAI, log)
		zapLog.Info("language model client initialized", zap.String("model", cfg.GenAI.Model))
	} else {
		zapLog.Warn("no API key configured, query analysis will use rule fallback and page analysis is disabled")
	}

	// --- Collaborators ---
	quoteClient := quotes.NewClient(cfg.Quotes, quoteCache, log)
	cryptoClient := crypto.NewClient(cfg.Crypto, cryptoCache, log)
	extractor := scrape.NewExtractor(cfg.Scraper, llm, log)

	classifier := intent.NewClassifier(llm, resolver, log)
	rt := router.NewRouter(quoteClient, cryptoClient, extractor, log)
	formatter := format.NewFormatter()
	history := transcript.New()

	// --- Metrics server ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Interactive loop ---
	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(cfg, classifier, rt, formatter, history, obs, log)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received")
	case <-done:
	}

	zapLog.Info("Financial assistant stopped",
		zap.Int("messages", history.Len()),
	)
}

func runREPL(
	cfg *config.Config,
	classifier *intent.Classifier,
	rt *router.Router,
	formatter *format.Formatter,
	history *transcript.Transcript,
	obs *observability.Observability,
	log logger.Logger,
) {
	fmt.Printf("%s %s — ask about stock prices, Bitcoin, or give URLs to analyze.\n", cfg.App.Name, cfg.App.Version)
	fmt.Println("Type 'exit' to quit, 'clear' to reset the conversation.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		switch strings.ToLower(query) {
		case "exit", "quit":
			return
		case "clear":
			history.Clear()
			fmt.Println("Conversation cleared.")
			continue
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		in := classifier.Classify(ctx, query)
		result := rt.Route(ctx, in)
		cancel()

		obs.RecordQueryProcessed(context.Background(), string(in.Kind))
		obs.RecordQueryDuration(context.Background(), time.Since(start), string(in.Kind))

		reply := formatter.Render(result)

		// Transcript writes happen only once the full result exists.
		history.Append(models.RoleUser, query)
		history.Append(models.RoleAssistant, reply)

		log.Info("query handled", map[string]interface{}{
			"intent":     string(in.Kind),
			"durationMs": time.Since(start).Milliseconds(),
		})

		fmt.Println()
		fmt.Println(reply)
		fmt.Println()
	}
}
