package chesscom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/metrics"
)

const (
	DefaultBaseURL   = "https://api.chess.com/pub"
	DefaultUserAgent = "chesspulse/1.0"

	endpointArchives = "archives"
	endpointMonthly  = "monthly"
	breakerName      = "chesscom-api"
)

type Options struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Retry      RetryPolicy
	// RatePerSecond caps outgoing requests. Zero or negative disables the limit.
	RatePerSecond float64
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	retry      RetryPolicy
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[int]
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		burst := int(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		retry:      opts.Retry.normalized(),
		limiter:    limiter,
		breaker:    newBreaker(),
	}
}

// newBreaker guards whole logical calls. Each call counts once, however many
// retry attempts it made.
func newBreaker() *gobreaker.CircuitBreaker[int] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: breakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Default().WithPrefix("chesscom").Warn("circuit breaker %s: %s -> %s", name, from, to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

// breakerSuccess reports outcomes that say nothing bad about the provider:
// a missing player or archive, or a caller that gave up.
func breakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type archivesResp struct {
	Archives []string `json:"archives"`
}

type monthlyResp struct {
	Games []MonthlyGame `json:"games"`
}

type MonthlyGame struct {
	URL         string `json:"url"`
	PGN         string `json:"pgn"`
	TimeControl string `json:"time_control"`
	TimeClass   string `json:"time_class"`
	Rules       string `json:"rules"`
	Rated       bool   `json:"rated"`
	EndTime     int64  `json:"end_time"`
	White       Player `json:"white"`
	Black       Player `json:"black"`
}

type Player struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

// ArchivesURL is the endpoint listing a player's monthly archive URLs.
func (c *Client) ArchivesURL(username string) string {
	return fmt.Sprintf("%s/player/%s/games/archives", c.baseURL, url.PathEscape(username))
}

// ListArchives returns the player's monthly archive URLs, oldest first.
func (c *Client) ListArchives(ctx context.Context, username string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("username", username)
	archivesURL := c.ArchivesURL(username)

	log.Debug("fetching archives from: %s", archivesURL)

	var out archivesResp
	if err := c.getJSON(ctx, endpointArchives, archivesURL, &out); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Info("player not found on chess.com")
			return nil, ErrPlayerNotFound
		}
		log.Error("failed to fetch archives: %v", err)
		return nil, err
	}

	log.Info("fetched %d archives for user %s", len(out.Archives), username)
	return out.Archives, nil
}

// FetchArchive returns the games in one monthly archive.
func (c *Client) FetchArchive(ctx context.Context, archiveURL string) ([]MonthlyGame, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("archive_url", archiveURL)

	log.Debug("fetching monthly games")

	var payload monthlyResp
	if err := c.getJSON(ctx, endpointMonthly, archiveURL, &payload); err != nil {
		log.Error("failed to fetch monthly games: %v", err)
		return nil, err
	}

	log.Info("fetched %d games from archive", len(payload.Games))
	return payload.Games, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, target string, out any) error {
	attempts, err := c.breaker.Execute(func() (int, error) {
		return c.retry.Do(ctx, func(ctx context.Context) error {
			return c.attempt(ctx, endpoint, target, out)
		})
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordProviderFetch(endpoint, "rejected", 0)
		logger.FromContext(ctx).WithPrefix("chesscom").Warn("request to %s rejected by circuit breaker", target)
	}
	return &FetchError{URL: target, Attempts: attempts, Err: err}
}

func (c *Client) attempt(ctx context.Context, endpoint, target string, out any) error {
	log := logger.FromContext(ctx).WithPrefix("chesscom")

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	body, err := c.do(ctx, target)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordProviderFetch(endpoint, "ok", elapsed)
	case errors.Is(err, ErrNotFound):
		metrics.RecordProviderFetch(endpoint, "not_found", elapsed)
		return err
	default:
		metrics.RecordProviderFetch(endpoint, "error", elapsed)
		log.Warn("attempt against %s failed after %v: %v", target, elapsed, err)
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	return io.ReadAll(resp.Body)
}
