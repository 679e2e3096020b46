// client.go - Client fuer LibreTranslate-kompatible Uebersetzungsdienste
// Stellt Retries, clientseitiges Rate-Limiting und einen LRU-Cache bereit.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Konstanten fuer den Uebersetzungsdienst
const (
	DefaultSource    = "auto"
	DefaultTarget    = "es"
	DefaultRetryMax  = 3
	DefaultCacheSize = 1024
	ClientUserAgent  = "retro-translate/1.0"
)

// Fehler-Definitionen
var (
	ErrNoService       = errors.New("no translation service configured, set RETRO_TRANSLATE_URL or pass --url")
	ErrService         = errors.New("translation service error")
	ErrInvalidResponse = errors.New("invalid translation service response")
)

// ServiceError ist eine Fehlerantwort des Dienstes
type ServiceError struct {
	StatusCode int
	Message    string
}

// Error implementiert das error Interface
func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", ErrService, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrService, e.StatusCode, e.Message)
}

// Unwrap gibt ErrService zurueck
func (e *ServiceError) Unwrap() error {
	return ErrService
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Client uebersetzt Texte ueber POST {base}/translate
type Client struct {
	base      *url.URL
	http      *retryablehttp.Client
	limiter   *rate.Limiter
	cache     *lru.Cache[string, string]
	cacheSize int
	source    string
	target    string
	apiKey    string
}

// ClientOption ist eine Funktion zur Konfiguration des Clients
type ClientOption func(*Client)

// WithSource setzt die Quellsprache
func WithSource(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.source = lang
		}
	}
}

// WithTarget setzt die Zielsprache
func WithTarget(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.target = lang
		}
	}
}

// WithAPIKey setzt den API-Key des Dienstes
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout setzt das Timeout eines einzelnen Requests
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.http.HTTPClient.Timeout = timeout }
}

// WithRetryMax setzt die Anzahl Wiederholungen bei 5xx/429 und Netzwerkfehlern
func WithRetryMax(n int) ClientOption {
	return func(c *Client) { c.http.RetryMax = n }
}

// WithRetryWait setzt die minimale und maximale Wartezeit zwischen Wiederholungen
func WithRetryWait(minWait, maxWait time.Duration) ClientOption {
	return func(c *Client) {
		c.http.RetryWaitMin = minWait
		c.http.RetryWaitMax = maxWait
	}
}

// WithRateLimit begrenzt die Requests pro Sekunde. rps <= 0 bedeutet unbegrenzt.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(math.Ceil(rps)), 1))
	}
}

// WithCacheSize setzt die Anzahl gecachter Uebersetzungen. 0 deaktiviert den Cache.
func WithCacheSize(n int) ClientOption {
	return func(c *Client) { c.cacheSize = n }
}

// NewClient erstellt einen Client fuer den Dienst unter base
func NewClient(base *url.URL, options ...ClientOption) (*Client, error) {
	if base == nil || base.Host == "" {
		return nil, ErrNoService
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = DefaultRetryMax
	rc.Logger = slog.Default()
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = 30 * time.Second

	c := &Client{
		base:      base,
		http:      rc,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		cacheSize: DefaultCacheSize,
		source:    DefaultSource,
		target:    DefaultTarget,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.cacheSize > 0 {
		cache, err := lru.New[string, string](c.cacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}

	return c, nil
}

// Target gibt die Zielsprache zurueck
func (c *Client) Target() string { return c.target }

// Translate implementiert Translator
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	key := c.source + "\x00" + c.target + "\x00" + text
	if c.cache != nil {
		if out, ok := c.cache.Get(key); ok {
			return out, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: c.source,
		Target: c.target,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.base.JoinPath("translate").String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", ClientUserAgent)

	// nach erschoepften Retries kommt die letzte Antwort zusammen mit err zurueck
	resp, err := c.http.Do(req)
	if resp == nil || (err != nil && resp.StatusCode < http.StatusBadRequest) {
		if resp != nil {
			resp.Body.Close()
		}
		return "", err
	}
	defer resp.Body.Close()

	var tr translateResponse
	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", err
	}
	decodeErr := json.Unmarshal(data, &tr)

	if resp.StatusCode >= http.StatusBadRequest {
		msg := tr.Error
		if decodeErr != nil || msg == "" {
			msg = string(bytes.TrimSpace(data[:min(len(data), 1024)]))
		}
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, decodeErr)
	}

	if c.cache != nil {
		c.cache.Add(key, tr.TranslatedText)
	}
	return tr.TranslatedText, nil
}
