package keyrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/CapitalsFunds/site-demo/pkg/dateutil"
	pkgdecimal "github.com/CapitalsFunds/site-demo/pkg/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultURL is the DailyInfo SOAP endpoint of the Bank of Russia.
	DefaultURL = "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"
	// Source labels quotes obtained from MainInfoXML.
	Source = "CBR MainInfoXML (SOAP)"

	soapAction  = "http://web.cbr.ru/MainInfoXML"
	mainInfoXML = `<MainInfoXML xmlns="http://web.cbr.ru/" />`

	DefaultTimeout  = 15 * time.Second
	DefaultCacheTTL = time.Hour

	sampleLength    = 600
	errorBodyLength = 200
	cacheKey        = "keyrate"
)

var (
	// ErrRateNotFound is returned when the response carries no key rate.
	ErrRateNotFound = errors.New("KeyRate not found in CBR XML")
	// ErrUpstream wraps transport failures and non-2xx responses.
	ErrUpstream = errors.New("CBR request failed")
)

var (
	rateRe     = regexp.MustCompile(`(?i)<keyRate\b[^>]*>([\d.,]+)</keyRate>`)
	dateAttrRe = regexp.MustCompile(`(?i)<keyRate\b[^>]*\bDate="([^"]+)"`)
	dateTagRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<keyRate_dt>\s*([^<]+?)\s*</keyRate_dt>`),
		regexp.MustCompile(`(?i)<OnDate>\s*([^<]+?)\s*</OnDate>`),
	}
)

// NotFoundError carries the beginning of a response that had no key rate.
type NotFoundError struct {
	Sample string
}

func (e *NotFoundError) Error() string { return ErrRateNotFound.Error() }
func (e *NotFoundError) Unwrap() error { return ErrRateNotFound }

// Fetcher is implemented by anything that can supply the current key rate.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.KeyRateQuote, error)
}

// Client fetches the key rate over SOAP. Successful quotes are cached and
// concurrent callers share a single upstream request. Failures are not cached
// and not retried.
type Client struct {
	URL        string
	HTTPClient *http.Client
	Logger     *slog.Logger

	cache *cache.Cache
	group singleflight.Group
}

// NewClient creates a client for url (DefaultURL when empty). Non-positive
// timeout and ttl take their defaults.
func NewClient(url string, timeout, ttl time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     slog.Default(),
		cache:      cache.New(ttl, 2*ttl),
	}
}

// Fetch returns the current key rate.
func (c *Client) Fetch(ctx context.Context) (domain.KeyRateQuote, error) {
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(domain.KeyRateQuote), nil
	}

	v, err, shared := c.group.Do(cacheKey, func() (interface{}, error) {
		quote, err := c.fetch(ctx)
		if err != nil {
			return domain.KeyRateQuote{}, err
		}
		c.cache.SetDefault(cacheKey, quote)
		return quote, nil
	})
	if err != nil {
		c.logger().Warn("key rate fetch failed", "error", err, "shared", shared)
		return domain.KeyRateQuote{}, err
	}
	return v.(domain.KeyRateQuote), nil
}

// Invalidate drops the cached quote.
func (c *Client) Invalidate() {
	c.cache.Delete(cacheKey)
}

func (c *Client) fetch(ctx context.Context) (domain.KeyRateQuote, error) {
	body, err := c.soapCall(ctx)
	if err != nil {
		return domain.KeyRateQuote{}, err
	}
	quote, err := ParseMainInfoXML(body)
	if err != nil {
		return domain.KeyRateQuote{}, err
	}
	c.logger().Info("key rate fetched", "rate", quote.RatePercent.String(), "date", dateutil.FormatDate(quote.AsOf, "unknown"))
	return quote, nil
}

func (c *Client) soapCall(ctx context.Context) (string, error) {
	envelope := `<?xml version="1.0" encoding="utf-8"?>` +
		`<soap:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" ` +
		`xmlns:xsd="http://www.w3.org/2001/XMLSchema" ` +
		`xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soap:Body>` + mainInfoXML + `</soap:Body></soap:Envelope>`

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(envelope))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `"`+soapAction+`"`)
	req.Header.Set("User-Agent", "structcalc/1.0")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: CBR HTTP %d: %s", ErrUpstream, resp.StatusCode, truncate(string(data), errorBodyLength))
	}
	return string(data), nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// ParseMainInfoXML extracts the key rate and its date from a MainInfoXML response.
// The date comes from the Date attribute of keyRate, falling back to a
// keyRate_dt or OnDate element; an unparseable date leaves AsOf nil.
func ParseMainInfoXML(xml string) (domain.KeyRateQuote, error) {
	m := rateRe.FindStringSubmatch(xml)
	if m == nil {
		return domain.KeyRateQuote{}, &NotFoundError{Sample: truncate(xml, sampleLength)}
	}
	rate, err := pkgdecimal.ParseDecimal(m[1])
	if err != nil {
		return domain.KeyRateQuote{}, &NotFoundError{Sample: truncate(xml, sampleLength)}
	}

	quote := domain.KeyRateQuote{RatePercent: rate, Source: Source}
	if raw := findDate(xml); raw != "" {
		if t, err := dateutil.ParseRateDate(raw); err == nil {
			quote.AsOf = &t
		}
	}
	return quote, nil
}

func findDate(xml string) string {
	if m := dateAttrRe.FindStringSubmatch(xml); m != nil {
		return m[1]
	}
	for _, re := range dateTagRes {
		if m := re.FindStringSubmatch(xml); m != nil {
			return m[1]
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
