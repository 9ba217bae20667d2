package keyrate

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CapitalsFunds/site-demo/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainInfoResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
<MainInfoXMLResponse xmlns="http://web.cbr.ru/"><MainInfoXMLResult>
<RegData xmlns=""><keyRate Title="Ключевая ставка" Date="27.10.2025">16.50</keyRate>
<Inflation Title="Инфляция" Date="01.09.2025">8.00</Inflation></RegData>
</MainInfoXMLResult></MainInfoXMLResponse></soap:Body></soap:Envelope>`

func TestParseMainInfoXML(t *testing.T) {
	quote, err := ParseMainInfoXML(mainInfoResponse)
	require.NoError(t, err)
	assert.True(t, quote.RatePercent.Equal(decimal.NewFromFloat(16.5)))
	assert.Equal(t, Source, quote.Source)
	require.NotNil(t, quote.AsOf)
	assert.Equal(t, "2025-10-27", dateutil.FormatDate(quote.AsOf, ""))
}

func TestParseMainInfoXMLVariants(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		rate     float64
		wantDate string
	}{
		{
			name:     "Decimal comma",
			xml:      `<keyRate Date="2025-07-28">18,00</keyRate>`,
			rate:     18,
			wantDate: "2025-07-28",
		},
		{
			name:     "Fallback keyRate_dt",
			xml:      `<KeyRate>21</KeyRate><keyRate_dt> 2024-10-28T00:00:00+03:00 </keyRate_dt>`,
			rate:     21,
			wantDate: "2024-10-28",
		},
		{
			name:     "Fallback OnDate",
			xml:      `<OnDate>2025-02-14</OnDate><keyRate>21.00</keyRate>`,
			rate:     21,
			wantDate: "2025-02-14",
		},
		{
			name:     "Unparseable date",
			xml:      `<keyRate Date="soon">7.5</keyRate>`,
			rate:     7.5,
			wantDate: "",
		},
		{
			name:     "No date",
			xml:      `<keyRate>4.25</keyRate>`,
			rate:     4.25,
			wantDate: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ParseMainInfoXML(tt.xml)
			require.NoError(t, err)
			assert.True(t, quote.RatePercent.Equal(decimal.NewFromFloat(tt.rate)), "rate %s", quote.RatePercent)
			assert.Equal(t, tt.wantDate, dateutil.FormatDate(quote.AsOf, ""))
		})
	}
}

func TestParseMainInfoXMLNotFound(t *testing.T) {
	body := "<RegData>" + strings.Repeat("x", 1000) + "</RegData>"
	_, err := ParseMainInfoXML(body)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Len(t, nf.Sample, sampleLength)
	assert.True(t, strings.HasPrefix(body, nf.Sample))
	assert.Equal(t, "KeyRate not found in CBR XML", err.Error())
}

func newSOAPServer(t *testing.T, hits *int32, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSendsSOAPRequest(t *testing.T) {
	var hits int32
	srv := newSOAPServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, `"http://web.cbr.ru/MainInfoXML"`, r.Header.Get("SOAPAction"))
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `<MainInfoXML xmlns="http://web.cbr.ru/" />`)
		assert.Contains(t, string(body), "<soap:Body>")
		_, _ = io.WriteString(w, mainInfoResponse)
	})

	client := NewClient(srv.URL, time.Second, time.Minute)
	quote, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, quote.RatePercent.Equal(decimal.NewFromFloat(16.5)))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFetchCachesQuote(t *testing.T) {
	var hits int32
	srv := newSOAPServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, mainInfoResponse)
	})

	client := NewClient(srv.URL, time.Second, time.Minute)
	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background())
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	client.Invalidate()
	_, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFetchConcurrentCallersShareOneRequest(t *testing.T) {
	var hits int32
	srv := newSOAPServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = io.WriteString(w, mainInfoResponse)
	})

	client := NewClient(srv.URL, time.Second, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			quote, err := client.Fetch(context.Background())
			assert.NoError(t, err)
			assert.True(t, quote.RatePercent.Equal(decimal.NewFromFloat(16.5)))
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFetchUpstreamStatusError(t *testing.T) {
	var hits int32
	srv := newSOAPServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, strings.Repeat("e", 500))
	})

	client := NewClient(srv.URL, time.Second, time.Minute)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Contains(t, err.Error(), "CBR HTTP 500: ")
	assert.NotContains(t, err.Error(), strings.Repeat("e", 201))
}

func TestFetchFailuresAreNotCached(t *testing.T) {
	var hits int32
	srv := newSOAPServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&hits) == 1 {
			_, _ = io.WriteString(w, "<RegData/>")
			return
		}
		_, _ = io.WriteString(w, mainInfoResponse)
	})

	client := NewClient(srv.URL, time.Second, time.Minute)
	_, err := client.Fetch(context.Background())
	assert.True(t, errors.Is(err, ErrRateNotFound))

	quote, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, quote.RatePercent.Equal(decimal.NewFromFloat(16.5)))
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFetchTimeout(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := newSOAPServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewClient(srv.URL, 50*time.Millisecond, time.Minute)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", 0, 0)
	assert.Equal(t, DefaultURL, client.URL)
	assert.Equal(t, DefaultTimeout, client.HTTPClient.Timeout)
}
