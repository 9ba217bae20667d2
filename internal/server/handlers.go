package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CapitalsFunds/site-demo/internal/config"
	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/CapitalsFunds/site-demo/internal/keyrate"
	"github.com/CapitalsFunds/site-demo/internal/logger"
	"github.com/CapitalsFunds/site-demo/pkg/dateutil"
	pkgdecimal "github.com/CapitalsFunds/site-demo/pkg/decimal"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 16

type errorResponse struct {
	Error  string `json:"error"`
	Sample string `json:"sample,omitempty"`
}

type helloResponse struct {
	OK bool   `json:"ok"`
	TS string `json:"ts"`
}

type keyRateResponse struct {
	Rate   float64 `json:"rate"`
	Date   *string `json:"date"`
	Source string  `json:"source"`
}

type structureInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// compareRequest is the POST body: the parameter bundle plus an optional
// request to replace the key rate with the current CBR value.
type compareRequest struct {
	domain.Inputs
	FetchKeyRate bool `json:"fetch_key_rate"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// Hello is a liveness probe.
func (s *Server) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, helloResponse{OK: true, TS: dateutil.Timestamp(s.now())})
}

// KeyRateHandler reports the current CBR key rate.
func (s *Server) KeyRateHandler(w http.ResponseWriter, r *http.Request) {
	if s.KeyRate == nil {
		writeError(w, http.StatusBadGateway, "key rate source is not configured")
		return
	}
	quote, err := s.KeyRate.Fetch(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Warn("key rate fetch failed", "error", err)
		var nf *keyrate.NotFoundError
		if errors.As(err, &nf) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: nf.Error(), Sample: nf.Sample})
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := keyRateResponse{Rate: quote.RatePercent.InexactFloat64(), Source: quote.Source}
	if quote.AsOf != nil {
		date := dateutil.FormatDate(quote.AsOf, "")
		resp.Date = &date
	}
	writeJSON(w, http.StatusOK, resp)
}

// CompareJSON runs a comparison for a JSON parameter bundle. Missing fields
// take the calculator defaults.
func (s *Server) CompareJSON(w http.ResponseWriter, r *http.Request) {
	req := compareRequest{Inputs: domain.DefaultInputs()}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	s.compare(w, r, req.Inputs, req.FetchKeyRate)
}

// CompareQuery runs a comparison from query parameters: ebt, share,
// key_rate, years, fees, baseline and fetch_key_rate. Decimal commas are accepted.
func (s *Server) CompareQuery(w http.ResponseWriter, r *http.Request) {
	in, fetch, err := inputsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.compare(w, r, in, fetch)
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request, in domain.Inputs, fetch bool) {
	ctx := r.Context()
	l := logger.FromContext(ctx)

	if in.HorizonYears > config.MaxHorizonYears {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("horizon must be at most %d years", config.MaxHorizonYears))
		return
	}

	var quote *domain.KeyRateQuote
	if fetch && s.KeyRate != nil {
		q, err := s.KeyRate.Fetch(ctx)
		if err != nil {
			l.Warn("key rate unavailable, using the submitted rate", "error", err, "key_rate", in.KeyRatePercent.String())
		} else {
			in.KeyRatePercent = q.RatePercent
			quote = &q
		}
	}

	comparison, err := s.Engine.Compare(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInputs) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		l.Error("comparison failed", "error", err)
		writeError(w, http.StatusInternalServerError, "comparison failed")
		return
	}
	comparison.KeyRate = quote
	if !comparison.BaselineAvailable {
		l.Warn("baseline not resolved", "baseline", in.Baseline)
	}
	writeJSON(w, http.StatusOK, comparison)
}

// Structures lists the compared structures in display order.
func (s *Server) Structures(w http.ResponseWriter, r *http.Request) {
	out := make([]structureInfo, 0, len(domain.AllStructures))
	for _, st := range domain.AllStructures {
		out = append(out, structureInfo{ID: st.ID(), Name: st.Name(), Label: st.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func inputsFromQuery(q url.Values) (domain.Inputs, bool, error) {
	in := domain.DefaultInputs()

	decimals := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"ebt", &in.EBT},
		{"share", &in.PersonalSharePercent},
		{"key_rate", &in.KeyRatePercent},
		{"fees", &in.Fees},
	}
	for _, f := range decimals {
		v := strings.TrimSpace(q.Get(f.key))
		if v == "" {
			continue
		}
		d, err := pkgdecimal.ParseDecimal(v)
		if err != nil {
			return in, false, fmt.Errorf("invalid %s %q", f.key, v)
		}
		*f.target = d
	}

	if v := strings.TrimSpace(q.Get("years")); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return in, false, fmt.Errorf("invalid years %q", v)
		}
		in.HorizonYears = years
	}
	if v := strings.TrimSpace(q.Get("baseline")); v != "" {
		in.Baseline = v
	}

	fetch := false
	if v := strings.TrimSpace(q.Get("fetch_key_rate")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return in, false, fmt.Errorf("invalid fetch_key_rate %q", v)
		}
		fetch = b
	}
	return in, fetch, nil
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
