package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/cours-de-latin/morfeusz"
	"github.com/cours-de-latin/morfeusz/tagset"
)

// ---- JSON response types ------------------------------------------------

type analyzeResponse struct {
	Token    string               `json:"token"`
	Segments []morfeusz.Segment   `json:"segments"`
	Runs     [][]morfeusz.Segment `json:"runs"`
}

type overflowResponse struct {
	Error    string `json:"error"`
	Needed   int    `json:"needed"`
	Capacity int    `json:"capacity"`
}

type tokensRequest struct {
	Tokens   []string `json:"tokens"`
	Capacity *int     `json:"capacity"`
}

type tokenResultJSON struct {
	Token    string               `json:"token"`
	Segments []morfeusz.Segment   `json:"segments"`
	Runs     [][]morfeusz.Segment `json:"runs"`
	Error    string               `json:"error,omitempty"`
	Needed   int                  `json:"needed,omitempty"`
}

type tokensResponse struct {
	Results []tokenResultJSON `json:"results"`
}

type aboutResponse struct {
	Version string `json:"version"`
	About   string `json:"about"`
}

type optionRequest struct {
	Code  int  `json:"code"`
	Value *int `json:"value"`
}

type optionResponse struct {
	Code     int `json:"code"`
	Previous int `json:"previous"`
}

type optionsResponse struct {
	Options map[string]int `json:"options"`
}

type tagJSON struct {
	POS        string            `json:"pos"`
	Code       string            `json:"code"`
	Canonical  string            `json:"canonical"`
	Attributes map[string]string `json:"attributes"`
}

type tagsResponse struct {
	Tag    string    `json:"tag"`
	Parsed []tagJSON `json:"parsed"`
}

type paradigmResponse struct {
	Lemma string              `json:"lemma"`
	Forms []morfeusz.Entry    `json:"forms"`
	Cells map[string][]string `json:"cells"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- server -------------------------------------------------------------

// cacheKey identifies an analysis result. Options are part of the key, so
// a SetOption never serves stale results.
type cacheKey struct {
	opts     morfeusz.Options
	token    string
	capacity int
}

type server struct {
	analyzer *morfeusz.Analyzer
	cache    *lru.Cache[cacheKey, []morfeusz.Segment]
	log      *zap.Logger
	// maxCapacity bounds the segments a single token may produce. Every
	// request is analyzed with a capacity in [0, maxCapacity].
	maxCapacity int
}

func newServer(a *morfeusz.Analyzer, cacheSize, maxCapacity int, log *zap.Logger) (*server, error) {
	if maxCapacity < 1 {
		return nil, errors.Newf("max capacity must be positive, got %d", maxCapacity)
	}
	s := &server{analyzer: a, log: log, maxCapacity: maxCapacity}
	if cacheSize > 0 {
		cache, err := lru.New[cacheKey, []morfeusz.Segment](cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "create analysis cache")
		}
		s.cache = cache
	}
	return s, nil
}

// routes returns the API behind CORS handling.
func (s *server) routes(origins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze/tokens", instrument("tokens", handleAnalyzeTokens(s)))
	mux.HandleFunc("/api/analyze", instrument("analyze", handleAnalyze(s)))
	mux.HandleFunc("/api/paradigm", instrument("paradigm", handleParadigm(s)))
	mux.HandleFunc("/api/about", instrument("about", handleAbout(s)))
	mux.HandleFunc("/api/options", instrument("options", handleOptions(s)))
	mux.HandleFunc("/api/tags", instrument("tags", handleTags(s)))
	mux.Handle("/metrics", metricsHandler())

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// analyze runs a UTF-8 token through the cache and the analyzer. Callers
// must not modify the returned slice.
func (s *server) analyze(token string, capacity int) ([]morfeusz.Segment, error) {
	opts := s.analyzer.Options().Snapshot()
	opts.Encoding = morfeusz.EncodingUTF8
	key := cacheKey{opts: opts, token: token, capacity: capacity}
	if s.cache != nil {
		if segs, ok := s.cache.Get(key); ok {
			cacheCountVec.WithLabelValues("hit").Inc()
			return segs, nil
		}
		cacheCountVec.WithLabelValues("miss").Inc()
	}

	segs, err := s.analyzer.AnalyzeWith(opts, []byte(token), capacity)
	if err != nil {
		return nil, err
	}
	segmentCount.Observe(float64(len(segs)))
	if s.cache != nil {
		s.cache.Add(key, segs)
	}
	return segs, nil
}

// ---- helpers ------------------------------------------------------------

func runsOf(segs []morfeusz.Segment) [][]morfeusz.Segment {
	runs := morfeusz.Runs(segs)
	if runs == nil {
		return [][]morfeusz.Segment{}
	}
	return runs
}

// analyzeStatus maps an analysis error to an HTTP status.
func analyzeStatus(err error) int {
	switch {
	case errors.Is(err, morfeusz.ErrTokenTooLong):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, morfeusz.ErrGraphOverflow):
		return http.StatusInsufficientStorage
	case errors.Is(err, morfeusz.ErrInvalidToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// capacity resolves a requested capacity. No request means the server
// maximum; values outside [0, maxCapacity] are rejected.
func (s *server) capacity(requested *int) (int, error) {
	if requested == nil {
		return s.maxCapacity, nil
	}
	if n := *requested; n < 0 || n > s.maxCapacity {
		return 0, errors.Newf("capacity %d outside [0, %d]", n, s.maxCapacity)
	}
	return *requested, nil
}

func parseCapacity(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Newf("invalid capacity %q", s)
	}
	return &n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ---- handlers -----------------------------------------------------------

func handleAnalyze(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		token := r.URL.Query().Get("token")
		if token == "" {
			writeError(w, http.StatusBadRequest, "missing 'token' query parameter")
			return
		}
		requested, err := parseCapacity(r.URL.Query().Get("capacity"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		capacity, err := s.capacity(requested)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		segs, err := s.analyze(token, capacity)
		if err != nil {
			status := analyzeStatus(err)
			var overflow *morfeusz.GraphOverflowError
			if errors.As(err, &overflow) {
				writeJSON(w, status, overflowResponse{
					Error:    err.Error(),
					Needed:   overflow.Needed,
					Capacity: overflow.Capacity,
				})
				return
			}
			if status == http.StatusInternalServerError {
				s.log.Error("analyze", zap.String("token", token), zap.Error(err))
			}
			writeError(w, status, err.Error())
			return
		}

		status := http.StatusOK
		if len(segs) == 0 {
			status = http.StatusNotFound
		}
		writeJSON(w, status, analyzeResponse{
			Token:    token,
			Segments: segs,
			Runs:     runsOf(segs),
		})
	}
}

func handleAnalyzeTokens(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body tokensRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Tokens) == 0 {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'tokens' array")
			return
		}
		capacity, err := s.capacity(body.Capacity)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		out := lo.Map(body.Tokens, func(token string, _ int) tokenResultJSON {
			res := tokenResultJSON{Token: token}
			segs, err := s.analyze(token, capacity)
			if err != nil {
				res.Error = err.Error()
				var overflow *morfeusz.GraphOverflowError
				if errors.As(err, &overflow) {
					res.Needed = overflow.Needed
				}
				res.Segments = []morfeusz.Segment{}
				res.Runs = [][]morfeusz.Segment{}
				return res
			}
			res.Segments = segs
			res.Runs = runsOf(segs)
			return res
		})
		writeJSON(w, http.StatusOK, tokensResponse{Results: out})
	}
}

func handleParadigm(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		lemma := r.URL.Query().Get("lemma")
		if lemma == "" {
			writeError(w, http.StatusBadRequest, "missing 'lemma' query parameter")
			return
		}
		lex := s.analyzer.Lexicon()
		forms := lex.Generate(lemma)
		if forms == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("lemma %q not found", lemma))
			return
		}
		writeJSON(w, http.StatusOK, paradigmResponse{
			Lemma: lemma,
			Forms: forms,
			Cells: lex.Paradigm(lemma),
		})
	}
}

func handleAbout(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		writeJSON(w, http.StatusOK, aboutResponse{
			Version: morfeusz.Version,
			About:   s.analyzer.About(),
		})
	}
}

// optionNames names the option codes in GET /api/options.
var optionNames = map[morfeusz.OptionCode]string{
	morfeusz.OptEncoding:       "encoding",
	morfeusz.OptUnknownWords:   "unknown_words",
	morfeusz.OptCaseSensitive:  "case_sensitive",
	morfeusz.OptMaxTokenLength: "max_token_length",
}

func handleOptions(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg := s.analyzer.Options()
		switch r.Method {
		case http.MethodGet:
			opts := reg.Snapshot()
			values := make(map[string]int, len(optionNames))
			for code, name := range optionNames {
				v, err := opts.Get(code)
				if err != nil {
					writeError(w, http.StatusInternalServerError, err.Error())
					return
				}
				values[name] = v
			}
			writeJSON(w, http.StatusOK, optionsResponse{Options: values})

		case http.MethodPost:
			var body optionRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
				writeError(w, http.StatusBadRequest, "body must be JSON with 'code' and 'value' fields")
				return
			}
			prev, err := reg.SetOption(morfeusz.OptionCode(body.Code), *body.Value)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.log.Info("option changed",
				zap.Int("code", body.Code),
				zap.Int("previous", prev),
				zap.Int("value", *body.Value))
			writeJSON(w, http.StatusOK, optionResponse{Code: body.Code, Previous: prev})

		default:
			writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
		}
	}
}

func handleTags(s *server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		tag := r.URL.Query().Get("tag")
		if tag == "" {
			writeError(w, http.StatusBadRequest, "missing 'tag' query parameter")
			return
		}
		tags, err := tagset.Parse(tag)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tagsResponse{
			Tag:    tag,
			Parsed: lo.Map(tags, func(t tagset.Tag, _ int) tagJSON { return toTagJSON(t) }),
		})
	}
}

func toTagJSON(t tagset.Tag) tagJSON {
	attrs := make(map[string]string)
	for c := tagset.Number; c <= tagset.Vocalicity; c++ {
		if v := t.Get(c); v != "" {
			attrs[c.String()] = v
		}
	}
	return tagJSON{
		POS:        t.POS,
		Code:       "0x" + strconv.FormatUint(t.Code, 16),
		Canonical:  t.String(),
		Attributes: attrs,
	}
}
