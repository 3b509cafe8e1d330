// Package server exposes compiled charts over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comalice/chartpath"
	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/logging"
	"github.com/comalice/chartpath/internal/primitives"
	"github.com/comalice/chartpath/internal/production"
)

const maxDocumentBytes = 1 << 20

var (
	errBadRequest   = errors.New("bad request")
	errInvalidChart = errors.New("chart does not compile")
)

// Server answers resolver queries against the charts of a registry. Compiled charts
// are cached per version.
type Server struct {
	registry core.Registry
	logger   *slog.Logger
	metrics  *core.Metrics
	gatherer prometheus.Gatherer
	vis      production.DefaultVisualizer

	mu    sync.RWMutex
	cache map[string]*entry
}

type entry struct {
	version  string
	chart    *primitives.Chart
	resolver *core.Resolver
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records resolver metrics on m and serves g on /metrics.
func WithMetrics(m *core.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// New creates a Server over registry.
func New(registry core.Registry, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		logger:   logging.NewNop(),
		cache:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/charts", func(r chi.Router) {
		r.Get("/", s.listCharts)
		r.Route("/{name}", func(r chi.Router) {
			r.Put("/", s.putChart)
			r.Get("/", s.getChart)
			r.Get("/versions", s.listVersions)
			r.Get("/path", s.path)
			r.Get("/resolve", s.resolve)
			r.Get("/leaf/{ref}", s.leaf)
			r.Get("/ref/{ref}", s.ref)
			r.Get("/plan", s.plan)
			r.Get("/dot", s.dot)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// load returns the compiled latest version of the named chart.
func (s *Server) load(ctx context.Context, name string) (*entry, error) {
	cv, err := s.registry.Latest(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.cache[name]
	s.mu.RUnlock()
	if ok && e.version == cv.Version {
		return e, nil
	}

	chart, err := chartpath.Compile(cv.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidChart, err)
	}
	e = &entry{
		version:  cv.Version,
		chart:    chart,
		resolver: core.NewResolver(chart, core.WithLogger(s.logger), core.WithMetrics(s.metrics)),
	}
	s.mu.Lock()
	s.cache[name] = e
	s.mu.Unlock()
	return e, nil
}

// withChart loads the chart named in the route or writes the error.
func (s *Server) withChart(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	e, err := s.load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return e, true
}

// node resolves a reference given as a query value ("#3" or a name).
func (e *entry) node(raw string, opts ...core.RefOption) (*primitives.Node, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing state reference", errBadRequest)
	}
	ref, err := core.ParseReference(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	id, err := e.resolver.ResolveStateReference(ref, opts...)
	if err != nil {
		return nil, err
	}
	n, _ := e.chart.Node(id)
	return n, nil
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func boolParam(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", errBadRequest, key, raw)
	}
	return v, nil
}

func (s *Server) listCharts(w http.ResponseWriter, r *http.Request) {
	names, err := s.registry.ListCharts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"charts": names})
}

func (s *Server) putChart(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	cfg, err := primitives.ParseChartConfig(data)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if _, err := chartpath.Compile(cfg); err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", errInvalidChart, err))
		return
	}

	name := chi.URLParam(r, "name")
	version, err := s.registry.Register(r.Context(), name, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("chart registered", "name", name, "version", version)
	s.writeJSON(w, http.StatusCreated, RegisterResponse{Name: name, Version: version})
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		cv  *core.ChartVersion
		err error
	)
	if v := r.URL.Query().Get("version"); v != "" {
		cv, err = s.registry.Version(r.Context(), name, v)
	} else {
		cv, err = s.registry.Latest(r.Context(), name)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cv)
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.registry.ListVersions(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"versions": versions})
}

func (s *Server) path(w http.ResponseWriter, r *http.Request) {
	e, ok := s.withChart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	from, err := e.node(q.Get("from"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	to, err := e.node(q.Get("to"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := e.resolver.TransitionPath(from.ID, to.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewPathResponse(p))
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	e, ok := s.withChart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	n, err := e.node(q.Get("node"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	event := q.Get("event")
	if event == "" {
		s.writeError(w, fmt.Errorf("%w: missing event", errBadRequest))
		return
	}
	family, err := boolParam(r, "family")
	if err != nil {
		s.writeError(w, err)
		return
	}

	evt := primitives.NewEvent(event, nil)
	var t *core.ResolvedTransition
	if family {
		t, err = e.resolver.ResolveEventInFamilyTree(n.ID, evt)
	} else {
		t, err = e.resolver.ResolveEvent(n.ID, evt)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewTransitionResponse(e.chart, t))
}

func (s *Server) leaf(w http.ResponseWriter, r *http.Request) {
	e, ok := s.withChart(w, r)
	if !ok {
		return
	}
	ref, err := core.ParseReference(pathParam(r, "ref"))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	subcharts, err := boolParam(r, "subcharts")
	if err != nil {
		s.writeError(w, err)
		return
	}
	leaf, err := e.resolver.ResolveTarget(ref, core.WithSearchSubcharts(subcharts))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewNodeView(leaf))
}

func (s *Server) ref(w http.ResponseWriter, r *http.Request) {
	e, ok := s.withChart(w, r)
	if !ok {
		return
	}
	subcharts, err := boolParam(r, "subcharts")
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, err := e.node(pathParam(r, "ref"), core.WithSearchSubcharts(subcharts))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewNodeView(n))
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	e, ok := s.withChart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	n, err := e.node(q.Get("node"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	event := q.Get("event")
	if event == "" {
		s.writeError(w, fmt.Errorf("%w: missing event", errBadRequest))
		return
	}
	p, err := e.resolver.Plan(n.ID, primitives.NewEvent(event, nil))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewPlanResponse(e.chart, p))
}

func (s *Server) dot(w http.ResponseWriter, r *http.Request) {
	e, ok := s.withChart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var overlay *core.Path
	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := e.node(q.Get("from"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		to, err := e.node(q.Get("to"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		overlay, err = e.resolver.TransitionPath(from.ID, to.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, s.vis.ExportDOT(e.chart, overlay)); err != nil {
		s.logger.Error("dot response write failed", "error", err)
	}
}

// statusFor maps error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errInvalidChart):
		return http.StatusUnprocessableEntity
	}
	switch core.Kind(err) {
	case "unknown_node", "name_not_found", "transition_not_found", "chart_not_found":
		return http.StatusNotFound
	case "ambiguous_state_name", "no_default_leaf", "target_not_descendant":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, errBadRequest):
		return "bad_request"
	case errors.Is(err, errInvalidChart):
		return "invalid_chart"
	default:
		return core.Kind(err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: codeFor(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
