// Package server exposes a data portal over HTTP as JSON.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/portal"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"go.uber.org/zap"
)

// Portal is the part of a data portal the server serves.
type Portal interface {
	History(symbols []string, endDate time.Time, barCount int, frequency portal.Frequency, field types.Field, dataFrequency portal.Frequency) (*portal.Frame, error)
	GetSpotValue(symbol string, session time.Time, field types.Field) (float64, error)
	GetSpotLabel(symbol string, session time.Time) (string, error)
	GetLastTradedDate(symbol string, session time.Time) (time.Time, bool, error)
}

// Server answers history and spot requests.
// Requests are served one at a time because a portal's loader is single threaded.
type Server struct {
	mu sync.Mutex

	portal Portal
	logger *logger.Logger

	httpServer *http.Server
	listener   net.Listener
}

func NewServer(p Portal, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Server{
		portal: p,
		logger: log,
	}
}

// Router returns the handler serving every endpoint.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.HandleFunc("/history", s.handleHistory).Methods("GET")
	router.HandleFunc("/spot/{symbol}", s.handleSpot).Methods("GET")

	return router
}

// Start starts the server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	s.logger.Info("History server listening", zap.String("address", s.Address()))

	return nil
}

// Stop shuts the server down, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}

// HistoryResponse is the body of a /history response. Missing values are null.
type HistoryResponse struct {
	Field    string       `json:"field"`
	Sessions []string     `json:"sessions"`
	Symbols  []string     `json:"symbols"`
	Values   [][]*float64 `json:"values,omitempty"`
	Labels   [][]string   `json:"labels,omitempty"`
}

type SpotResponse struct {
	Symbol         string   `json:"symbol"`
	Session        string   `json:"session"`
	Field          string   `json:"field"`
	Value          *float64 `json:"value,omitempty"`
	Label          string   `json:"label,omitempty"`
	LastTradedDate string   `json:"last_traded_date,omitempty"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// SuggestedStartDay is set when the window starts before the first trading day
	SuggestedStartDay string `json:"suggested_start_day,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	end, err := parseDate(query.Get("end"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	barCount, err := strconv.Atoi(query.Get("bars"))
	if err != nil {
		s.writeError(w, errors.Newf(errors.ErrCodeInvalidBarCount, "invalid bar count: %q", query.Get("bars")))

		return
	}

	var symbols []string

	for _, symbol := range strings.Split(query.Get("symbols"), ",") {
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	}

	if len(symbols) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeMissingParameter, "symbols is required"))

		return
	}

	s.mu.Lock()
	frame, err := s.portal.History(
		symbols,
		end,
		barCount,
		portal.Frequency(valueOr(query.Get("frequency"), string(portal.FrequencyDaily))),
		types.Field(valueOr(query.Get("field"), string(types.FieldClose))),
		portal.Frequency(valueOr(query.Get("data_frequency"), string(portal.FrequencyDaily))),
	)
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)

		return
	}

	response := HistoryResponse{
		Field:    string(frame.Field),
		Sessions: make([]string, len(frame.Sessions)),
		Symbols:  frame.Symbols,
		Labels:   frame.Labels,
	}

	for i, session := range frame.Sessions {
		response.Sessions[i] = session.Format(time.DateOnly)
	}

	if frame.Values != nil {
		response.Values = make([][]*float64, len(frame.Values))
		for i, row := range frame.Values {
			response.Values[i] = make([]*float64, len(row))
			for c, v := range row {
				response.Values[i][c] = nullable(v)
			}
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleSpot(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	query := r.URL.Query()
	field := types.Field(valueOr(query.Get("field"), string(types.FieldClose)))

	session, err := parseDate(query.Get("date"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	response := SpotResponse{
		Symbol:  symbol,
		Session: session.Format(time.DateOnly),
		Field:   string(field),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if field.IsLabelField() {
		response.Label, err = s.portal.GetSpotLabel(symbol, session)
	} else {
		var value float64

		value, err = s.portal.GetSpotValue(symbol, session, field)
		response.Value = nullable(value)
	}

	if err != nil {
		s.writeError(w, err)

		return
	}

	lastTraded, ok, err := s.portal.GetLastTradedDate(symbol, session)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if ok {
		response.LastTradedDate = lastTraded.Format(time.DateOnly)
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	response := ErrorResponse{
		Code:    int(code),
		Message: err.Error(),
	}

	var windowErr *errors.HistoryWindowStartsBeforeDataError
	if errors.As(err, &windowErr) {
		response.SuggestedStartDay = windowErr.SuggestedStartDay.Format(time.DateOnly)
	}

	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}

	writeJSON(w, status, response)
}

// statusFor maps error code ranges onto HTTP statuses.
func statusFor(code errors.ErrorCode) int {
	switch {
	case code >= 100 && code < 200:
		return http.StatusBadRequest
	case code == errors.ErrCodeNoDataOnDate, code >= 300 && code < 400:
		return http.StatusNotFound
	case code == errors.ErrCodeHistoryWindowStartsBeforeData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func parseDate(text string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, text)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid date %q", text)
	}

	return day, nil
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}

	return &v
}

func valueOr(value string, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
