package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"starsbot/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	maxBodySize = 1 << 20
	// SecretHeader carries the secret token configured with setWebhook
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"
	aliveText    = "Bot is alive!"
)

// Dispatcher accepts updates for asynchronous processing
type Dispatcher interface {
	Dispatch(ctx context.Context, u tele.Update) error
}

// Server receives platform updates over HTTP
type Server struct {
	token      string
	secret     string
	dispatcher Dispatcher
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewServer creates the webhook gateway. An empty secret disables the header check.
func NewServer(token, secret string, dispatcher Dispatcher, logger *zap.Logger) *Server {
	s := &Server{
		token:      token,
		secret:     secret,
		dispatcher: dispatcher,
		logger:     logger,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /webhook/{token}", s.handleWebhook)
	s.mux.HandleFunc("GET /{$}", s.handleAlive)
	s.mux.Handle("GET /metrics", metrics.Handler())

	return s
}

// Path returns the webhook path for this bot
func (s *Server) Path() string {
	return "/webhook/" + s.token
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAlive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, aliveText)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	deliveryID := uuid.NewString()
	logger := s.logger.With(zap.String("delivery_id", deliveryID))

	status := http.StatusInternalServerError
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Recovered panic in webhook handler", zap.Any("panic", rec))
			status = http.StatusInternalServerError
			http.Error(w, http.StatusText(status), status)
		}
		metrics.RecordWebhook(status, time.Since(start))
	}()

	if !equal(r.PathValue("token"), s.token) {
		status = http.StatusNotFound
		http.NotFound(w, r)
		return
	}

	if s.secret != "" && !equal(r.Header.Get(SecretHeader), s.secret) {
		logger.Warn("Webhook secret mismatch", zap.String("remote_addr", r.RemoteAddr))
		status = http.StatusUnauthorized
		http.Error(w, http.StatusText(status), status)
		return
	}

	update, err := decodeUpdate(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		logger.Warn("Rejected webhook body", zap.Error(err))
		status = http.StatusBadRequest
		http.Error(w, err.Error(), status)
		return
	}

	if err := s.dispatcher.Dispatch(r.Context(), update); err != nil {
		logger.Error("Failed to dispatch update",
			zap.Int("update_id", update.ID),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		http.Error(w, http.StatusText(status), status)
		return
	}

	logger.Debug("Update accepted", zap.Int("update_id", update.ID))
	status = http.StatusOK
	_, _ = io.WriteString(w, "OK")
}

var (
	errEmptyBody     = errors.New("empty body")
	errMissingUpdate = errors.New("missing update_id")
)

func decodeUpdate(body io.Reader) (tele.Update, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return tele.Update{}, err
	}
	if len(raw) == 0 {
		return tele.Update{}, errEmptyBody
	}

	var envelope struct {
		UpdateID *int `json:"update_id"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return tele.Update{}, err
	}
	if envelope.UpdateID == nil {
		return tele.Update{}, errMissingUpdate
	}

	var u tele.Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return tele.Update{}, err
	}
	return u, nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
