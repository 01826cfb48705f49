package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/intent-network/relayer/server/api/middleware"
)

func TestUseWrapsRouterOutermostFirst(t *testing.T) {
	t.Parallel()

	s := NewServer(DefaultConfig(), zerolog.Nop())
	s.Router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	s.Use(tag("outer"), tag("inner"))

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestRequestIDFlowsIntoErrorEnvelope(t *testing.T) {
	t.Parallel()

	s := NewServer(DefaultConfig(), zerolog.Nop())
	s.Router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "no good", nil)
	})
	s.Use(middleware.RequestID())

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))

	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "bad_request", body.Error.Code)
	require.Equal(t, "req-123", body.Error.RequestID)
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	t.Parallel()

	s := NewServer(DefaultConfig(), zerolog.Nop())
	s.Router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("handler blew up"))
	})
	s.Use(middleware.Recover(zerolog.Nop()))

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCORSRejectsMutatingMethods(t *testing.T) {
	t.Parallel()

	s := NewServer(DefaultConfig(), zerolog.Nop())
	s.Router.HandleFunc("/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{})
	})
	s.EnableCORS()

	req := httptest.NewRequest(http.MethodOptions, "/v1/stats", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.NotContains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
