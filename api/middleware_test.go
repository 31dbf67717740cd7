package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/stretchr/testify/assert"

	"github.com/ceylonexplorer/rental-api/databases/mocks"
)

func TestWebsocketMiddlewareRejectsMissingToken(t *testing.T) {
	m := MiddlewareDB{DB: mocks.NewAdminDatabase(t)}
	m.SetupGoGuardian()

	called := false
	h := WebsocketMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/bookings/feed", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called)
}

func TestWebsocketMiddlewarePromotesQueryToken(t *testing.T) {
	m := MiddlewareDB{DB: mocks.NewAdminDatabase(t)}
	m.SetupGoGuardian()

	called := false
	h := WebsocketMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	token := uuid.New().String()
	req := httptest.NewRequest("GET", "/api/v1/admin/bookings/feed?token="+token, nil)

	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	authUser := auth.NewDefaultUser("admin@ceylonexplorer.lk", "1", nil, nil)
	auth.Append(tokenStrategy, token, authUser, req)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
}
