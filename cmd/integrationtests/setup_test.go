package integrationtests

import (
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/identity"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestEnv bundles a router with the repositories behind it
type TestEnv struct {
	Router   *gin.Engine
	Store    repository.Store
	Auctions *repository.AuctionRepo
	Users    *repository.UserRepo
}

// SetupTestEnv initializes the router over store and seeds the demo accounts.
func SetupTestEnv(t *testing.T, store repository.Store) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auctions := repository.NewAuctionRepo(store)
	users := repository.NewUserRepo(store)
	sessions := repository.NewSessionRepo(store)

	_, err := users.SeedIfEmpty(context.Background(), []model.User{
		{Email: "admin@abu.edu", Password: "admin123", Role: model.RoleAdmin},
		{Email: "student@abu.edu", Password: "student123", Role: model.RoleUser},
	})
	require.NoError(t, err)

	router := server.SetupRouter(bidding.NewBiddingService(auctions), identity.NewService(users, sessions))
	return &TestEnv{Router: router, Store: store, Auctions: auctions, Users: users}
}

// SetupTestRouter initializes the router with an in-memory store for integration testing.
func SetupTestRouter(t *testing.T) *TestEnv {
	return SetupTestEnv(t, repository.NewMemoryStore())
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, router http.Handler, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// Login logs the given account in through the API
func (e *TestEnv) Login(t *testing.T, email, password string) {
	t.Helper()
	_, w := ExecuteRequestAndParse(t, e.Router, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

// CreateAuction creates an auction as the admin and returns its id
func (e *TestEnv) CreateAuction(t *testing.T, title string, startingPrice float64, endIn time.Duration) string {
	t.Helper()
	e.Login(t, "admin@abu.edu", "admin123")

	end := time.Now().Add(endIn).UTC()
	resp, w := ExecuteRequestAndParse(t, e.Router, http.MethodPost, "/auctions", map[string]any{
		"title":          title,
		"description":    title + " in good condition",
		"end_date":       end.Format(time.RFC3339),
		"starting_price": startingPrice,
	})
	require.Equal(t, http.StatusCreated, w.Code, resp)

	return resp["data"].(map[string]any)["id"].(string)
}
