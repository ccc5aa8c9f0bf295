package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bookswap/internal/config"
	"bookswap/internal/crypto"
	"bookswap/internal/event"
	"bookswap/internal/handler"
	"bookswap/internal/hub"
	"bookswap/internal/repository/sqlite"
	"bookswap/internal/service"
)

// newTestServer builds the full HTTP stack against a fresh SQLite database.
func newTestServer(t *testing.T) (*httptest.Server, *sqlite.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	economy := config.Economy{
		StartingBalance: 100,
		DonationReward:  100,
		BorrowCost:      50,
		DonorReward:     50,
		LateFeePerDay:   10,
		LoanDuration:    7 * 24 * time.Hour,
	}

	notificationHub := hub.New()
	dispatcher := event.NewDispatcher()
	dispatcher.Attach(service.NewNotifier(db.Notifications()))
	dispatcher.Attach(notificationHub)

	lending := service.NewLending(db, crypto.NewBcryptVerifier(4), dispatcher, economy)
	sessions := service.NewSessions("0123456789abcdef0123456789abcdef", time.Hour)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, lending, sessions, db.Users(), notificationHub, false)

	server := httptest.NewServer(handler.SecurityHeaders(handler.RequestLog(mux)))
	t.Cleanup(server.Close)
	return server, db
}

// newTestClient returns an HTTP client with a cookie jar so the auth cookie
// survives across requests.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func getJSON(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func register(t *testing.T, client *http.Client, baseURL, id string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/auth/register", map[string]any{
		"id":          id,
		"displayName": "User " + id,
		"email":       id + "@example.com",
		"password":    "password123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", id, resp.StatusCode)
	}
}

func login(t *testing.T, client *http.Client, baseURL, id string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/auth/login", map[string]any{
		"id":       id,
		"password": "password123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", id, resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	resp := getJSON(t, http.DefaultClient, server.URL+"/healthz")
	var body map[string]string
	decodeBody(t, resp, &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestFullLendingFlow(t *testing.T) {
	server, _ := newTestServer(t)

	alice := newTestClient(t)
	bob := newTestClient(t)

	register(t, alice, server.URL, "alice")
	login(t, alice, server.URL, "alice")
	register(t, bob, server.URL, "bob")
	login(t, bob, server.URL, "bob")

	// Alice donates a book and earns the donation reward.
	resp := postJSON(t, alice, server.URL+"/api/books/donate", map[string]any{
		"isbn":   "978-0441013593",
		"title":  "Dune",
		"author": "Frank Herbert",
		"year":   1965,
	})
	var donated struct {
		Book    handler.BookDTO `json:"book"`
		Balance int             `json:"balance"`
	}
	decodeBody(t, resp, &donated)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("donate: expected 201, got %d", resp.StatusCode)
	}
	if donated.Balance != 200 {
		t.Fatalf("expected alice at 200 after donation, got %d", donated.Balance)
	}

	// The catalog lists the donated book.
	resp = getJSON(t, bob, server.URL+"/api/books")
	var catalog struct {
		Books []handler.BookDTO `json:"books"`
	}
	decodeBody(t, resp, &catalog)
	if len(catalog.Books) != 1 || catalog.Books[0].ISBN != "978-0441013593" {
		t.Fatalf("unexpected catalog: %+v", catalog.Books)
	}

	// Bob borrows it.
	resp = postJSON(t, bob, server.URL+"/api/loans/borrow", map[string]any{"isbn": "978-0441013593"})
	var borrowed struct {
		Loan handler.LoanDTO `json:"loan"`
	}
	decodeBody(t, resp, &borrowed)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("borrow: expected 201, got %d", resp.StatusCode)
	}
	if borrowed.Loan.Status != "active" || borrowed.Loan.UserID != "bob" {
		t.Fatalf("unexpected loan: %+v", borrowed.Loan)
	}

	// Bob paid the borrow cost.
	resp = getJSON(t, bob, server.URL+"/api/balance")
	var balance struct {
		UserID  string `json:"userId"`
		Balance int    `json:"balance"`
	}
	decodeBody(t, resp, &balance)
	if balance.Balance != 50 {
		t.Fatalf("expected bob at 50, got %d", balance.Balance)
	}

	// Alice earned the donor reward.
	resp = getJSON(t, alice, server.URL+"/api/balance")
	decodeBody(t, resp, &balance)
	if balance.Balance != 250 {
		t.Fatalf("expected alice at 250, got %d", balance.Balance)
	}

	// The book is no longer available.
	resp = getJSON(t, bob, server.URL+"/api/books")
	decodeBody(t, resp, &catalog)
	if len(catalog.Books) != 0 {
		t.Fatalf("expected empty catalog while on loan, got %+v", catalog.Books)
	}

	// The full catalog still lists it, flagged unavailable.
	resp = getJSON(t, bob, server.URL+"/api/books?all=true")
	decodeBody(t, resp, &catalog)
	if len(catalog.Books) != 1 || catalog.Books[0].Available {
		t.Fatalf("expected one unavailable book in full catalog, got %+v", catalog.Books)
	}

	// Bob returns it on time.
	resp = postJSON(t, bob, server.URL+"/api/loans/return", map[string]any{"isbn": "978-0441013593"})
	var receipt struct {
		Message  string `json:"message"`
		Balance  int    `json:"balance"`
		DaysLate int    `json:"daysLate"`
		Penalty  int    `json:"penalty"`
	}
	decodeBody(t, resp, &receipt)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("return: expected 200, got %d", resp.StatusCode)
	}
	if receipt.Penalty != 0 || receipt.Balance != 50 {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	// Bob's loan history shows the closed loan.
	resp = getJSON(t, bob, server.URL+"/api/loans")
	var history struct {
		Loans []handler.LoanDTO `json:"loans"`
	}
	decodeBody(t, resp, &history)
	if len(history.Loans) != 1 || history.Loans[0].Status != "returned" {
		t.Fatalf("unexpected loan history: %+v", history.Loans)
	}
	if history.Loans[0].ReturnedAt == nil {
		t.Fatal("expected returnedAt to be set")
	}

	// Alice has notifications for the welcome, donation, and donor credit.
	resp = getJSON(t, alice, server.URL+"/api/notifications")
	var feed struct {
		Notifications []handler.NotificationDTO `json:"notifications"`
	}
	decodeBody(t, resp, &feed)
	if len(feed.Notifications) != 3 {
		t.Fatalf("expected 3 notifications for alice, got %d", len(feed.Notifications))
	}

	// Mark the newest read.
	markURL := fmt.Sprintf("%s/api/notifications/%d/read", server.URL, feed.Notifications[0].ID)
	resp = postJSON(t, alice, markURL, struct{}{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("mark read: expected 204, got %d", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t)

	// Missing fields.
	resp := postJSON(t, client, server.URL+"/api/auth/register", map[string]any{"id": "alice"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing fields, got %d", resp.StatusCode)
	}

	// Short password.
	resp = postJSON(t, client, server.URL+"/api/auth/register", map[string]any{
		"id": "alice", "displayName": "Alice", "email": "alice@example.com", "password": "short",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for short password, got %d", resp.StatusCode)
	}

	// Duplicate id.
	register(t, client, server.URL, "alice")
	resp = postJSON(t, client, server.URL+"/api/auth/register", map[string]any{
		"id": "alice", "displayName": "Alice", "email": "other@example.com", "password": "password123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate id, got %d", resp.StatusCode)
	}
}

func TestLoginFailures(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t)

	register(t, client, server.URL, "alice")

	resp := postJSON(t, client, server.URL+"/api/auth/login", map[string]any{
		"id": "alice", "password": "wrong-password",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	resp = postJSON(t, client, server.URL+"/api/auth/login", map[string]any{
		"id": "nobody", "password": "password123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", resp.StatusCode)
	}
}

func TestProtectedEndpointsRequireAuth(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t)

	for _, url := range []string{
		server.URL + "/api/auth/me",
		server.URL + "/api/balance",
		server.URL + "/api/notifications",
		server.URL + "/api/users",
	} {
		resp := getJSON(t, client, url)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected 401, got %d", url, resp.StatusCode)
		}
	}

	resp := postJSON(t, client, server.URL+"/api/loans/borrow", map[string]any{"isbn": "x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("borrow without auth: expected 401, got %d", resp.StatusCode)
	}
}

func TestBorrowErrors(t *testing.T) {
	server, db := newTestServer(t)

	alice := newTestClient(t)
	bob := newTestClient(t)
	register(t, alice, server.URL, "alice")
	login(t, alice, server.URL, "alice")
	register(t, bob, server.URL, "bob")
	login(t, bob, server.URL, "bob")

	resp := postJSON(t, alice, server.URL+"/api/books/donate", map[string]any{
		"isbn": "isbn-x", "title": "X", "author": "A", "year": 2020,
	})
	resp.Body.Close()

	// Unknown book.
	resp = postJSON(t, bob, server.URL+"/api/loans/borrow", map[string]any{"isbn": "missing"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown book, got %d", resp.StatusCode)
	}

	// Insufficient balance.
	if err := db.Users().UpdateBalance(context.Background(), "bob", 30); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	resp = postJSON(t, bob, server.URL+"/api/loans/borrow", map[string]any{"isbn": "isbn-x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected 402 for insufficient balance, got %d", resp.StatusCode)
	}

	// Book on loan is reported as a conflict.
	if err := db.Users().UpdateBalance(context.Background(), "bob", 100); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	resp = postJSON(t, bob, server.URL+"/api/loans/borrow", map[string]any{"isbn": "isbn-x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("borrow: expected 201, got %d", resp.StatusCode)
	}
	resp = postJSON(t, alice, server.URL+"/api/loans/borrow", map[string]any{"isbn": "isbn-x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for unavailable book, got %d", resp.StatusCode)
	}

	// Returning a book that was never borrowed.
	resp = postJSON(t, alice, server.URL+"/api/loans/return", map[string]any{"isbn": "isbn-x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for return without loan, got %d", resp.StatusCode)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(t)

	register(t, client, server.URL, "alice")
	login(t, client, server.URL, "alice")

	resp := getJSON(t, client, server.URL+"/api/auth/me")
	var me struct {
		User handler.UserDTO `json:"user"`
	}
	decodeBody(t, resp, &me)
	if me.User.ID != "alice" {
		t.Fatalf("expected alice, got %+v", me.User)
	}

	resp = postJSON(t, client, server.URL+"/api/auth/logout", struct{}{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", resp.StatusCode)
	}

	resp = getJSON(t, client, server.URL+"/api/auth/me")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}
