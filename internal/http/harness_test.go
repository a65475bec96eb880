package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"sellerconsole/internal/backend"
	"sellerconsole/internal/config"
	"sellerconsole/internal/domain"
	"sellerconsole/internal/http/handlers"
	"sellerconsole/internal/repos"
	"sellerconsole/web"
)

// fakeStore stands in for the commerce backend.
type fakeStore struct {
	mu          sync.Mutex
	products    []domain.Product
	orders      []domain.Order
	sellers     map[string]bool
	down        bool
	ordersDown  bool
	verifyCalls int
	orderCalls  int
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/product/get-products":
		_ = json.NewEncoder(w).Encode(map[string]any{"products": f.products})
	case r.Method == http.MethodGet && r.URL.Path == "/get-orders":
		f.orderCalls++
		if f.ordersDown {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"orders": f.orders})
	case r.Method == http.MethodPost && r.URL.Path == "/admin/verify-seller":
		f.verifyCalls++
		var in struct {
			SellerID string `json:"sellerId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		state := "loggedout"
		if f.sellers[in.SellerID] {
			state = "loggedin"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"loggedIn": state})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeStore) setDown(down bool) {
	f.mu.Lock()
	f.down = down
	f.mu.Unlock()
}

func (f *fakeStore) calls() (verify, orders int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyCalls, f.orderCalls
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: []domain.Product{
			{ProductID: "P-100", ProductName: "Linen Tote", ProductPrice: 25, Img: []string{"https://cdn.example.com/tote1.jpg"},
				Categories: []string{"bags"}, InStock: 10, Visibility: "public"},
			{ProductID: "P-200", ProductName: "Clay Mug", ProductPrice: 12.5, Categories: []string{"kitchen"},
				InStock: 4, Visibility: "public"},
		},
		orders: []domain.Order{
			{OrderID: "A2", TrackingID: "TRK-2", Name: "bob", Email: "bob@x.io", Price: 50, Date: "2024-03-02", Time: "09:00", Address: "2 Elm St"},
			{OrderID: "A1", TrackingID: "TRK-1", Name: "alice", Email: "alice@x.io", Price: 20, Date: "2024-03-01", Time: "10:15", Address: "12 Park Rd"},
		},
		sellers: map[string]bool{"seller-ok": true},
	}
}

type console struct {
	app     *fiber.App
	store   *fakeStore
	deps    *handlers.Deps
	journal *repos.JournalRepo
	db      *sqlx.DB
}

// newConsole builds the app the way main does, against a fake backend.
func newConsole(t *testing.T) *console {
	t.Helper()
	store := newFakeStore()
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	cfg := config.Config{DBDSN: ":memory:", LoginPath: "/seller/login", StatusMode: "server", ViewTTL: time.Minute}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	client := backend.NewClient(srv.URL, srv.Client())

	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg, client, client)
	t.Cleanup(func() { _ = deps.Close() })
	deps.Register(app)
	return &console{app: app, store: store, deps: deps, journal: repos.NewJournalRepo(db), db: db}
}

func (c *console) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := c.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	return resp
}

func (c *console) get(t *testing.T, path string) *http.Response {
	t.Helper()
	return c.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

// csrfToken fetches a page so the middleware issues a token cookie.
func (c *console) csrfToken(t *testing.T) string {
	t.Helper()
	resp := c.get(t, "/seller/login")
	for _, ck := range resp.Cookies() {
		if ck.Name == "csrf_" {
			return ck.Value
		}
	}
	t.Fatal("csrf token missing")
	return ""
}

func (c *console) post(t *testing.T, path, tok string, form url.Values) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", tok)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	return c.do(t, req)
}

// mount GETs a screen's entry route and returns the view page it redirects to.
func (c *console) mount(t *testing.T, path string) string {
	t.Helper()
	resp := c.get(t, path)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("mount %s: want 303, got %d", path, resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if i := strings.IndexByte(loc, '?'); i >= 0 {
		loc = loc[:i]
	}
	return loc
}

func (c *console) page(t *testing.T, path string) string {
	t.Helper()
	resp := c.get(t, path)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: want 200, got %d", path, resp.StatusCode)
	}
	return readBody(resp)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func expectRedirect(t *testing.T, resp *http.Response, prefix string) string {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther && resp.StatusCode != http.StatusFound {
		t.Fatalf("want redirect to %s, got %d", prefix, resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, prefix) {
		t.Fatalf("want redirect to %s, got %s", prefix, loc)
	}
	return loc
}

type logEntry struct {
	Action string         `json:"action"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs returns the JSON log lines written while fn runs, plus the raw text.
func captureLogs(t *testing.T, fn func()) ([]logEntry, string) {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	mu.Lock()
	raw := buf.String()
	mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil && e.Action != "" {
			entries = append(entries, e)
		}
	}
	return entries, raw
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}
