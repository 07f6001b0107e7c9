package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/auth"
	"github.com/gauravsahdz/ecommerce-api/internal/config"
	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
)

func init() { gin.SetMode(gin.TestMode) }

const testSecret = "router-test-secret"

func testConfig() config.Config {
	return config.Config{
		AppEnv:          "production",
		JWTSecret:       testSecret,
		JWTTTL:          time.Hour,
		PageSizeDefault: 10,
		PageSizeMax:     100,
		RateRPS:         1000,
		RateBurst:       1000,
		IdempotencyTTL:  time.Hour,
		OTEL:            config.OTELConfig{ServiceName: "test-svc"},
	}
}

// newTestServer builds the full engine over a fresh in-memory database and
// returns bearer tokens for an admin and a viewer account.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB, string, string) {
	t.Helper()

	db, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	admin := domain.User{
		ID: uuid.NewString(), Name: "Admin", Email: "admin@example.com",
		PasswordHash: "x", Role: domain.RoleAdmin, IsActive: true,
	}
	viewer := domain.User{
		ID: uuid.NewString(), Name: "Viewer", Email: "viewer@example.com",
		PasswordHash: "x", Role: domain.RoleViewer, IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := db.Create(&viewer).Error; err != nil {
		t.Fatalf("seed viewer: %v", err)
	}

	tokens := auth.NewManager(testSecret, time.Hour)
	adminTok, err := tokens.Issue(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}
	viewerTok, err := tokens.Issue(viewer.ID, viewer.Role)
	if err != nil {
		t.Fatalf("issue viewer token: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r, db, testConfig())
	return r, db, adminTok, viewerTok
}

func request(t *testing.T, r *gin.Engine, method, path, token string, payload any, hdr map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, decoded
}

func seedProducts(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		p := domain.Product{
			ID:    uuid.NewString(),
			Name:  fmt.Sprintf("Widget %02d", i),
			Price: float64(10 + i),
			Stock: 5,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
}

func TestHealthAndFallbacks(t *testing.T) {
	r, _, _, _ := newTestServer(t)

	w, body := request(t, r, http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK || body["type"] != "OK" {
		t.Fatalf("health: %d %v", w.Code, body)
	}

	w, body = request(t, r, http.MethodGet, "/no/such/route", "", nil, nil)
	if w.Code != http.StatusNotFound || body["type"] != "ERROR" {
		t.Fatalf("no route: %d %v", w.Code, body)
	}

	w, _ = request(t, r, http.MethodPatch, "/health", "", nil, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("no method: %d", w.Code)
	}
}

func TestProducts_CreateReadRoundTrip(t *testing.T) {
	r, _, adminTok, _ := newTestServer(t)

	w, body := request(t, r, http.MethodPost, "/api/products", adminTok, gin.H{
		"name":        "Coffee Mug",
		"description": "Ceramic, 300ml",
		"price":       12.5,
		"stock":       4,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %v", w.Code, body)
	}
	if body["message"] != "Product created successfully" {
		t.Fatalf("message = %v", body["message"])
	}
	id := body["meta"].(map[string]any)["id"].(string)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("meta.id = %q", id)
	}

	w, body = request(t, r, http.MethodGet, "/api/products/"+id, "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("read: %d %v", w.Code, body)
	}
	p := body["data"].(map[string]any)["product"].(map[string]any)
	if p["name"] != "Coffee Mug" || p["price"] != 12.5 || p["inStock"] != true {
		t.Fatalf("round trip mismatch: %v", p)
	}
}

func TestProducts_ListFilterAndPagination(t *testing.T) {
	r, db, _, _ := newTestServer(t)
	seedProducts(t, db, 15) // prices 10..24; 12 of them are >= 13

	w, body := request(t, r, http.MethodGet,
		"/api/products?minPrice=13&page=2&limit=5&sortBy=price&sortOrder=asc", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %v", w.Code, body)
	}

	items := body["data"].(map[string]any)["products"].([]any)
	if len(items) != 5 {
		t.Fatalf("page 2 of 12 with limit 5: got %d items", len(items))
	}
	meta := body["meta"].(map[string]any)
	if meta["total"] != float64(12) || meta["totalPages"] != float64(3) {
		t.Fatalf("meta = %v", meta)
	}
	if meta["hasNextPage"] != true || meta["hasPrevPage"] != true {
		t.Fatalf("page flags = %v", meta)
	}

	filters := meta["filters"].(map[string]any)
	applied := filters["applied"].(map[string]any)
	if applied["price"].(map[string]any)["min"] != float64(13) {
		t.Fatalf("filters.applied = %v", applied)
	}
	if avail := filters["available"].([]any); len(avail) == 0 {
		t.Fatalf("filters.available empty")
	}
	sort := meta["sort"].(map[string]any)
	if sort["by"] != "price" || sort["order"] != "asc" {
		t.Fatalf("sort = %v", sort)
	}

	// Ascending price within the page.
	prev := -1.0
	for _, it := range items {
		price := it.(map[string]any)["price"].(float64)
		if price < prev {
			t.Fatalf("not ascending: %v then %v", prev, price)
		}
		prev = price
	}
}

func TestProducts_ListOutOfRangePageStillReportsTotal(t *testing.T) {
	r, db, _, _ := newTestServer(t)
	seedProducts(t, db, 3)

	w, body := request(t, r, http.MethodGet, "/api/products?page=99", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	items := body["data"].(map[string]any)["products"].([]any)
	if len(items) != 0 {
		t.Fatalf("expected empty page, got %d", len(items))
	}
	if body["meta"].(map[string]any)["total"] != float64(3) {
		t.Fatalf("total = %v", body["meta"].(map[string]any)["total"])
	}
}

func TestProducts_SingleByQueryParam(t *testing.T) {
	r, db, _, _ := newTestServer(t)
	p := domain.Product{ID: uuid.NewString(), Name: "Solo", Price: 9}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, body := request(t, r, http.MethodGet, "/api/products?id="+p.ID, "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get by query id: %d %v", w.Code, body)
	}
	got := body["data"].(map[string]any)["product"].(map[string]any)
	if got["id"] != p.ID {
		t.Fatalf("id = %v", got["id"])
	}
}

func TestProducts_IDValidationAndAbsence(t *testing.T) {
	r, _, _, _ := newTestServer(t)

	w, body := request(t, r, http.MethodGet, "/api/products/not-a-uuid", "", nil, nil)
	if w.Code != http.StatusBadRequest || body["message"] != "Invalid product ID" {
		t.Fatalf("malformed id: %d %v", w.Code, body["message"])
	}

	w, body = request(t, r, http.MethodGet, "/api/products/"+uuid.NewString(), "", nil, nil)
	if w.Code != http.StatusNotFound || body["message"] != "Product not found" {
		t.Fatalf("absent id: %d %v", w.Code, body["message"])
	}
}

func TestProducts_DeleteIdempotence(t *testing.T) {
	r, db, adminTok, _ := newTestServer(t)
	p := domain.Product{ID: uuid.NewString(), Name: "Doomed", Price: 1}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, body := request(t, r, http.MethodDelete, "/api/products/"+p.ID, adminTok, nil, nil)
	if w.Code != http.StatusOK || body["message"] != "Product deleted successfully" {
		t.Fatalf("first delete: %d %v", w.Code, body)
	}

	w, body = request(t, r, http.MethodDelete, "/api/products/"+p.ID, adminTok, nil, nil)
	if w.Code != http.StatusNotFound || body["message"] != "Product not found" {
		t.Fatalf("second delete: %d %v", w.Code, body["message"])
	}
}

func TestProducts_UpdateMergesOverStored(t *testing.T) {
	r, db, adminTok, _ := newTestServer(t)
	p := domain.Product{ID: uuid.NewString(), Name: "Old Name", Description: "Keep me", Price: 5, Stock: 2}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, body := request(t, r, http.MethodPut, "/api/products/"+p.ID, adminTok,
		gin.H{"name": "New Name"}, nil)
	if w.Code != http.StatusOK || body["message"] != "Product updated successfully" {
		t.Fatalf("update: %d %v", w.Code, body)
	}
	got := body["data"].(map[string]any)["product"].(map[string]any)
	if got["name"] != "New Name" || got["description"] != "Keep me" {
		t.Fatalf("merge semantics broken: %v", got)
	}
}

func TestMutations_RequireAuthAndRole(t *testing.T) {
	r, _, _, viewerTok := newTestServer(t)
	payload := gin.H{"name": "X", "description": "y", "price": 1}

	w, body := request(t, r, http.MethodPost, "/api/products", "", payload, nil)
	if w.Code != http.StatusUnauthorized || body["message"] != "No token provided" {
		t.Fatalf("anonymous create: %d %v", w.Code, body["message"])
	}

	w, body = request(t, r, http.MethodPost, "/api/products", viewerTok, payload, nil)
	if w.Code != http.StatusForbidden || body["message"] != "Not authorized" {
		t.Fatalf("viewer create: %d %v", w.Code, body["message"])
	}
}

func TestCategories_MalformedParentIDRejectedWithoutInsert(t *testing.T) {
	r, db, adminTok, _ := newTestServer(t)

	w, body := request(t, r, http.MethodPost, "/api/categories", adminTok, gin.H{
		"name":     "Chairs",
		"parentId": "not-a-uuid",
	}, nil)
	if w.Code != http.StatusBadRequest || body["message"] != "Invalid parentId" {
		t.Fatalf("got %d %v", w.Code, body["message"])
	}

	var count int64
	if err := db.Model(&domain.Category{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected create must not persist, count=%d", count)
	}
}

func TestCategories_SlugGeneratedAndDuplicateConflicts(t *testing.T) {
	r, _, adminTok, _ := newTestServer(t)

	w, body := request(t, r, http.MethodPost, "/api/categories", adminTok,
		gin.H{"name": "Garden Tools"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %v", w.Code, body)
	}
	cat := body["data"].(map[string]any)["category"].(map[string]any)
	if cat["slug"] != "garden-tools" {
		t.Fatalf("slug = %v", cat["slug"])
	}

	w, body = request(t, r, http.MethodPost, "/api/categories", adminTok,
		gin.H{"name": "Garden Tools"}, nil)
	if w.Code != http.StatusConflict || body["message"] != "Duplicate value for slug" {
		t.Fatalf("duplicate: %d %v", w.Code, body["message"])
	}
}

func TestOrders_CreateComputesTotalAndIdempotencyGuards(t *testing.T) {
	r, db, adminTok, _ := newTestServer(t)
	customer := domain.Customer{ID: uuid.NewString(), Name: "C", Email: "c@example.com"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	payload := gin.H{
		"customerId": customer.ID,
		"items": []gin.H{
			{"productId": uuid.NewString(), "quantity": 2, "unitPrice": 4.5},
			{"productId": uuid.NewString(), "quantity": 1, "unitPrice": 10.0},
		},
	}
	hdr := map[string]string{"Idempotency-Key": "order-attempt-1"}

	w, body := request(t, r, http.MethodPost, "/api/orders", adminTok, payload, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %v", w.Code, body)
	}
	order := body["data"].(map[string]any)["order"].(map[string]any)
	if order["total"] != 19.0 || order["status"] != "pending" {
		t.Fatalf("order = %v", order)
	}
	if len(order["items"].([]any)) != 2 {
		t.Fatalf("items = %v", order["items"])
	}

	// Same key again: rejected instead of double-charging.
	w, body = request(t, r, http.MethodPost, "/api/orders", adminTok, payload, hdr)
	if w.Code != http.StatusConflict || body["message"] != "Duplicate request" {
		t.Fatalf("replay: %d %v", w.Code, body["message"])
	}
}

func TestOrders_InvalidItemProductIDNamesField(t *testing.T) {
	r, _, adminTok, _ := newTestServer(t)

	w, body := request(t, r, http.MethodPost, "/api/orders", adminTok, gin.H{
		"customerId": uuid.NewString(),
		"items":      []gin.H{{"productId": "nope", "quantity": 1, "unitPrice": 1.0}},
	}, nil)
	if w.Code != http.StatusBadRequest || body["message"] != "Invalid productId" {
		t.Fatalf("got %d %v", w.Code, body["message"])
	}
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	r, _, _, _ := newTestServer(t)

	w, body := request(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "New User", "email": "new@example.com", "password": "hunter2hunter2",
	}, nil)
	if w.Code != http.StatusCreated || body["message"] != "User registered successfully" {
		t.Fatalf("register: %d %v", w.Code, body)
	}

	w, body = request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "new@example.com", "password": "hunter2hunter2",
	}, nil)
	if w.Code != http.StatusOK || body["message"] != "Login successful" {
		t.Fatalf("login: %d %v", w.Code, body)
	}
	data := body["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("no token in login response")
	}
	if data["user"].(map[string]any)["role"] != string(domain.RoleViewer) {
		t.Fatalf("new accounts must start as Viewer: %v", data["user"])
	}

	w, body = request(t, r, http.MethodGet, "/api/auth/me", token, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d %v", w.Code, body)
	}
	if body["data"].(map[string]any)["user"].(map[string]any)["email"] != "new@example.com" {
		t.Fatalf("me = %v", body["data"])
	}
}

func TestAuth_LoginFailureCausesDistinct(t *testing.T) {
	r, _, _, _ := newTestServer(t)

	_, body := request(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "U", "email": "u@example.com", "password": "hunter2hunter2",
	}, nil)
	if body["type"] != "OK" {
		t.Fatalf("register: %v", body)
	}

	w, body := request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "missing@example.com", "password": "whatever1",
	}, nil)
	if w.Code != http.StatusUnauthorized || body["message"] != "Email not found" {
		t.Fatalf("unknown email: %d %v", w.Code, body["message"])
	}

	w, body = request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "u@example.com", "password": "wrong-password",
	}, nil)
	if w.Code != http.StatusUnauthorized || body["message"] != "Invalid credentials" {
		t.Fatalf("wrong password: %d %v", w.Code, body["message"])
	}
}

func TestValidationErrorsListFields(t *testing.T) {
	r, _, _, _ := newTestServer(t)

	w, body := request(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "U", "email": "not-an-email", "password": "short",
	}, nil)
	if w.Code != http.StatusBadRequest || body["message"] != "Validation Error" {
		t.Fatalf("got %d %v", w.Code, body)
	}
	errs := body["meta"].(map[string]any)["errors"].([]any)
	if len(errs) != 2 {
		t.Fatalf("expected two field errors, got %v", errs)
	}
}

func TestUsers_AdminOnlyIncludingReads(t *testing.T) {
	r, _, adminTok, viewerTok := newTestServer(t)

	w, body := request(t, r, http.MethodGet, "/api/users", viewerTok, nil, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("viewer list users: %d %v", w.Code, body["message"])
	}

	w, body = request(t, r, http.MethodGet, "/api/users", adminTok, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list users: %d %v", w.Code, body)
	}
	users := body["data"].(map[string]any)["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("seeded users = %d", len(users))
	}
	// Password hashes never serialize.
	for _, u := range users {
		if _, ok := u.(map[string]any)["passwordHash"]; ok {
			t.Fatalf("passwordHash leaked: %v", u)
		}
	}
}

func TestUsers_CreateHashesPasswordAndDefaultsRole(t *testing.T) {
	r, db, adminTok, _ := newTestServer(t)

	w, body := request(t, r, http.MethodPost, "/api/users", adminTok, gin.H{
		"name": "Op", "email": "op@example.com", "password": "hunter2hunter2",
	}, nil)
	if w.Code != http.StatusCreated || body["message"] != "User created successfully" {
		t.Fatalf("create user: %d %v", w.Code, body)
	}
	id := body["meta"].(map[string]any)["id"].(string)

	var u domain.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if u.Role != domain.RoleViewer || !u.IsActive {
		t.Fatalf("defaults: %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter2hunter2" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestInactiveSubjectRejected(t *testing.T) {
	r, db, _, _ := newTestServer(t)

	u := domain.User{
		ID: uuid.NewString(), Name: "Ghost", Email: "ghost@example.com",
		PasswordHash: "x", Role: domain.RoleAdmin, IsActive: false,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	tok, err := auth.NewManager(testSecret, time.Hour).Issue(u.ID, u.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w, body := request(t, r, http.MethodPost, "/api/products", tok,
		gin.H{"name": "X", "description": "y", "price": 1}, nil)
	if w.Code != http.StatusUnauthorized || body["message"] != "User account is inactive" {
		t.Fatalf("got %d %v", w.Code, body["message"])
	}
}

func TestProducts_CreateValidatesBodyID(t *testing.T) {
	r, db, adminTok, _ := newTestServer(t)

	// A malformed client-supplied id would persist an entity unreachable by
	// the id-validated read paths; it must be rejected before the store.
	w, body := request(t, r, http.MethodPost, "/api/products", adminTok, gin.H{
		"id":          "not-a-uuid",
		"name":        "Phantom",
		"description": "x",
		"price":       1,
	}, nil)
	if w.Code != http.StatusBadRequest || body["message"] != "Invalid product ID" {
		t.Fatalf("malformed body id: %d %v", w.Code, body["message"])
	}
	var count int64
	if err := db.Model(&domain.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected create must not persist, count=%d", count)
	}

	// A well-formed client id is kept and the entity stays reachable by it.
	id := uuid.NewString()
	w, body = request(t, r, http.MethodPost, "/api/products", adminTok, gin.H{
		"id":          id,
		"name":        "Chosen ID",
		"description": "x",
		"price":       2,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %v", w.Code, body)
	}
	if body["meta"].(map[string]any)["id"] != id {
		t.Fatalf("meta.id = %v, want %s", body["meta"].(map[string]any)["id"], id)
	}
	w, body = request(t, r, http.MethodGet, "/api/products/"+id, "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("created entity unreachable by its own id: %d %v", w.Code, body)
	}
}

func TestOrders_FailedAttemptReleasesIdempotencyKey(t *testing.T) {
	r, _, adminTok, _ := newTestServer(t)
	hdr := map[string]string{"Idempotency-Key": "retry-after-failure"}

	// First attempt is rejected before any order is created; the key must
	// not be consumed by the failure.
	w, body := request(t, r, http.MethodPost, "/api/orders", adminTok, gin.H{
		"customerId": "nope",
		"items":      []gin.H{{"productId": uuid.NewString(), "quantity": 1, "unitPrice": 1.0}},
	}, hdr)
	if w.Code != http.StatusBadRequest || body["message"] != "Invalid customerId" {
		t.Fatalf("failed attempt: %d %v", w.Code, body["message"])
	}

	// The corrected retry with the same key succeeds.
	w, body = request(t, r, http.MethodPost, "/api/orders", adminTok, gin.H{
		"customerId": uuid.NewString(),
		"items":      []gin.H{{"productId": uuid.NewString(), "quantity": 1, "unitPrice": 1.0}},
	}, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("retry with same key: %d %v", w.Code, body)
	}
}
