package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/tienda-checkout/internal/auth"
	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/idempotency"
	"github.com/MikeMC777/tienda-checkout/internal/memstore"
	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/user"
)

//
// ---------- FIXTURE ----------
//

type fixture struct {
	store  *memstore.Store
	issuer *auth.Issuer
	r      *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithIdem(t, idempotency.NewMemoryStore(time.Hour))
}

func newFixtureWithIdem(t *testing.T, idem idempotency.Store) *fixture {
	t.Helper()
	ms := memstore.New()
	issuer := auth.NewIssuer("test-secret", "tienda-checkout", time.Hour)
	f := &fixture{store: ms, issuer: issuer}
	f.r = newRouter(deps{
		log:         zap.NewNop(),
		reg:         prometheus.NewRegistry(),
		issuer:      issuer,
		users:       user.NewService(ms.Users()),
		carts:       cart.NewAggregator(ms.Carts(), ms.Products(), ms.Ledger()),
		coordinator: order.NewCoordinator(ms, ms.Orders()),
		idem:        idem,
	})
	return f
}

func (f *fixture) seedProduct(t *testing.T, price string, stock int) string {
	t.Helper()
	id := uuid.NewString()
	err := f.store.Products().Create(context.Background(), &product.Product{
		ID: id, Name: "Prod " + id[:4], Price: decimal.RequireFromString(price), Stock: stock,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return id
}

func (f *fixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	n, err := f.store.Ledger().Available(context.Background(), productID)
	if err != nil {
		t.Fatalf("stock of %s: %v", productID, err)
	}
	return n
}

func (f *fixture) token(t *testing.T, userID string, admin bool) string {
	t.Helper()
	role := string(user.RoleCustomer)
	if admin {
		role = auth.RoleAdmin
	}
	tok, err := f.issuer.Issue(userID, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (f *fixture) do(method, target, token, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, w.Body.String())
	}
	return out
}

func (f *fixture) addToCart(t *testing.T, token, productID string, qty int) {
	t.Helper()
	body := `{"product_id":"` + productID + `","quantity":` + strconv.Itoa(qty) + `}`
	if w := f.do(http.MethodPost, "/cart/items", token, body); w.Code != http.StatusCreated {
		t.Fatalf("add to cart: status=%d body=%s", w.Code, w.Body.String())
	}
}

// placeOrder fills the cart with qty of productID and checks it out.
func (f *fixture) placeOrder(t *testing.T, token, productID string, qty int) order.Order {
	t.Helper()
	f.addToCart(t, token, productID, qty)
	w := f.do(http.MethodPost, "/orders", token, `{"shipping_address":"Calle 10 #43-12"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: status=%d body=%s", w.Code, w.Body.String())
	}
	return decode[order.Order](t, w)
}

//
// ---------- TESTS ----------
//

func TestAuth_RegisterLoginAndProtectedRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/auth/register", "", `{"username":"maria","email":"maria@example.com","password":"s3cret"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/auth/register", "", `{"username":"maria","email":"maria@example.com","password":"s3cret"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status=%d (expected 409)", w.Code)
	}
	if w := f.do(http.MethodPost, "/auth/login", "", `{"email":"maria@example.com","password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status=%d (expected 401)", w.Code)
	}

	w = f.do(http.MethodPost, "/auth/login", "", `{"email":"maria@example.com","password":"s3cret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	tok := decode[user.TokenResponse](t, w)
	if tok.Token == "" || tok.User.Role != user.RoleCustomer {
		t.Fatalf("unexpected token response: %+v", tok)
	}

	if w := f.do(http.MethodGet, "/cart", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d (expected 401)", w.Code)
	}
	if w := f.do(http.MethodGet, "/cart", tok.Token, ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodGet, "/admin/orders", tok.Token, ""); w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: status=%d (expected 403)", w.Code)
	}
}

func TestCart_AddUpdateRemove(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, uuid.NewString(), false)
	pid := f.seedProduct(t, "15.00", 5)

	w := f.do(http.MethodPost, "/cart/items", tok, `{"product_id":"`+pid+`","quantity":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	line := decode[cart.Line](t, w)

	// merged quantity 2+4 exceeds stock 5
	if w := f.do(http.MethodPost, "/cart/items", tok, `{"product_id":"`+pid+`","quantity":4}`); w.Code != http.StatusConflict {
		t.Fatalf("over stock: status=%d body=%s (expected 409)", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/cart/items", tok, `{"product_id":"`+pid+`","quantity":0}`); w.Code != http.StatusBadRequest {
		t.Fatalf("zero qty: status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/cart/items", tok, `{"product_id":"nope","quantity":1}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown product: status=%d body=%s (expected 404)", w.Code, w.Body.String())
	}

	if w := f.do(http.MethodPut, "/cart/items/"+line.ID, tok, `{"quantity":3}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = f.do(http.MethodGet, "/cart/total", tok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	total := decode[struct {
		Total decimal.Decimal `json:"total"`
		Count int             `json:"count"`
	}](t, w)
	if !total.Total.Equal(decimal.RequireFromString("45.00")) || total.Count != 3 {
		t.Fatalf("unexpected total: %+v", total)
	}

	// another user cannot touch the line
	other := f.token(t, uuid.NewString(), false)
	if w := f.do(http.MethodDelete, "/cart/items/"+line.ID, other, ""); w.Code != http.StatusNotFound {
		t.Fatalf("foreign line: status=%d (expected 404)", w.Code)
	}
	if w := f.do(http.MethodDelete, "/cart/items/"+line.ID, tok, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	view := decode[cart.View](t, f.do(http.MethodGet, "/cart", tok, ""))
	if len(view.Lines) != 0 || view.Count != 0 {
		t.Fatalf("cart should be empty: %+v", view)
	}
	if f.stockOf(t, pid) != 5 {
		t.Fatalf("cart operations must not move stock")
	}
}

func TestCart_ContainsProduct(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, uuid.NewString(), false)
	pid := f.seedProduct(t, "3.00", 5)
	other := f.seedProduct(t, "3.00", 5)
	f.addToCart(t, tok, pid, 1)

	type containsResp struct {
		ProductID string `json:"product_id"`
		InCart    bool   `json:"in_cart"`
	}
	w := f.do(http.MethodGet, "/cart/items?product_id="+pid, tok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := decode[containsResp](t, w); !got.InCart || got.ProductID != pid {
		t.Fatalf("unexpected: %+v", got)
	}
	if got := decode[containsResp](t, f.do(http.MethodGet, "/cart/items?product_id="+other, tok, "")); got.InCart {
		t.Fatalf("product never added reported in cart")
	}
	// scoped to the caller
	stranger := f.token(t, uuid.NewString(), false)
	if got := decode[containsResp](t, f.do(http.MethodGet, "/cart/items?product_id="+pid, stranger, "")); got.InCart {
		t.Fatalf("another user's line reported in cart")
	}
	if w := f.do(http.MethodGet, "/cart/items", tok, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing product_id: status=%d (expected 400)", w.Code)
	}
	if w := f.do(http.MethodGet, "/cart/items?product_id="+pid, "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d (expected 401)", w.Code)
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, uuid.NewString(), false)
	pid := f.seedProduct(t, "15.00", 5)

	o := f.placeOrder(t, tok, pid, 2)
	if o.Status != order.StatusPending || !o.TotalAmount.Equal(decimal.RequireFromString("30.00")) || len(o.Items) != 1 {
		t.Fatalf("unexpected order: %+v", o)
	}
	if f.stockOf(t, pid) != 3 {
		t.Fatalf("stock expected=3, got=%d", f.stockOf(t, pid))
	}
	view := decode[cart.View](t, f.do(http.MethodGet, "/cart", tok, ""))
	if len(view.Lines) != 0 {
		t.Fatalf("cart not cleared: %+v", view)
	}
}

func TestCreateOrder_EmptyCartAndMissingAddress(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, uuid.NewString(), false)

	if w := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart: status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/orders", tok, `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing address: status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, uuid.NewString(), false)
	pid := f.seedProduct(t, "10.00", 2)

	f.addToCart(t, tok, pid, 2)
	// stock drops after the cart was filled
	if err := f.store.Ledger().SetAbsolute(context.Background(), pid, 1); err != nil {
		t.Fatal(err)
	}
	w := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (expected 409)", w.Code, w.Body.String())
	}
	if f.stockOf(t, pid) != 1 {
		t.Fatalf("stock must be untouched, got %d", f.stockOf(t, pid))
	}
	view := decode[cart.View](t, f.do(http.MethodGet, "/cart", tok, ""))
	if len(view.Lines) != 1 {
		t.Fatalf("cart must survive a failed order: %+v", view)
	}
}

func TestCreateOrder_IdempotencyKeyReplaysFirstOrder(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, uuid.NewString(), false)
	pid := f.seedProduct(t, "10.00", 5)

	f.addToCart(t, tok, pid, 1)
	first := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", first.Code, first.Body.String())
	}
	// the cart is empty now, so only a replay can succeed
	second := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-1")
	if second.Code != http.StatusOK {
		t.Fatalf("replay: status=%d body=%s (expected 200)", second.Code, second.Body.String())
	}
	if a, b := decode[order.Order](t, first), decode[order.Order](t, second); a.ID != b.ID {
		t.Fatalf("replay returned a different order: %s vs %s", a.ID, b.ID)
	}
	if f.stockOf(t, pid) != 4 {
		t.Fatalf("stock decreased twice: %d", f.stockOf(t, pid))
	}

	// a failed attempt releases the key
	if w := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-2"); w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart: status=%d (expected 400)", w.Code)
	}
	f.addToCart(t, tok, pid, 1)
	if w := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-2"); w.Code != http.StatusCreated {
		t.Fatalf("retry after failure: status=%d body=%s (expected 201)", w.Code, w.Body.String())
	}
}

// flakyRemember fails the first n Remember calls.
type flakyRemember struct {
	idempotency.Store
	n     int
	calls int
}

func (s *flakyRemember) Remember(ctx context.Context, scope, key, value string) error {
	s.calls++
	if s.calls <= s.n {
		return errors.New("redis: connection reset")
	}
	return s.Store.Remember(ctx, scope, key, value)
}

func TestCreateOrder_RememberFailureDoesNotStrandKey(t *testing.T) {
	t.Run("second try stores the mapping", func(t *testing.T) {
		idem := &flakyRemember{Store: idempotency.NewMemoryStore(time.Hour), n: 1}
		f := newFixtureWithIdem(t, idem)
		tok := f.token(t, uuid.NewString(), false)
		pid := f.seedProduct(t, "10.00", 5)

		f.addToCart(t, tok, pid, 1)
		first := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-1")
		if first.Code != http.StatusCreated {
			t.Fatalf("status=%d body=%s", first.Code, first.Body.String())
		}
		second := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-1")
		if second.Code != http.StatusOK {
			t.Fatalf("replay: status=%d body=%s (expected 200)", second.Code, second.Body.String())
		}
		if idem.calls != 2 {
			t.Fatalf("remember calls=%d, want 2", idem.calls)
		}
	})

	t.Run("both tries fail and the key is released", func(t *testing.T) {
		idem := &flakyRemember{Store: idempotency.NewMemoryStore(time.Hour), n: 2}
		f := newFixtureWithIdem(t, idem)
		tok := f.token(t, uuid.NewString(), false)
		pid := f.seedProduct(t, "10.00", 5)

		f.addToCart(t, tok, pid, 1)
		if w := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-1"); w.Code != http.StatusCreated {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		// without the release this would answer 409 "in progress"
		w := f.do(http.MethodPost, "/orders", tok, `{"shipping_address":"x"}`, "Idempotency-Key", "k-1")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d body=%s (expected 400 for the now empty cart)", w.Code, w.Body.String())
		}
	})
}

// A catalog loaded from the seed file is enough to place an order in memory mode.
func TestCreateOrder_FromSeededCatalog(t *testing.T) {
	f := newFixture(t)
	n, err := f.store.LoadCatalog(context.Background(), "../../deploy/catalog.yaml")
	if err != nil || n == 0 {
		t.Fatalf("load catalog: n=%d err=%v", n, err)
	}
	all, err := f.store.Products().List(context.Background(), product.Query{})
	if err != nil || len(all) == 0 {
		t.Fatalf("list: %v", err)
	}
	pid := all[0].ID
	before := f.stockOf(t, pid)

	o := f.placeOrder(t, f.token(t, uuid.NewString(), false), pid, 1)
	if o.Status != order.StatusPending || f.stockOf(t, pid) != before-1 {
		t.Fatalf("unexpected order %+v, stock=%d", o, f.stockOf(t, pid))
	}
}

func TestGetOrder_OwnerAdminAndOthers(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, uuid.NewString(), false)
	pid := f.seedProduct(t, "10.00", 5)
	o := f.placeOrder(t, owner, pid, 2)

	if w := f.do(http.MethodGet, "/orders/"+o.ID, owner, ""); w.Code != http.StatusOK {
		t.Fatalf("owner: status=%d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodGet, "/orders/"+o.ID, f.token(t, uuid.NewString(), true), ""); w.Code != http.StatusOK {
		t.Fatalf("admin: status=%d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodGet, "/orders/"+o.ID, f.token(t, uuid.NewString(), false), ""); w.Code != http.StatusForbidden {
		t.Fatalf("stranger: status=%d (expected 403)", w.Code)
	}
	if w := f.do(http.MethodGet, "/orders/"+uuid.NewString(), owner, ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing: status=%d (expected 404)", w.Code)
	}

	w := f.do(http.MethodGet, "/orders/"+o.ID+"/items", owner, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	items := decode[struct {
		Items []order.Item `json:"items"`
	}](t, w)
	if len(items.Items) != 1 || items.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", items.Items)
	}

	list := decode[order.ListResponse](t, f.do(http.MethodGet, "/orders", owner, ""))
	if len(list.Items) != 1 || list.Items[0].ID != o.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCancelOrder_RestocksAndRejectsSecondCancel(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, uuid.NewString(), false)
	pid := f.seedProduct(t, "10.00", 5)
	o := f.placeOrder(t, owner, pid, 2)

	if w := f.do(http.MethodPost, "/orders/"+o.ID+"/cancel", f.token(t, uuid.NewString(), false), ""); w.Code != http.StatusForbidden {
		t.Fatalf("stranger: status=%d (expected 403)", w.Code)
	}
	w := f.do(http.MethodPost, "/orders/"+o.ID+"/cancel", owner, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := decode[order.Order](t, w); got.Status != order.StatusCancelled {
		t.Fatalf("status=%s, expected CANCELLED", got.Status)
	}
	if f.stockOf(t, pid) != 5 {
		t.Fatalf("restock failed: stock=%d", f.stockOf(t, pid))
	}
	// cancelling again is a no-op and does not restock twice
	if w := f.do(http.MethodPost, "/orders/"+o.ID+"/cancel", owner, ""); w.Code != http.StatusOK {
		t.Fatalf("second cancel: status=%d body=%s", w.Code, w.Body.String())
	}
	if f.stockOf(t, pid) != 5 {
		t.Fatalf("double restock: stock=%d", f.stockOf(t, pid))
	}
}

func TestAdmin_StatusLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, uuid.NewString(), false)
	admin := f.token(t, uuid.NewString(), true)
	pid := f.seedProduct(t, "10.00", 5)
	o := f.placeOrder(t, owner, pid, 2)

	if w := f.do(http.MethodPut, "/admin/orders/"+o.ID+"/status", admin, `{"status":"wtf"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: status=%d (expected 400)", w.Code)
	}
	if w := f.do(http.MethodPut, "/admin/orders/"+o.ID+"/status", admin, `{"status":"SHIPPED"}`); w.Code != http.StatusConflict {
		t.Fatalf("skip ahead: status=%d (expected 409)", w.Code)
	}
	for _, s := range []string{"confirmed", "SHIPPED"} {
		w := f.do(http.MethodPut, "/admin/orders/"+o.ID+"/status", admin, `{"status":"`+s+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", s, w.Code, w.Body.String())
		}
	}
	if w := f.do(http.MethodPost, "/admin/orders/"+o.ID+"/cancel", admin, ""); w.Code != http.StatusConflict {
		t.Fatalf("cancel shipped: status=%d (expected 409)", w.Code)
	}
	if f.stockOf(t, pid) != 3 {
		t.Fatalf("stock changed without restock: %d", f.stockOf(t, pid))
	}
	if w := f.do(http.MethodDelete, "/admin/orders/"+o.ID, admin, ""); w.Code != http.StatusConflict {
		t.Fatalf("delete shipped: status=%d (expected 409)", w.Code)
	}

	w := f.do(http.MethodGet, "/admin/orders/"+o.ID+"/total", admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := decode[order.TotalResponse](t, w); !got.TotalAmount.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("total=%s, expected 20.00", got.TotalAmount)
	}

	all := decode[order.ListResponse](t, f.do(http.MethodGet, "/admin/orders", admin, ""))
	if len(all.Items) != 1 {
		t.Fatalf("admin list: %+v", all)
	}
}

func TestAdmin_CancelThenDelete(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, uuid.NewString(), false)
	admin := f.token(t, uuid.NewString(), true)
	pid := f.seedProduct(t, "10.00", 5)
	o := f.placeOrder(t, owner, pid, 3)

	if w := f.do(http.MethodPost, "/admin/orders/"+o.ID+"/cancel", admin, ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if f.stockOf(t, pid) != 5 {
		t.Fatalf("restock failed: %d", f.stockOf(t, pid))
	}
	if w := f.do(http.MethodDelete, "/admin/orders/"+o.ID, admin, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodGet, "/orders/"+o.ID, owner, ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted order still readable: status=%d", w.Code)
	}
}

func TestOperationalRoutes(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz: status=%d", w.Code)
	}
	if w := f.do(http.MethodGet, "/metrics", "", ""); w.Code != http.StatusOK {
		t.Fatalf("metrics: status=%d", w.Code)
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
}
