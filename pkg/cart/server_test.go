package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/presentation"
)

type fakeItems map[catalog.ItemId]catalog.Item

func (f fakeItems) Get(id catalog.ItemId) (catalog.Item, bool) {
	item, ok := f[id]
	return item, ok
}

type cartClient struct {
	t       *testing.T
	mux     *http.ServeMux
	cookies []*http.Cookie
}

func newCartClient(t *testing.T) *cartClient {
	srv := &CartServer{
		Registry: NewRegistry(newMemoryStorage()),
		Items: fakeItems{
			1: itemA,
			2: itemB,
		},
		Gateway: presentation.LogGateway{},
	}
	return &cartClient{t: t, mux: srv.CartHandler()}
}

func (c *cartClient) do(method, target, body string) (*httptest.ResponseRecorder, Cart) {
	c.t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.mux.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = append(c.cookies, cookies...)
	}
	var cart Cart
	json.Unmarshal(rec.Body.Bytes(), &cart)
	return rec, cart
}

func TestCartHandlerAddAndGet(t *testing.T) {
	client := newCartClient(t)

	rec, cart := client.do("POST", "/", `{"id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status %d: %s", rec.Code, rec.Body.String())
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 1 || cart.Total != 10.00 {
		t.Fatalf("unexpected cart after add: %+v", cart)
	}

	// Same cookie, quantity input beyond one.
	rec, cart = client.do("POST", "/", `{"id":2,"quantity":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status %d", rec.Code)
	}
	if len(cart.Lines) != 2 || cart.Lines[1].Quantity != 3 || cart.Total != 26.50 {
		t.Fatalf("unexpected cart after quantity add: %+v", cart)
	}

	rec, cart = client.do("GET", "/", "")
	if rec.Code != http.StatusOK || len(cart.Lines) != 2 {
		t.Fatalf("get status %d, cart %+v", rec.Code, cart)
	}
}

func TestCartHandlerAddQuantityWithFailingStorage(t *testing.T) {
	storage := newMemoryStorage()
	storage.failSaves = true
	srv := &CartServer{
		Registry: NewRegistry(storage),
		Items:    fakeItems{1: itemA},
		Gateway:  presentation.LogGateway{},
	}
	client := &cartClient{t: t, mux: srv.CartHandler()}

	rec, cart := client.do("POST", "/", `{"id":1,"quantity":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status %d: %s", rec.Code, rec.Body.String())
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 3 || cart.Total != 30.00 {
		t.Fatalf("requested quantity lost on persist failure: %+v", cart)
	}
	if _, cart := client.do("GET", "/", ""); len(cart.Lines) != 1 || cart.Lines[0].Quantity != 3 {
		t.Fatalf("in-memory cart should stay authoritative: %+v", cart)
	}
}

func TestCartHandlerAddUnknownItem(t *testing.T) {
	client := newCartClient(t)
	rec, _ := client.do("POST", "/", `{"id":42}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", rec.Code)
	}
}

func TestCartHandlerChangeAndRemove(t *testing.T) {
	client := newCartClient(t)
	client.do("POST", "/", `{"id":1}`)
	client.do("POST", "/", `{"id":1}`)

	rec, cart := client.do("PUT", "/", `{"id":1,"delta":-1}`)
	if rec.Code != http.StatusOK || cart.Lines[0].Quantity != 1 {
		t.Fatalf("change status %d, cart %+v", rec.Code, cart)
	}

	// Delta on an item that has no line fails loudly.
	rec, _ = client.do("PUT", "/", `{"id":2,"delta":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing line, got %d", rec.Code)
	}

	rec, cart = client.do("DELETE", "/1", "")
	if rec.Code != http.StatusOK || len(cart.Lines) != 0 {
		t.Fatalf("remove status %d, cart %+v", rec.Code, cart)
	}
}

func TestCartHandlerCheckoutNeedsConfirmation(t *testing.T) {
	client := newCartClient(t)
	client.do("POST", "/", `{"id":1}`)
	client.do("POST", "/", `{"id":2}`)

	rec, _ := client.do("POST", "/checkout", `{}`)
	var res CheckoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Paid || !res.RequiresConfirmation || res.Total != 15.50 {
		t.Fatalf("unexpected unconfirmed checkout response %+v", res)
	}
	// The cart is untouched until confirmed.
	if _, cart := client.do("GET", "/", ""); len(cart.Lines) != 2 {
		t.Fatal("cart cleared without confirmation")
	}

	rec, _ = client.do("POST", "/checkout", `{"confirm":true}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Paid || res.Total != 15.50 {
		t.Fatalf("unexpected confirmed checkout response %+v", res)
	}
	if _, cart := client.do("GET", "/", ""); len(cart.Lines) != 0 || cart.Total != 0 {
		t.Fatal("cart not empty after checkout")
	}
}
