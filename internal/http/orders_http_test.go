package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sellerconsole/internal/domain"
	"sellerconsole/internal/repos"
)

func TestOrders_MissingSellerGoesToLogin(t *testing.T) {
	con := newConsole(t)

	expectRedirect(t, con.get(t, "/admin/orders"), "/seller/login")
	if verify, orders := con.store.calls(); verify != 0 || orders != 0 {
		t.Fatalf("backend called without a seller id: verify=%d orders=%d", verify, orders)
	}
}

func TestOrders_MalformedSellerIsNotSentUpstream(t *testing.T) {
	con := newConsole(t)

	entries, _ := captureLogs(t, func() {
		expectRedirect(t, con.get(t, "/admin/orders?sellerId="+url.QueryEscape("x'; drop")), "/seller/login")
	})
	if verify, _ := con.store.calls(); verify != 0 {
		t.Fatal("malformed seller id reached the backend")
	}
	if !hasAction(entries, "validation.fail") {
		t.Fatal("expected validation.fail log")
	}
	rows, err := repos.NewSellerCheckRepo(con.db).ListLatest(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Outcome != repos.CheckMalformed {
		t.Fatalf("malformed id audited as %+v", rows)
	}
}

func TestOrders_RejectedSellerNeverSeesOrders(t *testing.T) {
	con := newConsole(t)

	entries, raw := captureLogs(t, func() {
		expectRedirect(t, con.get(t, "/admin/orders?sellerId=intruder"), "/seller/login")
	})
	verify, orders := con.store.calls()
	if verify != 1 {
		t.Fatalf("want one verify call, got %d", verify)
	}
	if orders != 0 {
		t.Fatal("orders fetched for an unverified seller")
	}
	if !hasAction(entries, "seller.verify.fail") {
		t.Fatal("expected seller.verify.fail log")
	}
	if strings.Contains(raw, "intruder") {
		t.Fatal("raw seller id written to the log")
	}
}

func TestOrders_BackendErrorDuringVerifyGoesToLogin(t *testing.T) {
	con := newConsole(t)
	con.store.setDown(true)

	expectRedirect(t, con.get(t, "/admin/orders?sellerId=seller-ok"), "/seller/login")
	if _, orders := con.store.calls(); orders != 0 {
		t.Fatal("orders fetched after a failed verification")
	}
}

func TestOrders_SortSearchAndDetails(t *testing.T) {
	con := newConsole(t)
	view := con.mount(t, "/admin/orders?sellerId=seller-ok")
	if !strings.HasPrefix(view, "/admin/orders/v/") {
		t.Fatalf("unexpected view path %s", view)
	}
	if strings.Contains(view, "seller-ok") {
		t.Fatal("seller id leaked into the view url")
	}
	if verify, orders := con.store.calls(); verify != 1 || orders != 1 {
		t.Fatalf("verify=%d orders=%d", verify, orders)
	}
	tok := con.csrfToken(t)

	body := con.page(t, view)
	if strings.Index(body, "<td>A2</td>") > strings.Index(body, "<td>A1</td>") {
		t.Fatal("unsorted view should keep the fetched order")
	}
	if !strings.Contains(body, "Rs. 50") || !strings.Contains(body, "badge-pending") {
		t.Fatal("price prefix or fallback status badge missing")
	}

	expectRedirect(t, con.post(t, view+"/sort", tok, url.Values{"key": {"orderId"}}), view)
	body = con.page(t, view)
	if strings.Index(body, "<td>A1</td>") > strings.Index(body, "<td>A2</td>") {
		t.Fatal("sort by orderId did not put A1 first")
	}

	expectRedirect(t, con.post(t, view+"/search", tok, url.Values{"q": {"ali"}}), view)
	body = con.page(t, view)
	if !strings.Contains(body, "<td>A1</td>") || strings.Contains(body, "<td>A2</td>") {
		t.Fatal("search for ali should show only A1")
	}

	expectRedirect(t, con.post(t, view+"/details", tok, url.Values{"id": {"A1"}}), view)
	body = con.page(t, view)
	for _, want := range []string{"Order A1", "TRK-1", "12 Park Rd", "alice@x.io", "Rs. 20"} {
		if !strings.Contains(body, want) {
			t.Fatalf("details modal missing %q", want)
		}
	}

	expectRedirect(t, con.post(t, view+"/details/close", tok, nil), view)
	if strings.Contains(con.page(t, view), "TRK-1") {
		t.Fatal("details modal still open")
	}
	if _, orders := con.store.calls(); orders != 1 {
		t.Fatalf("interactions refetched orders: %d", orders)
	}
}

func TestOrders_SearchMatchesTheQueryAsTyped(t *testing.T) {
	con := newConsole(t)
	con.store.mu.Lock()
	con.store.orders = append(con.store.orders, domain.Order{
		OrderID: "ORD:17", TrackingID: "TRK-17", Name: "Smith, J", Email: "js@x.io", Price: 5,
	})
	con.store.mu.Unlock()
	view := con.mount(t, "/admin/orders?sellerId=seller-ok")
	tok := con.csrfToken(t)

	for _, q := range []string{"ORD:17", "smith, j"} {
		loc := expectRedirect(t, con.post(t, view+"/search", tok, url.Values{"q": {q}}), view)
		if strings.Contains(loc, "notice=") {
			t.Fatalf("search %q refused: %s", q, loc)
		}
		body := con.page(t, view)
		if !strings.Contains(body, "<td>ORD:17</td>") || strings.Contains(body, "<td>A1</td>") {
			t.Fatalf("search %q should show only ORD:17", q)
		}
	}

	expectRedirect(t, con.post(t, view+"/search", tok, url.Values{"q": {" bob"}}), view)
	body := con.page(t, view)
	if strings.Contains(body, "<td>A2</td>") {
		t.Fatal("leading space was trimmed from the query")
	}

	expectRedirect(t, con.post(t, view+"/details", tok, url.Values{"id": {"ORD:17"}}), view)
	if !strings.Contains(con.page(t, view), "Order ORD:17") {
		t.Fatal("details for ORD:17 not shown")
	}
}

func TestOrders_UnknownColumnIsRejected(t *testing.T) {
	con := newConsole(t)
	view := con.mount(t, "/admin/orders?sellerId=seller-ok")
	tok := con.csrfToken(t)

	loc := expectRedirect(t, con.post(t, view+"/sort", tok, url.Values{"key": {"address"}}), view)
	if !strings.Contains(loc, "notice=badcolumn") {
		t.Fatalf("expected badcolumn notice, got %s", loc)
	}
}

func TestOrders_FetchFailureShowsEmptyTable(t *testing.T) {
	con := newConsole(t)
	con.store.mu.Lock()
	con.store.ordersDown = true
	con.store.mu.Unlock()

	resp := con.get(t, "/admin/orders?sellerId=seller-ok")
	loc := expectRedirect(t, resp, "/admin/orders/v/")
	if !strings.Contains(loc, "notice=unavailable") {
		t.Fatalf("expected unavailable notice, got %s", loc)
	}
	body := con.page(t, loc)
	if !strings.Contains(body, "No orders found.") || !strings.Contains(body, "Could not reach the store") {
		t.Fatal("empty order list or notice not rendered")
	}
}

func TestOrders_UnknownOrClosedViewGoesToLogin(t *testing.T) {
	con := newConsole(t)
	expectRedirect(t, con.get(t, "/admin/orders/v/does-not-exist"), "/seller/login")

	view := con.mount(t, "/admin/orders?sellerId=seller-ok")
	tok := con.csrfToken(t)
	expectRedirect(t, con.post(t, view+"/close", tok, nil), "/seller/login")
	if con.deps.OrderViews.Len() != 0 {
		t.Fatal("closed view still registered")
	}
	expectRedirect(t, con.get(t, view), "/seller/login")
}

func TestOrders_PostWithoutCSRFIsForbidden(t *testing.T) {
	con := newConsole(t)
	view := con.mount(t, "/admin/orders?sellerId=seller-ok")

	req := httptest.NewRequest(http.MethodPost, view+"/sort", strings.NewReader("key=orderId"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := con.do(t, req)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf, got %d", resp.StatusCode)
	}
}
