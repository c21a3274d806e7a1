package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trip_category/internal/adapters/booking"
	server "trip_category/internal/adapters/http_server"
	"trip_category/internal/domain"
)

// ---- fakes ----

type fakeCategories struct {
	listing domain.CategoryListing
	change  domain.CategoryChange
	err     error

	gotRef   domain.ModuleRef
	gotRefID string
}

func (f *fakeCategories) ListCategories(ctx context.Context, ref domain.ModuleRef) (domain.CategoryListing, error) {
	f.gotRef = ref
	return f.listing, f.err
}

func (f *fakeCategories) ChooseCategory(ctx context.Context, ref domain.ModuleRef, refID string) (domain.CategoryChange, error) {
	f.gotRef, f.gotRefID = ref, refID
	return f.change, f.err
}

func newServer(f *fakeCategories) http.Handler {
	srv := server.New(5 * time.Second)
	srv.MountHandlers(server.NewHandlers(f))
	return srv.Mux()
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ---- tests ----

func TestListCategories_OKAndETag(t *testing.T) {
	f := &fakeCategories{listing: domain.CategoryListing{
		TripID: "t1", ModuleID: "base", SelectedRefID: "2*",
		Options: []domain.CategoryOption{{
			Name: "3 stars", RefID: "3*",
			PriceInfo: domain.AggregatePriceInfo{
				Name: "3 stars", RefID: "3*",
				DiffSalesPrice: domain.NewPriceInfo(decimal.NewFromInt(50), "EUR"),
			},
		}},
	}}
	h := newServer(f)

	rr := do(t, h, http.MethodGet, "/v1/trips/t1/modules/base/hotel-categories", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if f.gotRef != (domain.ModuleRef{TripID: "t1", ModuleID: "base"}) {
		t.Fatalf("unexpected ref: %+v", f.gotRef)
	}
	var body struct {
		SelectedRefID string `json:"selectedRefId"`
		Options       []struct {
			RefID     string `json:"refId"`
			PriceInfo struct {
				DiffSalesPrice struct {
					Signed string `json:"signedCurrencyValueString"`
				} `json:"diffSalesPrice"`
			} `json:"priceInfo"`
		} `json:"options"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SelectedRefID != "2*" || len(body.Options) != 1 || body.Options[0].PriceInfo.DiffSalesPrice.Signed != "+EUR 50" {
		t.Fatalf("unexpected body: %+v", body)
	}

	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	rr = do(t, h, http.MethodGet, "/v1/trips/t1/modules/base/hotel-categories", "", map[string]string{"If-None-Match": etag})
	if rr.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr.Code)
	}
}

func TestChooseCategory(t *testing.T) {
	f := &fakeCategories{change: domain.CategoryChange{TripID: "t1", ModuleID: "base", RefID: "3*",
		Receipt: domain.ChangeReceipt{RequestID: "req-1", Status: "pending"}}}
	h := newServer(f)

	rr := do(t, h, http.MethodPut, "/v1/trips/t1/modules/base/hotel-category", `{"refId":"3*"}`, nil)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if f.gotRefID != "3*" {
		t.Fatalf("refId not passed: %q", f.gotRefID)
	}

	f.change.Unchanged = true
	rr = do(t, h, http.MethodPut, "/v1/trips/t1/modules/base/hotel-category", `{"refId":"3*"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unchanged: status %d", rr.Code)
	}
}

func TestChooseCategory_InvalidBody(t *testing.T) {
	h := newServer(&fakeCategories{})
	for _, body := range []string{``, `{`, `{"refId":""}`, fmt.Sprintf(`{"refId":%q}`, strings.Repeat("x", 65))} {
		rr := do(t, h, http.MethodPut, "/v1/trips/t1/modules/base/hotel-category", body, nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("content type %q", ct)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: refId=\"4*\"", domain.ErrCategoryNotFound), http.StatusNotFound},
		{booking.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("group 1: %w", domain.ErrNoMatchingRoom), http.StatusConflict},
		{domain.ErrEmptySelection, http.StatusConflict},
		{domain.ErrCurrencyMismatch, http.StatusConflict},
		{domain.ErrNoSelection, http.StatusConflict},
		{booking.ErrConflict, http.StatusConflict},
		{errors.New("remote 503"), http.StatusBadGateway},
	}
	for _, c := range cases {
		h := newServer(&fakeCategories{err: c.err})
		rr := do(t, h, http.MethodGet, "/v1/trips/t1/modules/base/hotel-categories", "", nil)
		if rr.Code != c.status {
			t.Fatalf("%v: expected %d, got %d", c.err, c.status, rr.Code)
		}
		rr = do(t, h, http.MethodPut, "/v1/trips/t1/modules/base/hotel-category", `{"refId":"3*"}`, nil)
		if rr.Code != c.status {
			t.Fatalf("%v (choose): expected %d, got %d", c.err, c.status, rr.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	rr := do(t, newServer(&fakeCategories{}), http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rr.Code, rr.Body.String())
	}
}
