package observability_test

import (
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trip_category/internal/adapters/observability"
)

func scrape(t *testing.T) string {
	t.Helper()
	reg := observability.InitRegistry()
	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	return string(body)
}

func TestMetricsRegistryAndHandler(t *testing.T) {
	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveReconcile("list", "ok")
	observability.ObserveReconcile("choose", "no_matching_room")
	observability.ObserveSwitch("requested")

	out := scrape(t)
	for _, want := range []string{
		"tripcat_http_requests_total",
		`tripcat_reconcile_outcomes_total{operation="list",outcome="ok"}`,
		`tripcat_reconcile_outcomes_total{operation="choose",outcome="no_matching_room"}`,
		`tripcat_category_switches_total{status="requested"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestLabelErr(t *testing.T) {
	if got := observability.LabelErr(nil); got != "none" {
		t.Fatalf("nil err label: %q", got)
	}
	if got := observability.LabelErr(errors.New("boom")); got != "*errors.errorString" {
		t.Fatalf("err label: %q", got)
	}
}

func TestServeExposesServiceRegistry(t *testing.T) {
	if observability.Serve("", observability.InitRegistry()) != nil {
		t.Fatalf("empty addr should disable the metrics server")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	reg := observability.InitRegistry()
	observability.ObserveReconcile("list", "ok")
	srv := observability.Serve(addr, reg)
	defer srv.Close()

	var body string
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("metrics status: %d", resp.StatusCode)
			}
			body = string(b)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("metrics server not reachable: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if !strings.Contains(body, `tripcat_reconcile_outcomes_total{operation="list",outcome="ok"}`) {
		t.Fatalf("side server does not expose service metrics:\n%s", body)
	}
}
