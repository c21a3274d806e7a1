//go:build integration || !unit

package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"trip_category/internal/adapters/booking"
	server "trip_category/internal/adapters/http_server"
	redisad "trip_category/internal/adapters/redis"
	"trip_category/internal/app"
	mysqlrepo "trip_category/internal/storage/mysql"
)

// ---------- helpers ----------

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no .sql files in %s (err=%v)", dir, err)
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=inventory"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/inventory?parseTime=true&multiStatements=true&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ---------- the test ----------

func TestHTTP_EndToEnd_SwitchCategory(t *testing.T) {
	db := startMySQL(t)
	applyMigrations(t, db)

	// one double room booked in 2*, offer has 2* and 4*
	for _, q := range []string{
		`INSERT INTO room_offers VALUES ('t9','base',0,0,'2*','2 stars','double',2,2,2,2,'EUR',200,100,0,0)`,
		`INSERT INTO room_offers VALUES ('t9','base',1,0,'4*','4 stars','double',2,2,2,2,'EUR',320,160,120,60)`,
		`INSERT INTO module_components VALUES ('t9','base',0,0,'2*','double',2,2,2,2)`,
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// booking service stub only receives the change
	var changes int32
	var sent struct {
		RefIDs []string `json:"refIds"`
	}
	bookingSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || !strings.HasSuffix(r.URL.Path, "/trips/t9/modules/base/rooms") {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&changes, 1)
		_ = json.NewDecoder(r.Body).Decode(&sent)
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"requestId":"r-9","status":"pending"}`)
	}))
	defer bookingSrv.Close()
	bk, err := booking.New(bookingSrv.URL, "k", 100)
	if err != nil {
		t.Fatalf("booking client: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	defer cache.Close()

	repo := mysqlrepo.New(db)
	svc := app.NewCategoryService(repo, repo, bk, cache, time.Minute)
	srv := server.New(5 * time.Second)
	srv.MountHandlers(server.NewHandlers(svc))
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// list
	res, err := http.Get(ts.URL + "/v1/trips/t9/modules/base/hotel-categories")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var listing struct {
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
	if err := json.NewDecoder(res.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.SelectedRefID != "2*" || len(listing.Options) != 2 ||
		listing.Options[1].PriceInfo.DiffSalesPrice.Signed != "+EUR 120" {
		t.Fatalf("unexpected listing: %+v", listing)
	}
	if !mr.Exists("tripcat:offers:t9:base") {
		t.Fatalf("expected offers to be cached")
	}

	// switch
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/v1/trips/t9/modules/base/hotel-category", strings.NewReader(`{"refId":"4*"}`))
	req.Header.Set("Content-Type", "application/json")
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusAccepted {
		b, _ := io.ReadAll(res2.Body)
		t.Fatalf("status %d: %s", res2.StatusCode, b)
	}
	if atomic.LoadInt32(&changes) != 1 || len(sent.RefIDs) != 1 || sent.RefIDs[0] != "4*" {
		t.Fatalf("unexpected booking call: n=%d body=%+v", changes, sent)
	}
	if mr.Exists("tripcat:offers:t9:base") {
		t.Fatalf("expected offers cache to be invalidated")
	}
}
