package location

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	cachemem "github.com/dropDatabas3/sessiond/internal/cache/memory"
)

func geoServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"success","countryCode":"UY","country":"Uruguay","regionName":"Montevideo","city":"Montevideo"}`)
	}))
}

func TestResolvePublicIP(t *testing.T) {
	var hits int32
	srv := geoServer(t, &hits)
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, nil, time.Hour)
	loc := r.Resolve(context.Background(), "203.0.113.10")

	if loc.IP != "203.0.113.10" || loc.CountryCode != "UY" || loc.City != "Montevideo" {
		t.Fatalf("location = %+v", loc)
	}
	if loc.Country != "Uruguay" || loc.Region != "Montevideo" {
		t.Fatalf("location = %+v", loc)
	}
}

// La segunda resolución de la misma IP sale del cache sin tocar el servicio.
func TestResolveCached(t *testing.T) {
	var hits int32
	srv := geoServer(t, &hits)
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, cachemem.New(time.Minute), time.Hour)
	ctx := context.Background()

	first := r.Resolve(ctx, "203.0.113.10")
	second := r.Resolve(ctx, "203.0.113.10")

	if first != second {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("upstream hits = %d, want 1", n)
	}
}

// IPs no ruteables no se consultan: el servicio externo no puede resolverlas.
func TestResolveSkipsNonPublicIPs(t *testing.T) {
	var hits int32
	srv := geoServer(t, &hits)
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, nil, time.Hour)
	ctx := context.Background()

	for _, ip := range []string{"", "127.0.0.1", "10.0.0.5", "192.168.1.1", "169.254.0.1", "0.0.0.0", "not-an-ip"} {
		loc := r.Resolve(ctx, ip)
		if loc.IP != ip || loc.Country != "" {
			t.Fatalf("ip %q: %+v", ip, loc)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("upstream hits = %d, want 0", n)
	}
}

// Ante un upstream caído la resolución degrada a solo-IP, nunca falla.
func TestResolveDegradesOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, nil, time.Hour)
	loc := r.Resolve(context.Background(), "203.0.113.10")
	if loc.IP != "203.0.113.10" || loc.Country != "" || loc.City != "" {
		t.Fatalf("location = %+v", loc)
	}
}

func TestResolveFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"fail","message":"reserved range"}`)
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, nil, time.Hour)
	loc := r.Resolve(context.Background(), "203.0.113.10")
	if loc.Country != "" || loc.CountryCode != "" {
		t.Fatalf("location = %+v", loc)
	}
}
