package pricefeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func chartServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func newTestYahoo(url string) *Yahoo {
	return NewYahoo(YahooOptions{
		BaseURL:   url,
		UserAgent: "test",
		Timeout:   time.Second,
	}, noopLogger())
}

func TestSpotSuccess(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[{"meta":{"symbol":"CL=F","regularMarketPrice":82.355001}}],"error":null}}`, http.StatusOK)
	defer srv.Close()

	price, err := newTestYahoo(srv.URL).Spot(context.Background(), "CL=F")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if price.String() != "82.355001" {
		t.Fatalf("expected the exact decimal literal, got %s", price.String())
	}
}

func TestSpotMissingField(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[{"meta":{"symbol":"CL=F"}}],"error":null}}`, http.StatusOK)
	defer srv.Close()

	if _, err := newTestYahoo(srv.URL).Spot(context.Background(), "CL=F"); err == nil {
		t.Fatal("missing spot field must map to an error")
	}
}

func TestSpotMalformedPayload(t *testing.T) {
	srv := chartServer(t, `{"chart":`, http.StatusOK)
	defer srv.Close()

	if _, err := newTestYahoo(srv.URL).Spot(context.Background(), "CL=F"); err == nil {
		t.Fatal("malformed payload must map to an error")
	}
}

func TestSpotHTTPError(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, http.StatusNotFound)
	defer srv.Close()

	if _, err := newTestYahoo(srv.URL).Spot(context.Background(), "CL=F"); err == nil {
		t.Fatal("non-2xx status must map to an error")
	}
}

func TestSpotRequiresSymbol(t *testing.T) {
	if _, err := newTestYahoo("http://localhost").Spot(context.Background(), ""); err == nil {
		t.Fatal("empty symbol must be rejected")
	}
}
