package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	handler := http.NewServeMux()
	cfg := &config.Config{HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 8000}}

	srv := NewHTTPServer(cfg, handler)
	if srv.Addr != "127.0.0.1:8000" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
	if srv.Handler != handler {
		t.Fatalf("expected plain handler")
	}
	if TransportMode(cfg) != "h1" {
		t.Fatalf("expected h1 transport")
	}

	cfg.HTTP.HTTP2Enabled = true
	srv = NewHTTPServer(cfg, handler)
	if srv.Handler == http.Handler(handler) {
		t.Fatalf("expected h2c wrapped handler")
	}
	if TransportMode(cfg) != "h2c" {
		t.Fatalf("expected h2c transport")
	}
}

func TestNewHTTPServerIPv6(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Host: "::1", Port: 9000}}
	if srv := NewHTTPServer(cfg, http.NewServeMux()); srv.Addr != "[::1]:9000" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: http.NewServeMux(), ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv, time.Second, func() error { return srv.Serve(listener) })
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestRunReturnsListenError(t *testing.T) {
	srv := &http.Server{}
	want := errors.New("bind failed")
	err := serve(context.Background(), srv, time.Second, func() error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected listen error, got %v", err)
	}
}
