package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
	maxHeaderBytes    = 1 << 16
)

// NewHTTPServer 는 API 서버를 생성한다. HTTP/2 cleartext 가 켜져 있으면 h2c 로 감싼다.
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	if cfg.HTTP.HTTP2Enabled {
		handler = h2c.NewHandler(handler, &http2.Server{IdleTimeout: idleTimeout})
	}
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}
}

// TransportMode 는 로그에 남길 전송 방식 이름이다.
func TransportMode(cfg *config.Config) string {
	if cfg.HTTP.HTTP2Enabled {
		return "h2c"
	}
	return "h1"
}

// Run 은 ctx 가 끝날 때까지 서버를 돌리고, 끝나면 shutdownTimeout 안에 정리한다.
// 정상 종료면 nil 을 반환한다.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	return serve(ctx, srv, shutdownTimeout, srv.ListenAndServe)
}

func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, listen func() error) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- listen()
	}()

	var err error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			_ = srv.Close()
			err = <-serverErr
			return errors.Join(shutdownErr, ignoreClosed(err))
		}
		err = <-serverErr
	case err = <-serverErr:
	}
	return ignoreClosed(err)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
