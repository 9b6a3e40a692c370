package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vestflow/vestflow/internal/engine"
	"github.com/vestflow/vestflow/internal/runtime"
	"github.com/vestflow/vestflow/internal/server/http/controllers"
	logpkg "github.com/vestflow/vestflow/pkg/log"
)

type Server struct {
	rt     *runtime.Runtime
	eng    *engine.Service
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

func New(rt *runtime.Runtime, eng *engine.Service, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.Nop()
	}
	mux := http.NewServeMux()
	s := &Server{rt: rt, eng: eng, logger: logger.With(logpkg.Component("http"))}
	registry := controllers.NewControllerRegistry(rt, eng)
	registry.RegisterAllRoutes(mux)
	s.srv = &http.Server{Handler: cors(s.requestID(mux))}
	return s
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Vestflow-Caller")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID tags every request with an id (honoring a caller-supplied
// X-Request-Id) and logs the method and path at debug level.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", rid)
		s.logger.Debug("request", logpkg.Str("id", rid), logpkg.Str("method", r.Method), logpkg.Str("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
