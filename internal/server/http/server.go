package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/David2024patton/discord-attendance-bot/internal/runtime"
	"github.com/David2024patton/discord-attendance-bot/internal/server/http/controllers"
	sessionsvc "github.com/David2024patton/discord-attendance-bot/internal/services/sessions"
)

// Server is the HTTP front end. All business logic lives in the sessions
// service; the server owns routing, CORS, and lifecycle.
type Server struct {
	rt  *runtime.Runtime
	svc *sessionsvc.Service
	srv *http.Server
	lis net.Listener
}

// New constructs a Server with a fresh sessions service.
func New(rt *runtime.Runtime) *Server {
	return NewWithService(rt, sessionsvc.New(rt))
}

// NewWithService constructs a Server around an existing service instance,
// so the CLI entrypoint can load the registry before serving.
func NewWithService(rt *runtime.Runtime, svc *sessionsvc.Service) *Server {
	mux := http.NewServeMux()
	s := &Server{rt: rt, svc: svc}
	reg := controllers.NewControllerRegistry(rt, svc)
	reg.RegisterAllRoutes(mux)
	s.srv = &http.Server{Handler: cors(mux)}
	return s
}

// Handler returns the root handler, including CORS middleware.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests with a short shutdown window.
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
