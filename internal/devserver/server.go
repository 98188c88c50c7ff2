// Package devserver is an in-memory backend speaking the same envelope
// protocol as the production API. The CLI serves it with `serve` and the
// integration tests run the client stack against it.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/validation"
)

const (
	DefaultAddr = "127.0.0.1:8080"

	codeOK           = 200
	codeBadRequest   = 400
	codeUnauthorized = 401
	codeNotFound     = 404
)

type Config struct {
	Addr     string
	// Token, when set, must be presented as a bearer token on every /api call.
	Token    string
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

type envelope struct {
	Code    int    `json:"code"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

type Server struct {
	cfg      Config
	store    *Store
	validate *validation.Validator
	engine   *gin.Engine
	served   *prometheus.CounterVec
}

func New(cfg Config, store *Store) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if store == nil {
		store = NewStore()
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		validate: validation.New(),
		served: promauto.With(cfg.Registry).NewCounterVec(prometheus.CounterOpts{
			Namespace: "cookadmin",
			Subsystem: "devserver",
			Name:      "requests_total",
			Help:      "Requests served by route and envelope code.",
		}, []string{"route", "code"}),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api", s.requireToken())

	api.GET("/ingredientsCategories/getList", func(c *gin.Context) {
		s.ok(c, s.store.Categories())
	})
	api.POST("/ingredientsCategories/add", func(c *gin.Context) {
		in, ok := bind[domain.CreateIngredientCategory](s, c)
		if !ok {
			return
		}
		s.ok(c, s.store.AddCategory(in))
	})
	api.PUT("/ingredientsCategories/update", func(c *gin.Context) {
		in, ok := bind[domain.UpdateIngredientCategory](s, c)
		if !ok {
			return
		}
		rec, err := s.store.UpdateCategory(in)
		s.respond(c, rec, err)
	})
	api.DELETE("/ingredientsCategories/delete", func(c *gin.Context) {
		in, ok := bind[domain.DeleteRequest](s, c)
		if !ok {
			return
		}
		s.respond(c, in, s.store.DeleteCategory(in.ID))
	})

	api.GET("/ingredients/getList", func(c *gin.Context) {
		s.ok(c, s.store.Ingredients())
	})
	api.POST("/ingredients/add", func(c *gin.Context) {
		in, ok := bind[domain.CreateIngredient](s, c)
		if !ok {
			return
		}
		rec, err := s.store.AddIngredient(in)
		s.respond(c, rec, err)
	})
	api.PUT("/ingredients/update", func(c *gin.Context) {
		in, ok := bind[domain.UpdateIngredient](s, c)
		if !ok {
			return
		}
		rec, err := s.store.UpdateIngredient(in)
		s.respond(c, rec, err)
	})
	api.DELETE("/ingredients/delete", func(c *gin.Context) {
		in, ok := bind[domain.DeleteRequest](s, c)
		if !ok {
			return
		}
		s.respond(c, in, s.store.DeleteIngredient(in.ID))
	})

	api.GET("/dishCategories/getList", func(c *gin.Context) {
		s.ok(c, s.store.DishCategories())
	})
	api.POST("/dishCategories/add", func(c *gin.Context) {
		in, ok := bind[domain.CreateDishCategory](s, c)
		if !ok {
			return
		}
		s.ok(c, s.store.AddDishCategory(in))
	})
	api.PUT("/dishCategories/update", func(c *gin.Context) {
		in, ok := bind[domain.UpdateDishCategory](s, c)
		if !ok {
			return
		}
		rec, err := s.store.UpdateDishCategory(in)
		s.respond(c, rec, err)
	})
	api.DELETE("/dishCategories/delete", func(c *gin.Context) {
		in, ok := bind[domain.DeleteRequest](s, c)
		if !ok {
			return
		}
		s.respond(c, in, s.store.DeleteDishCategory(in.ID))
	})

	return r
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("dev backend listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func bind[T any](s *Server, c *gin.Context) (T, bool) {
	var in T
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, http.StatusOK, codeBadRequest, "malformed request body")
		return in, false
	}
	if err := s.validate.Struct(in); err != nil {
		s.fail(c, http.StatusOK, codeBadRequest, err.Error())
		return in, false
	}
	return in, true
}

func (s *Server) ok(c *gin.Context, data any) {
	s.served.WithLabelValues(c.FullPath(), strconv.Itoa(codeOK)).Inc()
	c.JSON(http.StatusOK, envelope{Code: codeOK, Data: data, Message: "success"})
}

// respond maps store errors onto envelope codes. Application failures still
// travel with HTTP 200.
func (s *Server) respond(c *gin.Context, data any, err error) {
	switch {
	case err == nil:
		s.ok(c, data)
	case errors.Is(err, ErrNotFound):
		s.fail(c, http.StatusOK, codeNotFound, err.Error())
	default:
		s.fail(c, http.StatusOK, codeBadRequest, err.Error())
	}
}

func (s *Server) fail(c *gin.Context, status, code int, message string) {
	s.served.WithLabelValues(c.FullPath(), strconv.Itoa(code)).Inc()
	c.AbortWithStatusJSON(status, envelope{Code: code, Message: message})
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.Token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token != s.cfg.Token {
			s.fail(c, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.cfg.Logger.Debug("served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-Id")),
			zap.Duration("elapsed", time.Since(start)))
	}
}
