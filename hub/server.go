package hub

import (
	"net/http"
	"time"

	"github.com/ipcheck/ipcheck/log"
	"github.com/ipcheck/ipcheck/rule/provider"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrBadRequest = newError("Body invalid")
)

// HTTPError is custom HTTP error for API
type HTTPError struct {
	Message string `json:"message"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func newError(msg string) *HTTPError {
	return &HTTPError{Message: msg}
}

type matchResult struct {
	Match    bool    `json:"match"`
	Cidr     *string `json:"cidr"`
	Provider string  `json:"provider,omitempty"`
}

// Server answers match queries over HTTP against a set of rule providers.
// Results are cached briefly per textual address, so a provider refresh can
// take up to the cache TTL to become visible to cached queries.
type Server struct {
	providers map[string]provider.RuleProvider
	cache     *expirable.LRU[string, matchResult]
}

func New(providers map[string]provider.RuleProvider) *Server {
	return &Server{
		providers: providers,
		cache:     expirable.NewLRU[string, matchResult](4096, nil, time.Minute),
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	corsM := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		MaxAge:         300,
	})
	r.Use(corsM.Handler)
	r.Get("/match", s.match)
	r.Get("/rules", s.rules)
	return r
}

// Start runs the controller on addr, blocking until the listener fails.
func (s *Server) Start(addr string) error {
	log.Infoln("RESTful API listening at: %s", addr)
	return http.ListenAndServe(addr, s.router())
}

func (s *Server) match(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	if ip == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrBadRequest)
		return
	}

	if cached, ok := s.cache.Get(ip); ok {
		render.JSON(w, r, cached)
		return
	}

	result := matchResult{}
	for name, rp := range s.providers {
		f := rp.Filter()
		if f == nil {
			continue
		}
		prefix, ok, err := f.Lookup(ip)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, newError(err.Error()))
			return
		}
		if ok {
			cidr := prefix.String()
			result = matchResult{Match: true, Cidr: &cidr, Provider: name}
			break
		}
	}

	s.cache.Add(ip, result)
	render.JSON(w, r, result)
}

func (s *Server) rules(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"providers": s.providers,
	})
}
