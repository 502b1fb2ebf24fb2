package wvhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/weegigs/wee-visitors-go/metrics"
	"github.com/weegigs/wee-visitors-go/visits"
)

type HandlerOption func(service *httpService)

func Logger(log *zerolog.Logger) HandlerOption {
	return func(service *httpService) {
		service.log = log
	}
}

// AllowedOrigin sets the Access-Control-Allow-Origin returned with counts.
func AllowedOrigin(origin string) HandlerOption {
	return func(service *httpService) {
		service.origin = origin
	}
}

func NewHandler(counter visits.Counter, options ...HandlerOption) http.Handler {
	service := &httpService{counter: counter, origin: "*"}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(service.cors)

		r.Method("GET", "/visitors-count", service.countVisitor())
		r.Method("GET", "/visitors-count/current", service.currentVisitors())
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	return otelhttp.NewHandler(r, "wv-http")
}

type httpService struct {
	log     *zerolog.Logger
	counter visits.Counter
	origin  string
}

func (service *httpService) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if service.origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", service.origin)
		}
		next.ServeHTTP(w, r)
	})
}

func (service *httpService) countVisitor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := service.counter.Increment(r.Context())
		if err != nil {
			service.log.Error().Err(err).Msg("failed to count visitor")
			http.Error(w, "failed to count visitor", http.StatusInternalServerError)
			return
		}

		metrics.Visits.WithLabelValues("http").Inc()
		render.JSON(w, r, visits.CountResource{Count: count})
	}
}

func (service *httpService) currentVisitors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := service.counter.Current(r.Context())
		if err != nil {
			service.log.Error().Err(err).Msg("failed to load visitors")
			http.Error(w, "failed to load visitors", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, visits.CountResource{Count: count})
	}
}
