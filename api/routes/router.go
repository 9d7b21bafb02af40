package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ticketfolio/ticketfolio-backend/api/controllers"
	"github.com/ticketfolio/ticketfolio-backend/api/middleware"
	"github.com/ticketfolio/ticketfolio-backend/internal/comments"
	"github.com/ticketfolio/ticketfolio-backend/internal/tickets"
	"github.com/ticketfolio/ticketfolio-backend/pkg/config"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
	"github.com/ticketfolio/ticketfolio-backend/pkg/redis"
	"github.com/ticketfolio/ticketfolio-backend/pkg/stellar"
)

type explorerLinker interface {
	ExplorerLink(hash, kind string) string
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	kv redis.Pinger,
	ledger stellar.Pinger,
	links explorerLinker,
	gatherer prometheus.Gatherer,
	ticketsService tickets.Service,
	commentsService comments.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, kv, ledger))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/holders/{account}/tickets", func(r chi.Router) {
			r.Get("/", controllers.TicketsList(ticketsService, logg))
			r.Post("/", controllers.TicketsMint(ticketsService, logg))
			r.Delete("/", controllers.TicketsDelete(ticketsService, logg))
		})

		r.Route("/tickets/{ticketId}/comments", func(r chi.Router) {
			r.Get("/", controllers.CommentsList(commentsService, logg))
			r.Get("/count", controllers.CommentsCount(commentsService, logg))
			r.Post("/", controllers.CommentsAppend(commentsService, logg))
		})

		r.Get("/explorer/{kind}/{hash}", controllers.ExplorerLink(links, logg))
	})

	return r
}
