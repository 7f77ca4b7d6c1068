package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"` // seconds
	Environment string    `json:"environment"`
	Build       string    `json:"build"`
}

func (s *Server) health(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, "server is running", healthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(s.startedAt).Seconds(),
		Environment: s.deps.Conf.Env,
		Build:       s.deps.Conf.Build,
	})
}
