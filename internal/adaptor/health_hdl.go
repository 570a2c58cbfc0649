package adaptor

import (
	"context"
	"net/http"
	"time"

	"polyglot-booking/pkg/utils"

	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing dependency. Only critical checks can mark
// the service unhealthy.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// Banner is the self-description served on GET /.
type Banner struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Storage   string            `json:"database"`
	Patterns  []string          `json:"patterns"`
	Endpoints map[string]string `json:"endpoints"`
}

type HealthHandler struct {
	service string
	banner  Banner
	checks  []HealthCheck
	now     func() time.Time
	log     *zap.Logger
}

func NewHealthHandler(service string, banner Banner, checks []HealthCheck, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		banner:  banner,
		checks:  checks,
		now:     time.Now,
		log:     log.With(zap.String("handler", "health")),
	}
}

// Index handles GET /
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, h.banner.Message, h.banner)
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	body := map[string]any{
		"service":   h.service,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	}

	healthy := true
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.log.Warn("Health check failed", zap.String("check", c.Name), zap.Error(err))
			body[c.Name] = "unavailable"
			if c.Critical {
				healthy = false
			}
			continue
		}
		body[c.Name] = "connected"
	}

	if !healthy {
		body["status"] = "DEGRADED"
		utils.ResponseUnavailable(w, "Service unhealthy", body)
		return
	}

	body["status"] = "OK"
	utils.ResponseSuccess(w, "Service healthy", body)
}
