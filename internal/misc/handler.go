package misc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/formfit/internal/telemetry/tracing"
	"github.com/2beens/formfit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency checked by the health endpoint (db, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
	Version      string            `json:"version"`
}

type Handler struct {
	versionInfo  string
	dependencies map[string]Pinger
}

func NewHandler(versionInfo string, dependencies map[string]Pinger) *Handler {
	return &Handler{
		versionInfo:  versionInfo,
		dependencies: dependencies,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		log.Errorf("failed to get user IP address: %s", err)
		http.Error(w, "failed to get IP", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, ip)
}

// handleHealth pings all the dependencies; any failing one makes the service unhealthy.
func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:       "ok",
		Dependencies: make(map[string]string, len(handler.dependencies)),
		Version:      handler.versionInfo,
	}
	statusCode := http.StatusOK
	for name, dep := range handler.dependencies {
		if err := dep.Ping(ctx); err != nil {
			log.Errorf("health check, %s: %s", name, err)
			resp.Dependencies[name] = err.Error()
			resp.Status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "ok"
	}
	if statusCode != http.StatusOK {
		span.SetStatus(codes.Error, "unhealthy")
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal health response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, statusCode)
}
