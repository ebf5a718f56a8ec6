package health

import (
	"context"
	"fmt"
	"time"

	dto "github.com/dropDatabas3/hellomail/internal/http/dto/health"
	"github.com/dropDatabas3/hellomail/internal/jwt"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// checkTimeout acota cada chequeo de componente.
const checkTimeout = 3 * time.Second

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Version    string
	Issuer     *jwt.Issuer
	StoreCheck func(ctx context.Context) error // crítico
	CacheCheck func(ctx context.Context) error // opcional
	CacheKind  string
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Store (crítico)
	if s.deps.StoreCheck != nil {
		if err := probe(ctx, s.deps.StoreCheck); err != nil {
			response.Components["store"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasCriticalErrors = true
			log.Error("store unavailable", logger.Err(err))
		} else {
			response.Components["store"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["store"] = dto.HealthStatus{
			Status:  "error",
			Message: "store not initialized",
		}
		hasCriticalErrors = true
	}

	// 2) Firma JWT (crítico)
	if err := s.checkSigner(); err != nil {
		response.Components["jwt"] = dto.HealthStatus{
			Status:  "error",
			Message: err.Error(),
		}
		hasCriticalErrors = true
		log.Error("jwt self-check failed", logger.Err(err))
	} else {
		response.Components["jwt"] = dto.HealthStatus{Status: "ok"}
	}

	// 3) Cache (no crítico)
	if s.deps.CacheCheck != nil {
		if err := probe(ctx, s.deps.CacheCheck); err != nil {
			response.Components["cache"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("%s unavailable: %v", s.deps.CacheKind, err),
			}
			hasErrors = true
			log.Warn("cache unavailable", logger.Err(err))
		} else {
			response.Components["cache"] = dto.HealthStatus{Status: "ok", Message: s.deps.CacheKind}
		}
	} else {
		response.Components["cache"] = dto.HealthStatus{Status: "disabled"}
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}

	return response
}

// checkSigner firma y verifica un token efímero con el issuer configurado.
func (s *healthService) checkSigner() error {
	if s.deps.Issuer == nil {
		return fmt.Errorf("issuer not initialized")
	}
	tok, _, err := s.deps.Issuer.Sign("selfcheck", "selfcheck@health")
	if err != nil {
		return fmt.Errorf("sign failed: %w", err)
	}
	if _, err := s.deps.Issuer.Parse(tok); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	return nil
}

func probe(ctx context.Context, check func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return check(cctx)
}
