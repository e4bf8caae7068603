package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
)

var guardTracer = otel.Tracer("service/guard")

// Guard evaluates every navigation against the session, the tenant's enabled
// modules and the route table, producing a single terminal decision. It holds
// no state of its own; the only side effects are the profile fetch and the
// session reset it may trigger.
type Guard struct {
	session *Session
	tenant  port.ModuleChecker
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewGuard(session *Session, tenant port.ModuleChecker, metrics *observability.Metrics, logger *zap.Logger) *Guard {
	return &Guard{
		session: session,
		tenant:  tenant,
		metrics: metrics,
		logger:  logger,
	}
}

// Evaluate decides whether a navigation to path may proceed.
func (g *Guard) Evaluate(ctx context.Context, path string) domain.Decision {
	ctx, span := guardTracer.Start(ctx, "Guard.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("nav.path", path))

	decision := g.evaluate(ctx, path)

	g.metrics.IncrGuardDecision(string(decision.Outcome))
	g.logger.Debug("guard: navigation evaluated",
		zap.String("path", path),
		zap.String("outcome", string(decision.Outcome)),
		zap.String("location", decision.Location),
	)
	span.SetAttributes(attribute.String("nav.outcome", string(decision.Outcome)))
	return decision
}

func (g *Guard) evaluate(ctx context.Context, path string) domain.Decision {
	target := LookupRoute(path)

	if g.session.Token() == "" {
		if IsLoginPath(path) {
			return proceed()
		}
		return redirectLogin(path)
	}

	if IsLoginPath(path) {
		return domain.Decision{Outcome: domain.OutcomeRedirectHome, Location: "/"}
	}

	if g.session.HasProfile() {
		return g.checkModule(target)
	}

	// Token without a profile: the process restarted or the first
	// authenticated navigation is happening now.
	if g.session.FetchProfile(ctx) {
		return g.checkModule(target)
	}

	g.session.Reset()
	return redirectLogin(path)
}

func (g *Guard) checkModule(target domain.Target) domain.Decision {
	if target.RequiredModule != "" && !g.tenant.IsModuleAvailable(target.RequiredModule) {
		return domain.Decision{Outcome: domain.OutcomeRedirectNotFound, Location: "/404"}
	}
	return proceed()
}

func proceed() domain.Decision {
	return domain.Decision{Outcome: domain.OutcomeProceed}
}

func redirectLogin(path string) domain.Decision {
	return domain.Decision{
		Outcome:  domain.OutcomeRedirectLogin,
		Location: "/login?redirect=" + path,
	}
}
