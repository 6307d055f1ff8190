// Package main provides the governance API server implementation.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/RMF112018/project-controls/pkg/eventbus"
	"github.com/RMF112018/project-controls/pkg/flags"
	"github.com/RMF112018/project-controls/pkg/guard"
	"github.com/RMF112018/project-controls/pkg/otelhelper"
	"github.com/RMF112018/project-controls/pkg/persistence"
	"github.com/RMF112018/project-controls/pkg/resolver"
	"github.com/RMF112018/project-controls/pkg/services"
	"github.com/RMF112018/project-controls/pkg/templatesync"
	"github.com/RMF112018/project-controls/pkg/web"
)

type API struct {
	logger          *slog.Logger
	persistence     persistence.Persistence
	eventBus        eventbus.EventBus
	provisioningURL string
	validate        *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	provisioningURL string,
) *API {
	return &API{
		logger:          logger,
		persistence:     persistence,
		eventBus:        eventBus,
		provisioningURL: provisioningURL,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App(ctx context.Context) *fiber.App {
	flagRegistry := flags.NewRegistry(a.persistence.FeatureFlags(), a.logger)
	stepResolver := resolver.NewWorkflowStepResolver(a.persistence, flagRegistry, a.logger)
	permissionResolver := resolver.NewPermissionResolver(a.persistence, a.logger)
	limiter := guard.NewDefaultRateLimiter()

	coordinator := templatesync.NewCoordinator(
		a.persistence.SharedTemplates(),
		templatesync.NewLockTable(),
		a.newSyncer(),
		a.logger,
		a.newTracer(ctx),
	)

	workflowService := services.NewWorkflow(a.persistence, stepResolver, limiter, a.eventBus, a.logger)
	permissionService := services.NewPermission(permissionResolver)
	roleService := services.NewRole(a.persistence, permissionResolver, limiter, a.eventBus, a.logger)
	templateService := services.NewTemplate(a.persistence, coordinator, limiter, a.eventBus, a.logger)

	handlers := web.NewAPIHandlers(workflowService, permissionService, roleService, templateService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Governance API")
	})

	w := app.Group("/workflows")
	w.Get("/:key/steps", handlers.ResolveWorkflowSteps)
	w.Post("/definitions", handlers.ImportWorkflowDefinition)

	o := app.Group("/overrides")
	o.Post("/", handlers.SetOverride)
	o.Delete("/:projectCode/:stepId", handlers.RemoveOverride)

	p := app.Group("/permissions")
	p.Get("/:email", handlers.ResolvePermissions)
	p.Get("/:email/projects", handlers.AccessibleProjects)

	r := app.Group("/roles")
	r.Get("/", handlers.ListRoles)
	r.Post("/", handlers.CreateRole)
	r.Get("/:id", handlers.GetRole)
	r.Patch("/:id", handlers.UpdateRole)
	r.Delete("/:id", handlers.DeactivateRole)

	t := app.Group("/templates")
	t.Get("/:id", handlers.GetTemplate)
	t.Post("/:id/sync", handlers.SyncTemplate)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(ctx context.Context, port int) error {
	app := a.App(ctx)

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}

func (a *API) newSyncer() templatesync.Syncer {
	if a.provisioningURL == "" {
		return templatesync.NewLogSyncer(a.logger)
	}

	return templatesync.NewHTTPSyncer(a.provisioningURL)
}

func (a *API) newTracer(ctx context.Context) trace.Tracer {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return otelhelper.NewNoopTracer()
	}

	tracer, err := otelhelper.NewTracer(ctx, "governance-api")
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to initialize tracer, tracing disabled", "error", err)

		return otelhelper.NewNoopTracer()
	}

	return tracer
}
