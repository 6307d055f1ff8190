package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/RMF112018/project-controls/pkg/guard"
	"github.com/RMF112018/project-controls/pkg/persistence"
	"github.com/RMF112018/project-controls/pkg/services"
	"github.com/RMF112018/project-controls/pkg/templatesync"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps engine errors to RFC 7807 responses. Guard failures
// get distinct statuses so UI callers can branch without string matching.
func handleServiceError(c fiber.Ctx, err error) error {
	var contentErr *templatesync.ContentValidationError
	if errors.As(err, &contentErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"type":       "content_validation_error",
			"detail":     "template content failed validation",
			"violations": contentErr.Violations,
		})
	}

	switch {
	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case services.IsConflictError(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("conflict").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case guard.IsEscalation(err):
		problem := problems.NewStatusProblem(403).
			WithInstance(c.Path()).
			WithType("permission_escalation").
			WithDetail(err.Error())

		return c.Status(fiber.StatusForbidden).JSON(problem)

	case guard.IsRateLimited(err):
		problem := problems.NewStatusProblem(429).
			WithInstance(c.Path()).
			WithType("rate_limited").
			WithDetail(err.Error())

		return c.Status(fiber.StatusTooManyRequests).JSON(problem)

	case templatesync.IsTransitionError(err), templatesync.IsLockError(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("sync_conflict").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case templatesync.IsInsufficientApprovals(err):
		problem := problems.NewStatusProblem(412).
			WithInstance(c.Path()).
			WithType("insufficient_approvals").
			WithDetail(err.Error())

		return c.Status(fiber.StatusPreconditionFailed).JSON(problem)

	case persistence.IsNotFound(err):
		return notFound(c, err.Error())
	}

	return internalError(c, err)
}
