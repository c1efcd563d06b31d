package integrity

import (
	"errors"
	"sort"

	"playlist-archiver/core/logger"
	"playlist-archiver/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/duplicates", h.HandleDuplicatesCheck)
	group.Get("/bucket", h.HandleBucketCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck runs every check without fixing anything.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = errorEntry(err)
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	if dups, err := h.service.CheckDuplicates(ctx); err != nil {
		report["duplicates"] = errorEntry(err)
	} else {
		report["duplicates"] = map[string]interface{}{"status": "ok", "duplicates": dups}
	}

	if exists, err := h.service.CheckBucket(ctx); err != nil {
		report["bucket"] = errorEntry(err)
	} else {
		report["bucket"] = map[string]interface{}{"status": "ok", "exists": exists}
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = errorEntry(err)
	} else {
		report["schema"] = schema
	}

	return c.JSON(report)
}

func errorEntry(err error) map[string]interface{} {
	if errors.Is(err, ErrNotApplicable) {
		return map[string]interface{}{"status": "skipped"}
	}
	return map[string]interface{}{"status": "error", "error": err.Error()}
}

// HandleStructureCheck checks and optionally creates missing tables.
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing tables detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to create missing tables")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleDuplicatesCheck checks and optionally removes duplicate ledger entries.
func (h *Handler) HandleDuplicatesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	dups, err := h.service.CheckDuplicates(c.Context())
	if err != nil {
		l.Error("Duplicates check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(dups) > 0 && fix {
		ledgers := make([]string, 0, len(dups))
		for name := range dups {
			ledgers = append(ledgers, name)
		}
		sort.Strings(ledgers)

		l.Info("Removing duplicate ledger entries", zap.Strings("ledgers", ledgers))
		if err := h.service.FixDuplicates(c.Context(), ledgers); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to fix duplicates",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status": "fixed",
			"fixed":  dups,
		})
	}

	return c.JSON(fiber.Map{
		"status":     "checked",
		"duplicates": dups,
	})
}

// HandleBucketCheck checks and optionally creates the archive bucket.
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	exists, err := h.service.CheckBucket(c.Context())
	if errors.Is(err, ErrNotApplicable) {
		return c.JSON(fiber.Map{"status": "skipped"})
	}
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !exists && fix {
		if err := h.service.FixBucket(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "fixed"})
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"exists": exists,
	})
}

// HandleSchemaCheck compares the SQL tables with the archive model.
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting schema check")

	report, err := h.service.CheckSchema()
	if errors.Is(err, ErrNotApplicable) {
		return c.JSON(fiber.Map{"status": "skipped"})
	}
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
