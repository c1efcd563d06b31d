package archive

import (
	"bytes"
	"errors"

	"playlist-archiver/core/logger"
	"playlist-archiver/core/records"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const workbookType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the archived tables over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the archive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/archive")
	group.Get("/accounts", h.HandleAccounts)
	group.Get("/index", h.HandleIndex)
	group.Get("/ledgers/:name", h.HandleLedger)
	group.Get("/export", h.HandleExport)
}

// HandleAccounts lists the archived accounts with row counts.
func (h *Handler) HandleAccounts(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	accounts, err := h.service.Accounts(c.Context())
	if err != nil {
		l.Error("Failed to list accounts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

// HandleIndex returns the previous index, optionally for one account.
func (h *Handler) HandleIndex(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	account := c.Query("account")

	rows, err := h.service.Index(c.Context(), account)
	if err != nil {
		l.Error("Failed to load index", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if rows == nil {
		rows = []records.VideoRecord{}
	}
	return c.JSON(fiber.Map{"account": account, "count": len(rows), "rows": rows})
}

// HandleLedger returns the entries of one ledger.
func (h *Handler) HandleLedger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	ledger, entries, err := h.service.Ledger(c.Context(), c.Params("name"))
	if err != nil {
		var unknown *records.UnknownLedgerError
		if errors.As(err, &unknown) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to load ledger", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if entries == nil {
		entries = []records.LedgerEntry{}
	}
	return c.JSON(fiber.Map{"ledger": ledger, "count": len(entries), "entries": entries})
}

// HandleExport streams every table as an xlsx workbook.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var buf bytes.Buffer
	if err := h.service.Export(c.Context(), &buf); err != nil {
		l.Error("Failed to export workbook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Attachment("archive.xlsx")
	c.Set(fiber.HeaderContentType, workbookType)
	return c.Send(buf.Bytes())
}
