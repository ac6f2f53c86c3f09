package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/obessu/eventflow/internal/ai"
	"github.com/obessu/eventflow/internal/aierrors"
	"github.com/obessu/eventflow/internal/calendar"
	"github.com/obessu/eventflow/internal/export"
	"github.com/obessu/eventflow/internal/listing"
	"github.com/obessu/eventflow/internal/metrics"
	"github.com/obessu/eventflow/internal/model"
	"github.com/obessu/eventflow/internal/repo"
	"github.com/obessu/eventflow/internal/requestid"
	"github.com/obessu/eventflow/internal/stakeholder"
)

// Handlers holds dependencies for the HTTP handlers. Analyzer and Briefer
// are nil when the AI collaborator is not configured; the analysis
// endpoints then fail with a configuration problem, everything else keeps
// working.
type Handlers struct {
	events      *repo.EventStore
	contacts    *repo.ContactStore
	analyzer    ai.Analyzer
	briefer     ai.Briefer
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	defaultYear int
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	events *repo.EventStore,
	contacts *repo.ContactStore,
	analyzer ai.Analyzer,
	briefer ai.Briefer,
	m *metrics.Metrics,
	defaultYear int,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		events:      events,
		contacts:    contacts,
		analyzer:    analyzer,
		briefer:     briefer,
		metrics:     m,
		logger:      logger.With().Str("component", "handlers").Logger(),
		defaultYear: defaultYear,
	}
}

// ---- analysis workflow ----

// AnalyzeRequest is the submission payload: pasted text or an uploaded
// document (base64 + MIME type), plus an optional display name for files.
type AnalyzeRequest struct {
	Text     string       `json:"text"`
	FileData *ai.FileData `json:"file_data"`
	FileName string       `json:"file_name"`
}

// Analyze handles POST /api/v1/analyze: runs the (cached) AI analysis and
// creates the event. This is the only path where AI failures surface to the
// user; every other error policy in the system is silent exclusion.
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	if h.analyzer == nil {
		return problemResponse(c, fiber.StatusServiceUnavailable,
			"ai_not_configured", "Service Unavailable",
			"The analysis service has no API credential configured")
	}

	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	in := ai.Input{Text: req.Text, FileData: req.FileData}
	if in.Empty() {
		return problemResponse(c, fiber.StatusBadRequest,
			"missing_content", "Bad Request",
			"Provide either text or file_data")
	}

	result, err := h.analyzer.Analyze(c.UserContext(), in)
	if err != nil {
		return h.analysisProblem(c, err)
	}
	h.recordAnalysis("success")

	originalText := req.Text
	if originalText == "" {
		originalText = "File: " + req.FileName
	}

	ev := &model.Event{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		OriginalText: originalText,
		Analysis:     result,
		Contact:      model.ContactAssignment{RepRole: model.RoleParticipant},
		FollowUp: model.FollowUpState{
			Status: model.StatusToRespond,
			CommsPack: model.CommsPack{
				DatePlace: result.Date + " @ " + result.Venue,
			},
		},
	}
	h.events.Add(ev)
	h.updateEventGauge()

	return c.Status(fiber.StatusCreated).JSON(ev)
}

// GenerateBriefing handles POST /api/v1/events/:id/briefing.
func (h *Handlers) GenerateBriefing(c *fiber.Ctx) error {
	if h.briefer == nil {
		return problemResponse(c, fiber.StatusServiceUnavailable,
			"ai_not_configured", "Service Unavailable",
			"The briefing service has no API credential configured")
	}

	ev, err := h.events.Get(c.Params("id"))
	if err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"event_not_found", "Not Found", "No such event")
	}

	briefing, err := h.briefer.GenerateBriefing(c.UserContext(), ev)
	if err != nil {
		return h.analysisProblem(c, err)
	}
	return c.JSON(fiber.Map{"briefing": briefing})
}

// SummarizeRequest carries a post-event document for summarization.
type SummarizeRequest struct {
	FileData *ai.FileData `json:"file_data"`
}

// SummarizeFollowUp handles POST /api/v1/followup/summarize.
func (h *Handlers) SummarizeFollowUp(c *fiber.Ctx) error {
	if h.briefer == nil {
		return problemResponse(c, fiber.StatusServiceUnavailable,
			"ai_not_configured", "Service Unavailable",
			"The summarization service has no API credential configured")
	}

	var req SummarizeRequest
	if err := c.BodyParser(&req); err != nil || req.FileData == nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"missing_file", "Bad Request", "file_data is required")
	}

	summary, err := h.briefer.SummarizeFollowUp(c.UserContext(), *req.FileData)
	if err != nil {
		return h.analysisProblem(c, err)
	}
	return c.JSON(fiber.Map{"summary": summary})
}

// analysisProblem maps the AI error taxonomy onto problem responses.
// Transient transport failures are flagged retryable so the caller can
// decide; nothing is retried server-side.
func (h *Handlers) analysisProblem(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, aierrors.ErrInvalidInput):
		h.recordAnalysis("invalid_input")
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_input", "Bad Request", err.Error())
	case errors.Is(err, aierrors.ErrMissingCredential):
		h.recordAnalysis("config_error")
		return problemResponse(c, fiber.StatusServiceUnavailable,
			"ai_not_configured", "Service Unavailable", err.Error())
	}

	var parseErr *aierrors.ParseError
	if errors.As(err, &parseErr) {
		h.recordAnalysis("parse_error")
		h.logger.Error().Err(err).
			Str("request_id", requestid.From(c.UserContext())).
			Msg("ai returned malformed payload")
		return problemResponse(c, fiber.StatusBadGateway,
			"malformed_ai_response", "Bad Gateway", err.Error())
	}

	h.recordAnalysis("transport_error")
	h.logger.Error().Err(err).
		Str("request_id", requestid.From(c.UserContext())).
		Msg("ai request failed")
	if aierrors.IsRetryable(err) {
		return retryableProblemResponse(c, fiber.StatusBadGateway,
			"ai_request_failed", "Bad Gateway", err.Error())
	}
	return problemResponse(c, fiber.StatusBadGateway,
		"ai_request_failed", "Bad Gateway", err.Error())
}

// ---- event list / detail ----

// ListEvents handles GET /api/v1/events?search=&view=.
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	events := h.events.List()
	ix := listing.NewIndex(events)
	filtered := ix.Filter(c.Query("search"), c.Query("view"))
	return c.JSON(fiber.Map{
		"events": filtered,
		"total":  len(events),
		"count":  len(filtered),
	})
}

// GetEvent handles GET /api/v1/events/:id.
func (h *Handlers) GetEvent(c *fiber.Ctx) error {
	ev, err := h.events.Get(c.Params("id"))
	if err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"event_not_found", "Not Found", "No such event")
	}
	return c.JSON(ev)
}

// UpdateEvent handles PATCH /api/v1/events/:id with typed partial updates.
func (h *Handlers) UpdateEvent(c *fiber.Ctx) error {
	var patch model.EventPatch
	if err := c.BodyParser(&patch); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}
	if p := patch.Analysis; p != nil && p.Priority != nil && !model.ValidPriority(*p.Priority) {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_priority", "Bad Request",
			"Unknown priority: "+string(*p.Priority))
	}
	if p := patch.FollowUp; p != nil && p.Status != nil && !model.ValidStatus(*p.Status) {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_status", "Bad Request",
			"Unknown status: "+string(*p.Status))
	}

	ev, err := h.events.Update(c.Params("id"), patch)
	if err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"event_not_found", "Not Found", "No such event")
	}
	return c.JSON(ev)
}

// DeleteEvent handles DELETE /api/v1/events/:id.
func (h *Handlers) DeleteEvent(c *fiber.Ctx) error {
	if err := h.events.Delete(c.Params("id")); err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"event_not_found", "Not Found", "No such event")
	}
	h.updateEventGauge()
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportEvent handles GET /api/v1/events/:id/export?format=json|csv.
func (h *Handlers) ExportEvent(c *fiber.Ctx) error {
	ev, err := h.events.Get(c.Params("id"))
	if err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"event_not_found", "Not Found", "No such event")
	}

	switch c.Query("format", "json") {
	case "csv":
		data, err := export.CSV(ev)
		if err != nil {
			return err
		}
		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="`+export.FileName(ev, "csv")+`"`)
		return c.Send(data)
	case "json":
		data, err := export.JSON(ev)
		if err != nil {
			return err
		}
		c.Set("Content-Type", "application/json; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="`+export.FileName(ev, "json")+`"`)
		return c.Send(data)
	default:
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_format", "Bad Request", "format must be json or csv")
	}
}

// ---- calendar ----

// Calendar handles GET /api/v1/calendar?year=&start=&end=&priority=&theme=.
// Defaults cover the whole requested year with no discriminating filter.
func (h *Handlers) Calendar(c *fiber.Ctx) error {
	year := h.defaultYear
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return problemResponse(c, fiber.StatusBadRequest,
				"invalid_year", "Bad Request", "year must be an integer")
		}
		year = parsed
	}

	opts := calendar.Options{
		StartDate: c.Query("start", calendar.DateString(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC))),
		EndDate:   c.Query("end", calendar.DateString(time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))),
		Priority:  c.Query("priority", calendar.PriorityAll),
		Theme:     c.Query("theme", calendar.ThemeAll),
	}

	weeks := calendar.Assemble(h.events.List(), year, opts)
	return c.JSON(fiber.Map{"year": year, "weeks": weeks})
}

// Themes handles GET /api/v1/calendar/themes.
func (h *Handlers) Themes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"themes": calendar.Themes(h.events.List())})
}

// ---- stakeholders ----

// Stakeholders handles GET /api/v1/stakeholders.
func (h *Handlers) Stakeholders(c *fiber.Ctx) error {
	groups := stakeholder.Aggregate(h.events.List())
	return c.JSON(fiber.Map{"stakeholders": groups})
}

// RenameRequest is the stakeholder rename payload.
type RenameRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// RenameStakeholder handles POST /api/v1/stakeholders/rename: a targeted
// bulk rewrite of analysis.institution across the group's events.
func (h *Handlers) RenameStakeholder(c *fiber.Ctx) error {
	var req RenameRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}
	if req.OldName == "" || req.NewName == "" {
		return problemResponse(c, fiber.StatusBadRequest,
			"missing_name", "Bad Request",
			"old_name and new_name are required")
	}

	n := h.events.PropagateRename(req.OldName, req.NewName)
	return c.JSON(fiber.Map{"renamed": n})
}

// ---- contacts ----

// ListContacts handles GET /api/v1/contacts.
func (h *Handlers) ListContacts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"contacts": h.contacts.List()})
}

// CreateContact handles POST /api/v1/contacts.
func (h *Handlers) CreateContact(c *fiber.Ctx) error {
	var contact model.Contact
	if err := c.BodyParser(&contact); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}
	if contact.Name == "" {
		return problemResponse(c, fiber.StatusBadRequest,
			"missing_name", "Bad Request", "name is required")
	}
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	h.contacts.Add(&contact)
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// GetContact handles GET /api/v1/contacts/:id.
func (h *Handlers) GetContact(c *fiber.Ctx) error {
	contact, err := h.contacts.Get(c.Params("id"))
	if err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"contact_not_found", "Not Found", "No such contact")
	}
	return c.JSON(contact)
}

// UpdateContact handles PUT /api/v1/contacts/:id. The new snapshot is
// propagated to every event assignment referencing the contact.
func (h *Handlers) UpdateContact(c *fiber.Ctx) error {
	var contact model.Contact
	if err := c.BodyParser(&contact); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}
	contact.ID = c.Params("id")
	h.contacts.Update(&contact)
	return c.JSON(contact)
}

// DeleteContact handles DELETE /api/v1/contacts/:id. Referencing events are
// unassigned, not deleted.
func (h *Handlers) DeleteContact(c *fiber.Ctx) error {
	if err := h.contacts.Delete(c.Params("id")); err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"contact_not_found", "Not Found", "No such contact")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- helpers ----

func (h *Handlers) recordAnalysis(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordAnalysis(outcome)
	}
}

func (h *Handlers) updateEventGauge() {
	if h.metrics != nil {
		h.metrics.EventsStored.Set(float64(h.events.Len()))
	}
}
