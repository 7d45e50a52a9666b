package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Salaheddine-dev01/factory/internal/coerce"
	"github.com/Salaheddine-dev01/factory/internal/middleware"
	"github.com/Salaheddine-dev01/factory/internal/model"
	"github.com/Salaheddine-dev01/factory/internal/queue"
	"github.com/Salaheddine-dev01/factory/internal/repository"
)

// InterventionStore is the repository surface the CRUD handlers depend on.
type InterventionStore interface {
	List(ctx context.Context, mecanicien string) ([]model.Intervention, error)
	GetByID(ctx context.Context, id uint64) (model.Intervention, error)
	Insert(ctx context.Context, body map[string]any) (uint64, error)
	Update(ctx context.Context, id uint64, body map[string]any) error
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher pushes audit events after successful writes.
type EventPublisher interface {
	PublishInterventionEvent(ctx context.Context, event queue.InterventionEvent) error
}

// InterventionHandler implements the intervention CRUD endpoints.  Events
// and DropCache are optional: when nil, writes simply skip auditing and
// cache invalidation.
type InterventionHandler struct {
	Store     InterventionStore
	Events    EventPublisher
	DropCache func(ctx context.Context)
}

func NewInterventionHandler(store InterventionStore) *InterventionHandler {
	return &InterventionHandler{Store: store}
}

// List handles GET /api/interventions.  Workers only ever see rows whose
// mecanicien is their own username; admins see the full table.  Rows come
// back newest-first by id.
func (h *InterventionHandler) List(c echo.Context) error {
	mecanicien := ""
	if middleware.Role(c) == model.RoleWorker {
		mecanicien = middleware.Username(c)
	}
	items, err := h.Store.List(c.Request().Context(), mecanicien)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching interventions", "details": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/interventions/:id.  Workers may only read their
// own rows.
func (h *InterventionHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	iv, err := h.Store.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Intervention not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching intervention", "details": err.Error()})
	}
	if middleware.Role(c) == model.RoleWorker && !iv.OwnedBy(middleware.Username(c)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
	}
	return c.JSON(http.StatusOK, iv)
}

// Create handles POST /api/interventions.  The body is a partial
// intervention; unknown keys are rejected, recognized values are coerced
// in the store layer.  For workers the mecanicien field is overwritten
// with the caller's username before anything else happens; client input
// never decides ownership.
func (h *InterventionHandler) Create(c echo.Context) error {
	// BindBody, not Bind: the full binder would merge path params into
	// the map and a stray "id" key would fail key validation.
	body := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := coerce.ValidateKeys(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if middleware.Role(c) == model.RoleWorker {
		body["mecanicien"] = middleware.Username(c)
	}

	id, err := h.Store.Insert(c.Request().Context(), body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error adding intervention", "details": err.Error()})
	}

	h.afterWrite(c, "created", id, body)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Intervention added successfully",
		"id":      id,
	})
}

// Update handles PUT /api/interventions/:id with partial-update
// semantics: only the supplied fields change.  The target row is fetched
// first so missing rows and foreign rows answer 404/403 before any write.
func (h *InterventionHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	body := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	existing, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Intervention not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error updating intervention", "details": err.Error()})
	}
	if middleware.Role(c) == model.RoleWorker && !existing.OwnedBy(middleware.Username(c)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
	}
	if err := coerce.ValidateKeys(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Store.Update(ctx, id, body); err != nil {
		if err == repository.ErrNoFieldsToUpdate {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No fields to update"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error updating intervention", "details": err.Error()})
	}

	h.afterWrite(c, "updated", id, body)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Intervention updated successfully",
		"id":      id,
	})
}

// Delete handles DELETE /api/interventions/:id.  Hard delete, admins
// only; everyone else gets 403 no matter whether the row exists.
func (h *InterventionHandler) Delete(c echo.Context) error {
	if middleware.Role(c) != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Only admins can delete interventions"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Intervention not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error deleting intervention", "details": err.Error()})
	}

	h.afterWrite(c, "deleted", id, nil)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Intervention deleted successfully",
		"id":      id,
	})
}

// afterWrite runs the best-effort side effects of a successful write:
// cache invalidation and audit publishing.  Neither may fail the request,
// and publishing happens off the request goroutine.
func (h *InterventionHandler) afterWrite(c echo.Context, action string, id uint64, body map[string]any) {
	if h.DropCache != nil {
		h.DropCache(c.Request().Context())
	}
	if h.Events == nil {
		return
	}
	ev := queue.InterventionEvent{
		Action:         action,
		InterventionID: id,
		Actor:          middleware.Username(c),
		Role:           middleware.Role(c),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if body != nil {
		if m, ok := body["mecanicien"].(string); ok {
			ev.Mecanicien = m
		}
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Events.PublishInterventionEvent(ctx, ev)
	}()
}
