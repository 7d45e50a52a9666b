package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Salaheddine-dev01/factory/internal/middleware"
	"github.com/Salaheddine-dev01/factory/internal/model"
	"github.com/Salaheddine-dev01/factory/internal/repository"
)

// fakeInterventions records calls so tests can assert what reached the
// store layer.
type fakeInterventions struct {
	rows   map[uint64]model.Intervention
	nextID uint64

	listMecanicien *string
	inserted       map[string]any
	updatedID      uint64
	updatedBody    map[string]any
	deleted        []uint64
}

func newFakeInterventions() *fakeInterventions {
	return &fakeInterventions{rows: map[uint64]model.Intervention{}, nextID: 1}
}

func (f *fakeInterventions) seed(mecanicien string) uint64 {
	id := f.nextID
	f.nextID++
	m := mecanicien
	f.rows[id] = model.Intervention{ID: id, Mecanicien: &m}
	return id
}

func (f *fakeInterventions) List(_ context.Context, mecanicien string) ([]model.Intervention, error) {
	f.listMecanicien = &mecanicien
	var out []model.Intervention
	for _, iv := range f.rows {
		if mecanicien == "" || iv.OwnedBy(mecanicien) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *fakeInterventions) GetByID(_ context.Context, id uint64) (model.Intervention, error) {
	iv, ok := f.rows[id]
	if !ok {
		return model.Intervention{}, repository.ErrNotFound
	}
	return iv, nil
}

func (f *fakeInterventions) Insert(_ context.Context, body map[string]any) (uint64, error) {
	f.inserted = body
	id := f.nextID
	f.nextID++
	iv := model.Intervention{ID: id}
	if m, ok := body["mecanicien"].(string); ok {
		iv.Mecanicien = &m
	}
	f.rows[id] = iv
	return id, nil
}

func (f *fakeInterventions) Update(_ context.Context, id uint64, body map[string]any) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	present := false
	for range body {
		present = true
		break
	}
	if !present {
		return repository.ErrNoFieldsToUpdate
	}
	f.updatedID = id
	f.updatedBody = body
	return nil
}

func (f *fakeInterventions) Delete(_ context.Context, id uint64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// ctxAs builds an Echo context carrying an authenticated identity, the
// way JWTAuth would have left it.
func ctxAs(method, target, body, username, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUsername, username)
	c.Set(middleware.CtxRole, role)
	return c, rec
}

func TestListWorkerScopedToOwnRows(t *testing.T) {
	store := newFakeInterventions()
	store.seed("alice")
	store.seed("bob")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodGet, "/api/interventions", "", "alice", model.RoleWorker)
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.listMecanicien == nil || *store.listMecanicien != "alice" {
		t.Fatalf("worker list must be constrained to the caller, got %v", store.listMecanicien)
	}

	var items []model.Intervention
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, iv := range items {
		if !iv.OwnedBy("alice") {
			t.Fatalf("leaked foreign row: %+v", iv)
		}
	}
}

func TestListAdminUnconstrained(t *testing.T) {
	store := newFakeInterventions()
	store.seed("alice")
	store.seed("bob")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodGet, "/api/interventions", "", "karim", model.RoleAdmin)
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.listMecanicien == nil || *store.listMecanicien != "" {
		t.Fatalf("admin list must be unconstrained, got %v", store.listMecanicien)
	}
}

func TestCreateWorkerMecanicienForced(t *testing.T) {
	store := newFakeInterventions()
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodPost, "/api/interventions",
		`{"mecanicien":"bob","chaine":"L1"}`, "alice", model.RoleWorker)
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := store.inserted["mecanicien"]; got != "alice" {
		t.Fatalf("mecanicien must be forced to the caller, got %v", got)
	}
}

func TestCreateAdminKeepsClientMecanicien(t *testing.T) {
	store := newFakeInterventions()
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodPost, "/api/interventions",
		`{"mecanicien":"bob"}`, "karim", model.RoleAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := store.inserted["mecanicien"]; got != "bob" {
		t.Fatalf("admin-supplied mecanicien must pass through, got %v", got)
	}
}

func TestCreateUnknownFieldRejected(t *testing.T) {
	store := newFakeInterventions()
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodPost, "/api/interventions",
		`{"chaine":"L1","dropme":"x"}`, "alice", model.RoleWorker)
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
	if store.inserted != nil {
		t.Fatal("store must not be touched on validation failure")
	}
}

func TestGetWorkerForeignRowForbidden(t *testing.T) {
	store := newFakeInterventions()
	id := store.seed("bob")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodGet, "/", "", "alice", model.RoleWorker)
	c.SetParamNames("id")
	c.SetParamValues(itoa(id))
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGetMissingRow(t *testing.T) {
	store := newFakeInterventions()
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodGet, "/", "", "karim", model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("999")
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateEmptyBody(t *testing.T) {
	store := newFakeInterventions()
	id := store.seed("alice")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodPut, "/", `{}`, "alice", model.RoleWorker)
	c.SetParamNames("id")
	c.SetParamValues(itoa(id))
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	if store.updatedBody != nil {
		t.Fatal("empty update must not modify the store")
	}
}

func TestUpdateWorkerForeignRowForbidden(t *testing.T) {
	store := newFakeInterventions()
	id := store.seed("bob")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodPut, "/", `{"diagnostic":"usure"}`, "alice", model.RoleWorker)
	c.SetParamNames("id")
	c.SetParamValues(itoa(id))
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if store.updatedBody != nil {
		t.Fatal("forbidden update must not modify the store")
	}
}

func TestUpdatePartialFields(t *testing.T) {
	store := newFakeInterventions()
	id := store.seed("alice")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodPut, "/", `{"diagnostic":"courroie usée"}`, "alice", model.RoleWorker)
	c.SetParamNames("id")
	c.SetParamValues(itoa(id))
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if store.updatedID != id {
		t.Fatalf("expected update on row %d, got %d", id, store.updatedID)
	}
	if len(store.updatedBody) != 1 || store.updatedBody["diagnostic"] != "courroie usée" {
		t.Fatalf("expected only supplied fields to reach the store, got %v", store.updatedBody)
	}
}

func TestDeleteWorkerForbidden(t *testing.T) {
	store := newFakeInterventions()
	id := store.seed("alice")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodDelete, "/", "", "alice", model.RoleWorker)
	c.SetParamNames("id")
	c.SetParamValues(itoa(id))
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, stillThere := store.rows[id]; !stillThere {
		t.Fatal("row must survive a forbidden delete")
	}
}

func TestDeleteAdmin(t *testing.T) {
	store := newFakeInterventions()
	id := store.seed("alice")
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodDelete, "/", "", "karim", model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(itoa(id))
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, stillThere := store.rows[id]; stillThere {
		t.Fatal("row must be gone after admin delete")
	}
}

func TestDeleteAdminMissingRow(t *testing.T) {
	store := newFakeInterventions()
	h := NewInterventionHandler(store)

	c, rec := ctxAs(http.MethodDelete, "/", "", "karim", model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("424242")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
