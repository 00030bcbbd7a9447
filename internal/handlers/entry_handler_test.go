package handlers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/models"
	"vaadly/internal/pagination"
	"vaadly/internal/services"
)

type mockEntryService struct {
	createEntryFn         func(input services.EntryInput) (*models.LedgerEntry, error)
	getEntryByIDFn        func(entryID string) (*models.LedgerEntry, error)
	getProjectEntriesFn   func(projectID string, page pagination.PageRequest, filter services.EntryFilter) (*pagination.PageResponse[models.LedgerEntry], error)
	updateEntryInstanceFn func(entryID string, date *time.Time, amount *decimal.Decimal, category, notes *string) (*models.LedgerEntry, error)
	deleteEntryFn         func(entryID string) error
}

func (m *mockEntryService) CreateEntry(input services.EntryInput) (*models.LedgerEntry, error) {
	if m.createEntryFn != nil {
		return m.createEntryFn(input)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockEntryService) GetEntryByID(entryID string) (*models.LedgerEntry, error) {
	if m.getEntryByIDFn != nil {
		return m.getEntryByIDFn(entryID)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockEntryService) GetProjectEntries(projectID string, page pagination.PageRequest, filter services.EntryFilter) (*pagination.PageResponse[models.LedgerEntry], error) {
	if m.getProjectEntriesFn != nil {
		return m.getProjectEntriesFn(projectID, page, filter)
	}
	return &pagination.PageResponse[models.LedgerEntry]{}, nil
}

func (m *mockEntryService) UpdateEntryInstance(entryID string, date *time.Time, amount *decimal.Decimal, category, notes *string) (*models.LedgerEntry, error) {
	if m.updateEntryInstanceFn != nil {
		return m.updateEntryInstanceFn(entryID, date, amount, category, notes)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockEntryService) DeleteEntry(entryID string) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(entryID)
	}
	return nil
}

var _ services.EntryServicer = (*mockEntryService)(nil)

const testEntryID = "9a8b7c6d-9dc0-11d1-b245-5ffdce74fad2"

func setupEntryRouter(handler *EntryHandler) *gin.Engine {
	r := gin.New()
	r.POST("/entries", handler.CreateEntry)
	r.GET("/entries/:id", handler.GetEntryByID)
	r.PUT("/entries/:id", handler.UpdateEntry)
	r.DELETE("/entries/:id", handler.DeleteEntry)
	r.GET("/projects/:id/entries", handler.GetProjectEntries)
	return r
}

func TestCreateEntryHandler(t *testing.T) {
	t.Run("creates a manual entry", func(t *testing.T) {
		var got services.EntryInput
		svc := &mockEntryService{
			createEntryFn: func(input services.EntryInput) (*models.LedgerEntry, error) {
				got = input
				return &models.LedgerEntry{ProjectID: input.ProjectID}, nil
			},
		}
		handler := NewEntryHandler(svc)
		r := setupEntryRouter(handler)

		rec := doRequest(r, "POST", "/entries", `{
			"project_id": "`+testProjectID+`",
			"entry_date": "2024-04-02",
			"direction": "income",
			"amount": "1200.50",
			"description": "Resident payment",
			"category": "residents"
		}`)

		if rec.Code != 201 {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Direction != models.DirectionIncome {
			t.Errorf("expected income direction, got %q", got.Direction)
		}
		if !got.Amount.Equal(decimal.RequireFromString("1200.50")) {
			t.Errorf("expected amount 1200.50, got %s", got.Amount)
		}
		if got.EntryDate.Month() != time.April || got.EntryDate.Day() != 2 {
			t.Errorf("unexpected entry date %v", got.EntryDate)
		}
	})

	t.Run("rejects a missing entry date", func(t *testing.T) {
		handler := NewEntryHandler(&mockEntryService{})
		r := setupEntryRouter(handler)

		rec := doRequest(r, "POST", "/entries", `{
			"project_id": "`+testProjectID+`",
			"direction": "income",
			"amount": "100"
		}`)

		if rec.Code != 400 {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects an invalid direction", func(t *testing.T) {
		handler := NewEntryHandler(&mockEntryService{})
		r := setupEntryRouter(handler)

		rec := doRequest(r, "POST", "/entries", `{
			"project_id": "`+testProjectID+`",
			"entry_date": "2024-04-02",
			"direction": "transfer",
			"amount": "100"
		}`)

		if rec.Code != 400 {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestGetProjectEntriesHandler(t *testing.T) {
	t.Run("parses the filter query parameters", func(t *testing.T) {
		var got services.EntryFilter
		svc := &mockEntryService{
			getProjectEntriesFn: func(_ string, _ pagination.PageRequest, filter services.EntryFilter) (*pagination.PageResponse[models.LedgerEntry], error) {
				got = filter
				return &pagination.PageResponse[models.LedgerEntry]{}, nil
			},
		}
		handler := NewEntryHandler(svc)
		r := setupEntryRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID+
			"/entries?from_date=2024-01-01&to_date=2024-06-30&direction=expense&category=cleaning&generated=true", "")

		if rec.Code != 200 {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.FromDate == nil || got.ToDate == nil {
			t.Fatal("expected date bounds to be set")
		}
		if got.FromDate.Month() != time.January || got.ToDate.Month() != time.June {
			t.Errorf("unexpected date bounds %v to %v", got.FromDate, got.ToDate)
		}
		if got.Direction == nil || *got.Direction != models.DirectionExpense {
			t.Errorf("expected expense direction filter, got %v", got.Direction)
		}
		if got.Category == nil || *got.Category != "cleaning" {
			t.Errorf("expected cleaning category filter, got %v", got.Category)
		}
		if got.Generated == nil || !*got.Generated {
			t.Errorf("expected generated filter true, got %v", got.Generated)
		}
	})

	t.Run("rejects an unknown direction filter", func(t *testing.T) {
		handler := NewEntryHandler(&mockEntryService{})
		r := setupEntryRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/entries?direction=sideways", "")

		if rec.Code != 400 {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestUpdateEntryHandler(t *testing.T) {
	t.Run("passes only the provided fields through", func(t *testing.T) {
		var gotAmount *decimal.Decimal
		var gotDate *time.Time
		svc := &mockEntryService{
			updateEntryInstanceFn: func(_ string, date *time.Time, amount *decimal.Decimal, _, _ *string) (*models.LedgerEntry, error) {
				gotDate, gotAmount = date, amount
				return &models.LedgerEntry{}, nil
			},
		}
		handler := NewEntryHandler(svc)
		r := setupEntryRouter(handler)

		rec := doRequest(r, "PUT", "/entries/"+testEntryID, `{"amount":"620.00"}`)

		if rec.Code != 200 {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotAmount == nil || !gotAmount.Equal(decimal.RequireFromString("620.00")) {
			t.Errorf("expected amount 620.00, got %v", gotAmount)
		}
		if gotDate != nil {
			t.Errorf("expected date to stay unset, got %v", gotDate)
		}
	})

	t.Run("returns 404 for an unknown entry", func(t *testing.T) {
		svc := &mockEntryService{
			updateEntryInstanceFn: func(_ string, _ *time.Time, _ *decimal.Decimal, _, _ *string) (*models.LedgerEntry, error) {
				return nil, apperrors.ErrEntryNotFound
			},
		}
		handler := NewEntryHandler(svc)
		r := setupEntryRouter(handler)

		rec := doRequest(r, "PUT", "/entries/"+testEntryID, `{"amount":"620.00"}`)

		if rec.Code != 404 {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ENTRY_NOT_FOUND")
	})
}

func TestDeleteEntryHandler(t *testing.T) {
	var gotID string
	svc := &mockEntryService{
		deleteEntryFn: func(entryID string) error {
			gotID = entryID
			return nil
		},
	}
	handler := NewEntryHandler(svc)
	r := setupEntryRouter(handler)

	rec := doRequest(r, "DELETE", "/entries/"+testEntryID, "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != testEntryID {
		t.Errorf("unexpected entry id %q", gotID)
	}
}
