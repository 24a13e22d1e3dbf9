package types

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewCreateCheckoutSessionRequestFromContextNormalizes(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/checkout/sessions", bytes.NewBufferString(`{"price_id":"  price_1ABC  ","customer_email":" Buyer@Example.COM ","metadata":{"campaign":"summer"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewCreateCheckoutSessionRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.PriceID != "price_1ABC" {
		t.Fatalf("expected trimmed price id, got %q", parsed.PriceID)
	}
	if parsed.CustomerEmail != "buyer@example.com" {
		t.Fatalf("expected lower-cased email, got %q", parsed.CustomerEmail)
	}
	if parsed.Metadata["campaign"] != "summer" {
		t.Fatalf("expected metadata passthrough, got %+v", parsed.Metadata)
	}
}

func TestCreateCheckoutSessionValidate(t *testing.T) {
	req := &CreateCheckoutSessionRequest{}
	if err := req.Validate(); err == nil {
		t.Fatal("expected price_id validation error")
	}

	req = &CreateCheckoutSessionRequest{PriceID: "price_1", CustomerEmail: "not-an-email"}
	if err := req.Validate(); err == nil {
		t.Fatal("expected customer_email validation error")
	}

	req = &CreateCheckoutSessionRequest{PriceID: "price_1"}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request without email, got %v", err)
	}
}

func TestNewListJobsRequestFromContextAndValidate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/jobs?type=Wanted&featured=true&limit=20&offset=3", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewListJobsRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.Type != "wanted" || !parsed.FeaturedOnly {
		t.Fatalf("unexpected filter parse: %+v", parsed)
	}
	if parsed.Limit != 20 || parsed.Offset != 3 {
		t.Fatalf("unexpected paging parse: %+v", parsed)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid list request, got %v", err)
	}

	parsed.Limit = 500
	if err := parsed.Validate(); err == nil {
		t.Fatal("expected limit validation error")
	}
}

func TestListJobsRequestDefaultLimit(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/jobs", nil)
	rec := httptest.NewRecorder()

	parsed, err := NewListJobsRequestFromContext(e.NewContext(req, rec))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.Limit != 20 || parsed.Offset != 0 {
		t.Fatalf("expected default limit 20 offset 0, got %+v", parsed)
	}
}

func TestPostJobValidateBudgetOrdering(t *testing.T) {
	low, high := int64(500), int64(100)
	req := &PostJobRequest{
		Title:       "Video editor needed",
		Description: "Short-form edits for a product launch.",
		Type:        "wanted",
		Category:    "video",
		BudgetMin:   &low,
		BudgetMax:   &high,
	}
	if err := req.Validate(); err == nil {
		t.Fatal("expected budget ordering validation error")
	}

	req.BudgetMax = &low
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}
