package http

import (
	"fmt"
	"net/http"
	"testing"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("load: %w", pages.ErrPageNotFound), http.StatusNotFound, "not_found"},
		{permissions.Error{Permission: permissions.PagesUpdate}, http.StatusForbidden, "forbidden"},
		{menus.ErrMenuDepthExceeded, http.StatusUnprocessableEntity, "validation_failed"},
		{pages.ErrSlugImmutable, http.StatusBadRequest, "bad_request"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, body := mapError(tc.err)
		if status != tc.status || body.Error != tc.code {
			t.Fatalf("%v: expected %d/%s, got %d/%s", tc.err, tc.status, tc.code, status, body.Error)
		}
	}
}

func TestMapErrorReportsCurrentVersion(t *testing.T) {
	status, body := mapError(&pages.VersionConflictError{Expected: 2, Actual: 5})
	if status != http.StatusConflict || body.CurrentVersion != 5 {
		t.Fatalf("expected conflict at version 5, got %d %+v", status, body)
	}
}

func TestMapErrorSortsFieldIssues(t *testing.T) {
	status, body := mapError(ozzo.Errors{
		"slug":  fmt.Errorf("required"),
		"title": fmt.Errorf("too long"),
	})
	if status != http.StatusBadRequest || len(body.Issues) != 2 {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
	if body.Issues[0].Location != "/slug" || body.Issues[1].Location != "/title" {
		t.Fatalf("expected sorted issues, got %+v", body.Issues)
	}
}

func TestJoinPath(t *testing.T) {
	cases := map[[2]string]string{
		{"", ""}:             "/",
		{"/api/", ""}:        "/api",
		{"api", "/pages/"}:   "/api/pages",
		{" ", "navigation"}:  "/navigation",
		{"/api", "seed/run"}: "/api/seed/run",
	}
	for in, want := range cases {
		if got := joinPath(in[0], in[1]); got != want {
			t.Fatalf("joinPath(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
