package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gameshelf/backend/internal/platform"

	"github.com/gin-gonic/gin"
)

func TestRespondPlatformError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{platform.ErrCredentialsMissing, http.StatusServiceUnavailable},
		{platform.ErrIdentityNotFound, http.StatusNotFound},
		{platform.ErrAccessDenied, http.StatusForbidden},
		{platform.ErrEmptyLibrary, http.StatusUnprocessableEntity},
		{platform.ErrMalformedInput, http.StatusBadRequest},
		{platform.ErrRemoteUnavailable, http.StatusBadGateway},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
		// Wrapped errors map the same as bare sentinels.
		{fmt.Errorf("%w: vanity name %q", platform.ErrIdentityNotFound, "ghost"), http.StatusNotFound},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		respondPlatformError(c, tc.err)
		if rec.Code != tc.want {
			t.Errorf("respondPlatformError(%v) status = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestCanonicalSelection(t *testing.T) {
	got := canonicalSelection([]string{"Action", "Not A Tag", "RPG", "Action", "rpg"})
	want := []string{"Action", "RPG"}

	if len(got) != len(want) {
		t.Fatalf("canonicalSelection = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("canonicalSelection = %v, want %v", got, want)
		}
	}
}

func TestParsePageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=3&limit=25", 3, 25},
		{"page=0&limit=-5", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
		{"limit=9999", 1, 100},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/users?"+tc.query, nil)

		page, limit := ParsePageParams(c)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("ParsePageParams(%q) = (%d, %d), want (%d, %d)",
				tc.query, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
