package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(rawQuery string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit", "limit=25&offset=75", 25, 75},
		{"limit capped", "limit=9999", MaxLimit, 0},
		{"zero limit falls back", "limit=0", DefaultLimit, 0},
		{"negative offset clamped", "offset=-3", DefaultLimit, 0},
		{"garbage ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := paramsFor(tc.query)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Errorf("got limit=%d offset=%d, want limit=%d offset=%d",
					p.Limit, p.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestParams_SQL(t *testing.T) {
	p := Params{Limit: 50, Offset: 150}
	if got := p.SQL(); got != "LIMIT 50 OFFSET 150" {
		t.Errorf("unexpected clause %q", got)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	patients := []string{"Jane Roe", "John Doe", "Cher"}

	// 3 of 120 returned: more pages remain.
	r := NewResponse(patients, 120, 3, 0)
	if r.Total != 120 {
		t.Errorf("expected total 120, got %d", r.Total)
	}
	if !r.HasMore {
		t.Error("expected has_more on a partial page")
	}

	// Final page: offset+limit reaches the total.
	last := NewResponse(patients, 120, 3, 117)
	if last.HasMore {
		t.Error("did not expect has_more on the final page")
	}
}

func TestParams_Paging(t *testing.T) {
	const directorySize = 45

	p := Params{Limit: 20, Offset: 0}
	if !p.HasNext(directorySize) {
		t.Error("expected a next page from the first page")
	}
	if p.HasPrevious() {
		t.Error("did not expect a previous page at offset 0")
	}

	p.Offset = p.NextOffset()
	if p.Offset != 20 {
		t.Fatalf("expected offset 20, got %d", p.Offset)
	}
	if !p.HasPrevious() {
		t.Error("expected a previous page on the second page")
	}

	// Last partial page: 40..44.
	p.Offset = p.NextOffset()
	if p.HasNext(directorySize) {
		t.Error("did not expect a next page past the last row")
	}
	if p.PreviousOffset() != 20 {
		t.Errorf("expected previous offset 20, got %d", p.PreviousOffset())
	}

	// PreviousOffset never goes negative.
	small := Params{Limit: 20, Offset: 5}
	if small.PreviousOffset() != 0 {
		t.Errorf("expected previous offset clamped to 0, got %d", small.PreviousOffset())
	}

	if empty := (Params{Limit: 20, Offset: 0}); empty.HasNext(0) {
		t.Error("did not expect a next page in an empty directory")
	}
}
