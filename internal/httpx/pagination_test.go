package httpx

import (
	"net/http/httptest"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		want     PageParams
		wantSkip int
	}{
		{name: "defaults", url: "/api/articles/", want: PageParams{Page: 1, PageSize: 10}, wantSkip: 0},
		{name: "page 3", url: "/api/articles/?page=3", want: PageParams{Page: 3, PageSize: 10}, wantSkip: 20},
		{name: "custom size", url: "/api/articles/?page=2&page_size=25", want: PageParams{Page: 2, PageSize: 25}, wantSkip: 25},
		{name: "size capped", url: "/api/articles/?page_size=1000", want: PageParams{Page: 1, PageSize: 100}, wantSkip: 0},
		{name: "garbage ignored", url: "/api/articles/?page=abc&page_size=-4", want: PageParams{Page: 1, PageSize: 10}, wantSkip: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePage(httptest.NewRequest("GET", tt.url, nil), 10, 100)
			if got != tt.want {
				t.Errorf("ParsePage() = %+v, want %+v", got, tt.want)
			}
			if got.Offset() != tt.wantSkip {
				t.Errorf("Offset() = %d, want %d", got.Offset(), tt.wantSkip)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	t.Run("middle page has both links", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/articles/?search=go&page=2", nil)
		p := NewPage(r, "http://localhost:8000", PageParams{Page: 2, PageSize: 10}, 35, []int{1, 2})

		if p.Count != 35 {
			t.Errorf("Count = %d, want 35", p.Count)
		}
		if p.Next == nil || *p.Next != "http://localhost:8000/api/articles/?page=3&search=go" {
			t.Errorf("Next = %v", p.Next)
		}
		if p.Previous == nil || *p.Previous != "http://localhost:8000/api/articles/?search=go" {
			t.Errorf("Previous = %v", p.Previous)
		}
	})

	t.Run("single page has no links and non-nil results", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/tags/", nil)
		p := NewPage[string](r, "", PageParams{Page: 1, PageSize: 10}, 0, nil)

		if p.Next != nil || p.Previous != nil {
			t.Errorf("expected no links, got next=%v previous=%v", p.Next, p.Previous)
		}
		if p.Results == nil {
			t.Error("Results should be an empty slice, not nil")
		}
	})
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "True", "YES", " yes "} {
		if !Truthy(v) {
			t.Errorf("Truthy(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "no", "on"} {
		if Truthy(v) {
			t.Errorf("Truthy(%q) = true, want false", v)
		}
	}
}

func TestQueryID(t *testing.T) {
	tests := []struct {
		query  string
		want   int64
		wantOK bool
	}{
		{"", 0, true},
		{"?article=", 0, true},
		{"?article=12", 12, true},
		{"?article=abc", 0, false},
		{"?article=0", 0, false},
		{"?article=-3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/comments/"+tt.query, nil)
			got, ok := QueryID(r, "article")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("QueryID() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPathInt64(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/articles/5/", nil)
	r.SetPathValue("id", "5")
	if id, ok := PathInt64(r, "id"); !ok || id != 5 {
		t.Errorf("PathInt64() = %d, %v; want 5, true", id, ok)
	}

	r.SetPathValue("id", "abc")
	if _, ok := PathInt64(r, "id"); ok {
		t.Error("PathInt64() accepted a non-numeric id")
	}

	r.SetPathValue("id", "0")
	if _, ok := PathInt64(r, "id"); ok {
		t.Error("PathInt64() accepted zero")
	}
}
