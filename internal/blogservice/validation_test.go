package blogservice

import (
	"strings"
	"testing"

	"github.com/sushihentaime/bloglist/internal/common"
)

func TestValidateTitle(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		valid bool
	}{
		{name: "empty", title: "", valid: false},
		{name: "single character", title: "a", valid: true},
		{name: "normal title", title: "Go Concurrency Patterns", valid: true},
		{name: "too long", title: strings.Repeat("a", 201), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateTitle(v, tc.title)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	testCases := []struct {
		name  string
		url   string
		valid bool
	}{
		{name: "empty", url: "", valid: false},
		{name: "normal url", url: "https://go.dev/blog/pipelines", valid: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", 500), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateURL(v, tc.url)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidateLikes(t *testing.T) {
	testCases := []struct {
		name  string
		likes int
		valid bool
	}{
		{name: "zero", likes: 0, valid: true},
		{name: "positive", likes: 12, valid: true},
		{name: "negative", likes: -1, valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateLikes(v, tc.likes)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
			}
		})
	}
}
