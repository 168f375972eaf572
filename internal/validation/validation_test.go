package validation

import (
	"strings"
	"testing"
)

func TestPageID(t *testing.T) {
	if got, err := PageID("12345"); err != nil || got != "12345" {
		t.Errorf("PageID(12345) = %q, %v", got, err)
	}
	if got, err := PageID("  12345  "); err != nil || got != "12345" {
		t.Errorf("whitespace not stripped: %q, %v", got, err)
	}
	for _, bad := range []string{"", "abc123", "12 34", "-1"} {
		if _, err := PageID(bad); err == nil {
			t.Errorf("PageID(%q) accepted", bad)
		}
	}
}

func TestIDNamesField(t *testing.T) {
	_, err := ID("", "comment_id")
	if err == nil || !strings.Contains(err.Error(), "comment_id") {
		t.Errorf("err = %v", err)
	}
	if _, err := CommentID("999"); err != nil {
		t.Errorf("CommentID(999) = %v", err)
	}
}

func TestSpaceKey(t *testing.T) {
	if got, err := SpaceKey("DOCS"); err != nil || got != "DOCS" {
		t.Errorf("SpaceKey(DOCS) = %q, %v", got, err)
	}
	if got, err := SpaceKey("docs"); err != nil || got != "DOCS" {
		t.Errorf("not uppercased: %q, %v", got, err)
	}
	if got, err := SpaceKey("MY_SPACE_123"); err != nil || got != "MY_SPACE_123" {
		t.Errorf("underscore form rejected: %q, %v", got, err)
	}
	for _, bad := range []string{"", "X", "123ABC", "MY-SPACE"} {
		if _, err := SpaceKey(bad); err == nil {
			t.Errorf("SpaceKey(%q) accepted", bad)
		}
	}
}

func TestCQL(t *testing.T) {
	valid := []string{
		`space = "DOCS"`,
		`space = "DOCS" AND label = "api" ORDER BY created DESC`,
		`(type = page OR type = blogpost) AND text ~ "x (y)"`,
	}
	for _, q := range valid {
		if got, err := CQL(q); err != nil || got != q {
			t.Errorf("CQL(%q) = %q, %v", q, got, err)
		}
	}

	invalid := map[string]string{
		"":                              "required",
		"space = DOCS AND (label = api": "parentheses",
		"space = DOCS) AND (x = y":      "parentheses",
		`space = "DOCS`:                 "quote",
	}
	for q, want := range invalid {
		_, err := CQL(q)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("CQL(%q) = %v, want mention of %q", q, err, want)
		}
	}
}

func TestContentType(t *testing.T) {
	if got, err := ContentType("page"); err != nil || got != "page" {
		t.Errorf("page = %q, %v", got, err)
	}
	if got, err := ContentType("PAGE"); err != nil || got != "page" {
		t.Errorf("not lowercased: %q, %v", got, err)
	}
	if _, err := ContentType("invalid"); err == nil {
		t.Error("invalid type accepted")
	}
	if got, err := ContentType("custom", "custom", "other"); err != nil || got != "custom" {
		t.Errorf("custom allowed list: %q, %v", got, err)
	}
}

func TestTitle(t *testing.T) {
	if got, err := Title("My Page Title"); err != nil || got != "My Page Title" {
		t.Errorf("Title = %q, %v", got, err)
	}
	for _, bad := range []string{"", strings.Repeat("x", 256), "Title: With Colon", "Title | With Pipe"} {
		if _, err := Title(bad); err == nil {
			t.Errorf("Title(%q) accepted", bad)
		}
	}
	if _, err := Title(strings.Repeat("x", 255)); err != nil {
		t.Errorf("255-char title rejected: %v", err)
	}
}

func TestLabel(t *testing.T) {
	if got, err := Label("my-label"); err != nil || got != "my-label" {
		t.Errorf("Label = %q, %v", got, err)
	}
	if got, err := Label("MY-LABEL"); err != nil || got != "my-label" {
		t.Errorf("not lowercased: %q, %v", got, err)
	}
	for _, bad := range []string{"", "my label", "label@special"} {
		if _, err := Label(bad); err == nil {
			t.Errorf("Label(%q) accepted", bad)
		}
	}
}

func TestLimit(t *testing.T) {
	if got, err := Limit(50, 0); err != nil || got != 50 {
		t.Errorf("Limit(50) = %d, %v", got, err)
	}
	if got, err := Limit(0, 0); err != nil || got != DefaultLimit {
		t.Errorf("zero default = %d, %v", got, err)
	}
	if got, err := Limit(0, 100); err != nil || got != 100 {
		t.Errorf("explicit default = %d, %v", got, err)
	}
	if _, err := Limit(-1, 0); err == nil {
		t.Error("negative limit accepted")
	}
	if _, err := Limit(1000, 0); err == nil {
		t.Error("oversized limit accepted")
	}
}
