package ui

import (
	"strings"
	"testing"
)

func TestField(t *testing.T) {
	got := Field("Price", "129.99", 10)
	want := ColorCyan + "Price" + ColorReset + "     129.99"
	if got != want {
		t.Errorf("Field() = %q, want %q", got, want)
	}

	if !strings.Contains(Field("Title", "", 10), Missing) {
		t.Errorf("Expected missing marker for empty value")
	}
	if !strings.HasSuffix(Field("VeryLongLabel", "x", 4), " x") {
		t.Errorf("Expected at least one space of padding")
	}
}
