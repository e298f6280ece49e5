// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package server

import (
	"strings"
	"testing"
)

func TestEmbeddedFormGuestCount(t *testing.T) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		t.Fatalf("could not read embedded form: %v", err)
	}
	for _, want := range []string{`id="guests"`, `type="number"`, `min="1"`, `max="10"`} {
		if !strings.Contains(string(page), want) {
			t.Fatalf("guest count input missing %s:\n%s", want, page)
		}
	}

	script, err := staticFS.ReadFile("static/app.js")
	if err != nil {
		t.Fatalf("could not read embedded controller: %v", err)
	}
	for _, want := range []string{
		"guestsInput.value = 0",
		"guestsInput.disabled = true",
		"guestsInput.value = 1",
	} {
		if !strings.Contains(string(script), want) {
			t.Fatalf("attendance toggle missing %q", want)
		}
	}
}
