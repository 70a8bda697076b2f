package models

import (
	"slices"
	"testing"
)

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty column", "", nil},
		{"empty array", "[]", []string{}},
		{"ordered list", `["ui","smoke","ui"]`, []string{"ui", "smoke", "ui"}},
		{"malformed json", `["ui",`, nil},
		{"wrong type", `{"t":1}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeTags(tt.raw)
			if !slices.Equal(got, tt.want) {
				t.Errorf("DecodeTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEncodeTags(t *testing.T) {
	if got := EncodeTags(nil); got != "[]" {
		t.Errorf("EncodeTags(nil) = %q, want []", got)
	}
	if got := EncodeTags([]string{"b", "a", "b"}); got != `["b","a","b"]` {
		t.Errorf("encoding must preserve order and duplicates, got %q", got)
	}
}
