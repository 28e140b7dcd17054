package common

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Michelin", "michelin"},
		{"Primacy 4", "primacy-4"},
		{"205/55R16", "205-55r16"},
		{"  Iarnă  ", "iarna"},
		{"Anvelope Ţărănești / SUV", "anvelope-taranesti-suv"},
		{"--a--b--", "a-b"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyParts(t *testing.T) {
	got := SlugifyParts("Michelin", "Primacy 4", "205/55R16", "sh", "", "2mm", " ")
	want := "michelin-primacy-4-205-55r16-sh-2mm"
	if got != want {
		t.Errorf("SlugifyParts = %q, want %q", got, want)
	}
}

func TestFold(t *testing.T) {
	if got := Fold("SECOND HÂND"); got != "second hand" {
		t.Errorf("Fold = %q", got)
	}
}
