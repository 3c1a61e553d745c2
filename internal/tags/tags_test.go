package tags

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"Action", "Action", true},
		{"Open World", "Open World", true},
		{"Role-playing", "RPG", true},
		{"Shooter", "FPS", true},
		{"PvP", "Competitive", true},
		{"Massively Multiplayer", "Multiplayer", true},
		{"action", "Action", true},
		{"SHOOTER", "FPS", true},
		{"  Strategy  ", "Strategy", true},
		{"Utilities", "", false},
		{"Early Access", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tc := range cases {
		got, ok := Normalize(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeAllDeduplicates(t *testing.T) {
	raw := []string{"Action", "Role-playing", "action", "RPG", "Utilities", "Single-player"}
	want := []string{"Action", "RPG", "Singleplayer"}

	got := NormalizeAll(raw)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeAll(%v) = %v, want %v", raw, got, want)
	}
}

func TestNormalizeAllEmpty(t *testing.T) {
	if got := NormalizeAll([]string{"Utilities", ""}); len(got) != 0 {
		t.Errorf("NormalizeAll of unmapped strings = %v, want empty", got)
	}
}

func TestIsCanonical(t *testing.T) {
	if !IsCanonical("Action") {
		t.Error("IsCanonical(\"Action\") = false, want true")
	}
	if IsCanonical("action") {
		t.Error("IsCanonical(\"action\") = true, want false (case-sensitive)")
	}
	if IsCanonical("Role-playing") {
		t.Error("IsCanonical(\"Role-playing\") = true, want false (alias, not vocabulary)")
	}
}

func TestAliasesTargetVocabulary(t *testing.T) {
	for raw, tag := range aliases {
		if !vocabSet[tag] {
			t.Errorf("alias %q maps to %q, which is not in the vocabulary", raw, tag)
		}
	}
}
