package theme

import (
	"slices"
	"strings"
	"testing"
)

func TestThemes_AllRegistered(t *testing.T) {
	expected := []string{"default", "light", "monokai", "mono"}
	for _, name := range expected {
		if _, ok := Themes[name]; !ok {
			t.Errorf("expected theme %q to be registered", name)
		}
	}
}

func TestThemes_NamesMatch(t *testing.T) {
	for name, th := range Themes {
		if th.Name != name {
			t.Errorf("theme registered as %q has Name=%q", name, th.Name)
		}
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d == nil {
		t.Fatal("Default() returned nil")
	}
	if d.Name != "default" {
		t.Errorf("Default().Name = %q, want %q", d.Name, "default")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"default", "default"},
		{"light", "light"},
		{"monokai", "monokai"},
		{"mono", "mono"},
		{"nonexistent", "default"},
		{"", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := Get(tt.name)
			if th == nil {
				t.Fatalf("Get(%q) returned nil", tt.name)
			}
			if th.Name != tt.want {
				t.Errorf("Get(%q).Name = %q, want %q", tt.name, th.Name, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	got := Names()
	want := []string{"default", "light", "mono", "monokai"}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestTheme_StylesKeepText(t *testing.T) {
	for name, th := range Themes {
		t.Run(name, func(t *testing.T) {
			pairs := []struct {
				label string
				text  string
				out   string
			}{
				{"SQLKeyword", "SELECT", th.SQLKeyword.Render("SELECT")},
				{"SQLString", "'hello'", th.SQLString.Render("'hello'")},
				{"SQLNumber", "42", th.SQLNumber.Render("42")},
				{"SQLComment", "-- note", th.SQLComment.Render("-- note")},
				{"SQLOperator", "=", th.SQLOperator.Render("=")},
				{"SQLFunction", "COUNT", th.SQLFunction.Render("COUNT")},
				{"SQLType", "INT", th.SQLType.Render("INT")},
				{"SQLIdentifier", "users", th.SQLIdentifier.Render("users")},
				{"Heading", "Tables", th.Heading.Render("Tables")},
				{"Item", "users", th.Item.Render("users")},
				{"Selected", "orders", th.Selected.Render("orders")},
				{"MutedText", "muted", th.MutedText.Render("muted")},
				{"ErrorText", "error", th.ErrorText.Render("error")},
				{"SuccessText", "ok", th.SuccessText.Render("ok")},
			}
			for _, p := range pairs {
				if !strings.Contains(p.out, p.text) {
					t.Errorf("%s: %s rendered %q, want it to contain %q", name, p.label, p.out, p.text)
				}
			}
		})
	}
}

func TestThemes_AreDistinct(t *testing.T) {
	seen := make(map[*Theme]string)
	for name, th := range Themes {
		if other, ok := seen[th]; ok {
			t.Errorf("%s and %s are the same pointer", name, other)
		}
		seen[th] = name
	}
}
