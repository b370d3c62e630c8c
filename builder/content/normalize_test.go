package content

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalizeStringList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"nil", nil, []string{}},
		{"string", " go, math;ml  ai ", []string{"go", "math", "ml", "ai"}},
		{"empty parts", ",,;", []string{}},
		{"sequence", []any{"a b", "b", []any{"c", "a"}}, []string{"a", "b", "c"}},
		{"string slice", []string{"x", "x y"}, []string{"x", "y"}},
		{"mapping in key order", map[string]any{"z": "last", "a": []any{"first"}}, []string{"first", "last"}},
		{"numbers", []any{2024, 1.5}, []string{"2024", "1.5"}},
		{"bool ignored", []any{true, "t"}, []string{"t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStringList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeStringList() = %#v, want %#v", got, tt.want)
			}
			if again := NormalizeStringList(got); !reflect.DeepEqual(again, got) {
				t.Errorf("not idempotent: %#v -> %#v", got, again)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	fixed := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"time", fixed, "2024-03-04"},
		{"pointer", &fixed, "2024-03-04"},
		{"iso date", "2024-03-04", "2024-03-04"},
		{"rfc3339", "2024-03-04T10:00:00Z", "2024-03-04"},
		{"year month", "2024-03", "2024-03-01"},
		{"year", "2024", "2024-01-01"},
		{"blank", "  ", ""},
		{"garbage", "not a date", ""},
		{"number", 42, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDate() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ParseDate() = nil")
			}
			if s := got.Format("2006-01-02"); s != tt.want {
				t.Errorf("ParseDate() = %s, want %s", s, tt.want)
			}
		})
	}
}

func TestStripDatePrefix(t *testing.T) {
	tests := map[string]string{
		"2024-01-02-hello": "hello",
		"hello":            "hello",
		"2024-01-hello":    "2024-01-hello",
	}
	for in, want := range tests {
		if got := StripDatePrefix(in); got != want {
			t.Errorf("StripDatePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words       int
		wantMinutes int
	}{
		{0, 1},
		{99, 1},
		{300, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		body := ""
		for i := 0; i < tt.words; i++ {
			body += "word "
		}
		words, minutes := ReadingTime(body)
		if words != tt.words || minutes != tt.wantMinutes {
			t.Errorf("ReadingTime(%d words) = %d, %d; want %d", tt.words, words, minutes, tt.wantMinutes)
		}
	}
}
