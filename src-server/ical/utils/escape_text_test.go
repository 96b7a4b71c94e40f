package utils_test

import (
	"eslteam/src-server/ical/utils"
	"testing"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a,b", `a\,b`},
		{"a;b", `a\;b`},
		{`C:\path`, `C:\\path`},
		{"line1\nline2", `line1\nline2`},
		{"line1\r\nline2", `line1\nline2`},
		{"Piste & stade, 10h;\nvestiaires", `Piste & stade\, 10h\;\nvestiaires`},
	}
	for _, tt := range tests {
		if got := utils.EscapeText(tt.in); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
