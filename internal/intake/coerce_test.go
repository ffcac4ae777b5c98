package intake

import "testing"

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{true, true},
		{false, false},
		{float64(1), true},
		{float64(0), false},
		{float64(-3.5), true},
		{7, true},
		{0, false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"  on  ", true},
		{"off", false},
		{"no", false},
		{"0", false},
		{"", false},
		{"anything", false},
		{nil, false},
		{[]any{"on"}, false},
	}

	for _, tt := range tests {
		if got := coerceBool(tt.value); got != tt.want {
			t.Errorf("coerceBool(%#v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestAsString(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(123), "123"},
		{float64(1.5), "1.5"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := asString(tt.value); got != tt.want {
			t.Errorf("asString(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
