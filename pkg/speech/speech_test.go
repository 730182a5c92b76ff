package speech

import "testing"

func TestSanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "The aid will flow very quickly.",
			expected: "The aid will flow very quickly.",
		},
		{
			name:     "stage direction removed",
			input:    "*leans forward* It's a perfect call.",
			expected: "It's a perfect call.",
		},
		{
			name:     "bracketed aside removed",
			input:    "Tremendous. [gestures broadly] Really tremendous.",
			expected: "Tremendous. Really tremendous.",
		},
		{
			name:     "parenthetical removed",
			input:    "Believe me (pauses) nobody is tougher.",
			expected: "Believe me nobody is tougher.",
		},
		{
			name:     "whitespace collapsed",
			input:    "So   much \n effort.",
			expected: "So much effort.",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSpeakable(t *testing.T) {
	s := NewSanitizer()
	if !s.Speakable("A perfect conversation.") {
		t.Error("Plain text should be speakable")
	}
	if s.Speakable("*nods*") {
		t.Error("Pure stage direction should not be speakable")
	}
	if s.Speakable("   ") {
		t.Error("Whitespace should not be speakable")
	}
}
