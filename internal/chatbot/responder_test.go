package chatbot

import "testing"

func TestRespond_TableOrderBreaksTies(t *testing.T) {
	r := DefaultResponder()

	got := r.Respond("Hello, how are you")
	want := "Hello! Ask me about water parameters like pH, sulfate, etc."
	if got != want {
		t.Errorf("Respond = %q, want %q", got, want)
	}
}

func TestRespond_Fallback(t *testing.T) {
	r := DefaultResponder()
	if got := r.Respond("xyzzy"); got != Fallback {
		t.Errorf("Respond = %q, want fallback %q", got, Fallback)
	}
}

func TestRespond_Keywords(t *testing.T) {
	r := DefaultResponder()
	tests := []struct {
		input string
		want  string
	}{
		{"What is PH?", DefaultTable[0].Reply},
		{"tell me about HARDNESS", DefaultTable[1].Reply},
		{"is it safe?", DefaultTable[2].Reply},
		{"Sulfate levels", DefaultTable[3].Reply},
		{"hello", DefaultTable[4].Reply},
		{"How are you today", DefaultTable[5].Reply},
		// "ph" is a substring of "phosphate" and is checked first.
		{"phosphate?", DefaultTable[0].Reply},
		// "safe" precedes "sulfate" in table order.
		{"is sulfate safe", DefaultTable[2].Reply},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := r.Respond(tt.input); got != tt.want {
				t.Errorf("Respond(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRespond_Stateless(t *testing.T) {
	r := DefaultResponder()
	first := r.Respond("sulfate")
	r.Respond("hello")
	if again := r.Respond("sulfate"); again != first {
		t.Errorf("reply changed between calls: %q vs %q", first, again)
	}
}

func TestNewResponder_Validation(t *testing.T) {
	if _, err := NewResponder(nil, Fallback); err == nil {
		t.Error("expected error for empty table")
	}
	if _, err := NewResponder([]Entry{{Keyword: "  ", Reply: "x"}}, Fallback); err == nil {
		t.Error("expected error for blank keyword")
	}

	r, err := NewResponder([]Entry{{Keyword: "Chlorine", Reply: "Chlorine disinfects."}}, "?")
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}
	if got := r.Respond("too much CHLORINE"); got != "Chlorine disinfects." {
		t.Errorf("keyword should be matched case-insensitively, got %q", got)
	}
	if got := r.Respond("nothing"); got != "?" {
		t.Errorf("custom fallback = %q", got)
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	r := DefaultResponder()
	e := r.Entries()
	e[0].Reply = "changed"
	if r.Respond("ph") == "changed" {
		t.Error("Entries must not expose the internal table")
	}
}
