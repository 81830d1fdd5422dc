package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain cover letter  ", "plain cover letter"},
		{"<script>alert(1)</script>Hire me", "Hire me"},
		{"<b>Strong</b> candidate", "Strong candidate"},
		{"R&D and C++ > Java", "R&D and C++ > Java"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
