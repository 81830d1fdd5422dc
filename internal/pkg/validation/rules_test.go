package validation

import (
	"strings"
	"testing"
)

func TestUsernameFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ab", "Your username must be at least 3 characters long."},
		{strings.Repeat("a", 51), "Your username cannot exceed 50 characters."},
		{"liam_p", "Your username can only contain letters and numbers."},
		{"stuLiam1", ""},
	}
	for _, tt := range tests {
		if got := UsernameFormat(tt.in); got != tt.want {
			t.Errorf("UsernameFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Email address is required."},
		{"no-at-sign", "Invalid email address."},
		{"a@b", "Invalid email address."},
		{strings.Repeat("a", 95) + "@b.com", "Your email address cannot exceed 100 characters."},
		{"liam@example.com", ""},
	}
	for _, tt := range tests {
		if got := Email(tt.in); got != tt.want {
			t.Errorf("Email(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPasswordComplexity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ab1!", "Password must be at least 8 characters long."},
		{"abcdefg1!", "Password must contain at least one uppercase letter."},
		{"ABCDEFG1!", "Password must contain at least one lowercase letter."},
		{"Abcdefgh!", "Password must contain at least one digit."},
		{"Abcdefgh1", "Password must contain at least one special character."},
		{"LiamP@ss1H!", ""},
	}
	for _, tt := range tests {
		if got := PasswordComplexity(tt.in, "Password"); got != tt.want {
			t.Errorf("PasswordComplexity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := PasswordComplexity("short", "New password"); got != "New password must be at least 8 characters long." {
		t.Errorf("subject prefix not applied: %q", got)
	}
}

func TestRequiredTextAndWebsite(t *testing.T) {
	if got := RequiredText("", "University"); got != "University is required." {
		t.Errorf("got %q", got)
	}
	if got := RequiredText(strings.Repeat("é", 101), "Course"); got != "Course cannot exceed 100 characters." {
		t.Errorf("got %q", got)
	}
	if got := RequiredText(strings.Repeat("é", 100), "Course"); got != "" {
		t.Errorf("100 multi-byte characters rejected: %q", got)
	}

	if Website("") != "" || Website("https://alpha.example") != "" {
		t.Error("valid website rejected")
	}
	if Website("ftp://alpha") == "" {
		t.Error("invalid website accepted")
	}
}

func TestFileTypes(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif"} {
		if !IsImage(name) {
			t.Errorf("IsImage(%q) = false", name)
		}
	}
	for _, name := range []string{"a.pdf", "b.bmp", "noext"} {
		if IsImage(name) {
			t.Errorf("IsImage(%q) = true", name)
		}
	}
	if !IsPDF("cv.PDF") || IsPDF("cv.docx") {
		t.Error("IsPDF mismatch")
	}
}
