package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/pkg/apperrors"
)

func validSignup() *dto.SignupRequest {
	return &dto.SignupRequest{
		Username:        "alice01",
		Email:           "alice@example.com",
		Password:        "Str0ng!pass",
		ConfirmPassword: "Str0ng!pass",
		FullName:        "Alice Example",
		University:      "Lincoln University",
		Course:          "Computer Science",
	}
}

func TestRegisterCreatesUserAndStudent(t *testing.T) {
	e := newEnv()
	req := validSignup()
	req.Resume = upload("CV.pdf")

	resp, err := e.auth.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.RedirectTo != "/login" {
		t.Errorf("RedirectTo = %q", resp.RedirectTo)
	}

	user, err := e.users.GetByID(context.Background(), resp.UserID)
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if user.Role != models.RoleStudent || user.Status != models.StatusActive {
		t.Errorf("role/status = %s/%s", user.Role, user.Status)
	}
	if user.PasswordHash != "plain:Str0ng!pass" {
		t.Errorf("password was not hashed through the hasher: %q", user.PasswordHash)
	}

	student, err := e.students.GetByUserID(context.Background(), resp.UserID)
	if err != nil {
		t.Fatalf("student not stored: %v", err)
	}
	if student.ResumePath == nil || !strings.HasPrefix(*student.ResumePath, "uploads/resume_alice01") {
		t.Errorf("resume path = %v", student.ResumePath)
	}
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"", "Password is required."},
		{"Ab1!", "Password must be at least 8 characters long."},
		{"lower1!case", "Password must contain at least one uppercase letter."},
		{"UPPER1!CASE", "Password must contain at least one lowercase letter."},
		{"NoDigits!!", "Password must contain at least one digit."},
		{"NoSpecial12", "Password must contain at least one special character."},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e := newEnv()
			req := validSignup()
			req.Password = tt.password
			req.ConfirmPassword = tt.password

			_, err := e.auth.Register(context.Background(), req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if got := fieldError(err, "password"); got != tt.want {
				t.Errorf("password error = %q, want %q", got, tt.want)
			}
			if len(e.db.users) != 0 {
				t.Error("user written despite validation failure")
			}
		})
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	e := newEnv()
	e.db.addUser(&models.User{Username: "alice01", Role: models.RoleStudent})

	_, err := e.auth.Register(context.Background(), validSignup())
	if got := fieldError(err, "username"); got != MsgUsernameTaken {
		t.Fatalf("username error = %q (err %v)", got, err)
	}
}

func TestRegisterCollectsAllFieldErrors(t *testing.T) {
	e := newEnv()
	req := &dto.SignupRequest{
		Username:        "a!",
		Email:           "not-an-email",
		Password:        "Str0ng!pass",
		ConfirmPassword: "different",
		ProfileImage:    upload("me.bmp"),
		Resume:          upload("cv.docx"),
	}

	_, err := e.auth.Register(context.Background(), req)
	ve, ok := apperrors.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"username":         "Your username must be at least 3 characters long.",
		"email":            "Invalid email address.",
		"confirm_password": "Passwords do not match.",
		"full_name":        "Full name is required.",
		"university":       "University is required.",
		"course":           "Course is required.",
		"resume":           "Resume must be a PDF file.",
		"profile_image":    "Profile image must be a PNG, JPG, JPEG, or GIF file.",
	}
	for field, msg := range want {
		if ve.Fields[field] != msg {
			t.Errorf("%s = %q, want %q", field, ve.Fields[field], msg)
		}
	}
	if len(e.storage.saved) != 0 {
		t.Error("files saved despite validation failure")
	}
}

func TestRegisterRemovesUploadsWhenTransactionFails(t *testing.T) {
	e := newEnv()
	e.students.createErr = errBoom
	req := validSignup()
	req.ProfileImage = upload("me.png")
	req.Resume = upload("cv.pdf")

	if _, err := e.auth.Register(context.Background(), req); !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(e.storage.saved) != 2 {
		t.Fatalf("saved = %v", e.storage.saved)
	}
	for _, p := range e.storage.saved {
		if !e.storage.wasDeleted(p) {
			t.Errorf("%s left behind after failed signup", p)
		}
	}
}

func TestLoginSucceedsForActiveAccount(t *testing.T) {
	e := newEnv()
	u := e.db.addUser(&models.User{Username: "emp1", PasswordHash: "plain:Secret1!", Role: models.RoleEmployer})

	resp, issued, err := e.auth.Login(context.Background(), &dto.LoginRequest{Username: "emp1", Password: "Secret1!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.RedirectTo != "/employer/home" || resp.User.UserID != u.ID {
		t.Errorf("unexpected response %+v", resp)
	}

	principal, err := e.auth.ValidateSession(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if principal.UserID != u.ID || principal.Role != models.RoleEmployer || principal.TokenID != issued.TokenID {
		t.Errorf("principal = %+v", principal)
	}
}

func TestLoginInactiveAccountReportedRegardlessOfPassword(t *testing.T) {
	e := newEnv()
	e.db.addUser(&models.User{Username: "sleepy", PasswordHash: "plain:Right1!", Role: models.RoleStudent, Status: models.StatusInactive})

	for _, pw := range []string{"Right1!", "wrong"} {
		_, _, err := e.auth.Login(context.Background(), &dto.LoginRequest{Username: "sleepy", Password: pw})
		if !errors.Is(err, apperrors.ErrAccountDisabled) {
			t.Errorf("password %q: expected ErrAccountDisabled, got %v", pw, err)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	e := newEnv()
	e.db.addUser(&models.User{Username: "bob", PasswordHash: "plain:Right1!", Role: models.RoleStudent})

	tests := []struct {
		name      string
		req       dto.LoginRequest
		wantErr   error
		wantField string
	}{
		{"missing password", dto.LoginRequest{Username: "bob"}, apperrors.ErrBadRequest, ""},
		{"missing username", dto.LoginRequest{Password: "x"}, apperrors.ErrBadRequest, ""},
		{"unknown user", dto.LoginRequest{Username: "nobody", Password: "x"}, apperrors.ErrInvalidCredentials, "username"},
		{"wrong password", dto.LoginRequest{Username: "bob", Password: "nope"}, apperrors.ErrInvalidCredentials, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.auth.Login(context.Background(), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var ce *apperrors.CustomError
			if tt.wantField != "" && (!errors.As(err, &ce) || ce.Field != tt.wantField) {
				t.Errorf("field = %v, want %s", ce, tt.wantField)
			}
		})
	}
}

func TestValidateSessionRejectsGarbage(t *testing.T) {
	e := newEnv()
	if _, err := e.auth.ValidateSession(context.Background(), "not.a.token"); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.ChangePasswordRequest
		field string
		want  string
	}{
		{"missing current", dto.ChangePasswordRequest{NewPassword: "N3w!pass", ConfirmNewPassword: "N3w!pass"},
			"current_password", "Please enter your current password."},
		{"missing new", dto.ChangePasswordRequest{CurrentPassword: "Old!pass1"},
			"new_password", "Please enter a new password."},
		{"missing confirm", dto.ChangePasswordRequest{CurrentPassword: "Old!pass1", NewPassword: "N3w!pass"},
			"confirm_new_password", "Please confirm your new password."},
		{"incorrect current", dto.ChangePasswordRequest{CurrentPassword: "bad", NewPassword: "N3w!pass", ConfirmNewPassword: "N3w!pass"},
			"current_password", "Incorrect current password."},
		{"mismatch", dto.ChangePasswordRequest{CurrentPassword: "Old!pass1", NewPassword: "N3w!pass", ConfirmNewPassword: "N3w!pasz"},
			"confirm_new_password", "New password and confirmation do not match."},
		{"weak", dto.ChangePasswordRequest{CurrentPassword: "Old!pass1", NewPassword: "weakpass", ConfirmNewPassword: "weakpass"},
			"new_password", "New password must contain at least one uppercase letter."},
		{"same as current", dto.ChangePasswordRequest{CurrentPassword: "Old!pass1", NewPassword: "Old!pass1", ConfirmNewPassword: "Old!pass1"},
			"new_password", "New password cannot be the same as your current password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			u := e.db.addUser(&models.User{Username: "carol", PasswordHash: "plain:Old!pass1", Role: models.RoleStudent})

			err := e.auth.ChangePassword(context.Background(), principalOf(u), &tt.req)
			if got := fieldError(err, tt.field); got != tt.want {
				t.Fatalf("%s = %q, want %q (err %v)", tt.field, got, tt.want, err)
			}
			if u.PasswordHash != "plain:Old!pass1" {
				t.Error("password changed despite validation failure")
			}
		})
	}
}

func TestChangePasswordMismatchMarksBothFields(t *testing.T) {
	e := newEnv()
	u := e.db.addUser(&models.User{Username: "dave", PasswordHash: "plain:Old!pass1", Role: models.RoleStudent})

	err := e.auth.ChangePassword(context.Background(), principalOf(u), &dto.ChangePasswordRequest{
		CurrentPassword: "Old!pass1", NewPassword: "N3w!pass", ConfirmNewPassword: "other",
	})
	if fieldError(err, "new_password") == "" || fieldError(err, "confirm_new_password") == "" {
		t.Fatalf("expected both fields flagged, got %v", err)
	}
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	e := newEnv()
	u := e.db.addUser(&models.User{Username: "erin", PasswordHash: "plain:Old!pass1", Role: models.RoleAdmin})

	err := e.auth.ChangePassword(context.Background(), principalOf(u), &dto.ChangePasswordRequest{
		CurrentPassword: "Old!pass1", NewPassword: "N3w!pass", ConfirmNewPassword: "N3w!pass",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if u.PasswordHash != "plain:N3w!pass" {
		t.Errorf("hash = %q", u.PasswordHash)
	}
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	e := newEnv()
	if err := e.auth.Logout(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if err := e.auth.Logout(context.Background(), &models.Principal{UserID: 1, TokenID: "abc"}); err != nil {
		t.Fatal(err)
	}
}
