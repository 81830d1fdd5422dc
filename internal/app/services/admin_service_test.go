package services

import (
	"context"
	"errors"
	"testing"

	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/pkg/apperrors"
)

func TestAdminCannotDeactivateSelf(t *testing.T) {
	e := newEnv()
	admin := e.db.addUser(&models.User{Username: "root", Role: models.RoleAdmin})

	_, err := e.admin.ChangeUserStatus(context.Background(), principalOf(admin), admin.ID, models.StatusInactive)
	if !errors.Is(err, apperrors.ErrSelfDeactivation) {
		t.Fatalf("expected ErrSelfDeactivation, got %v", err)
	}
	if err.Error() != MsgSelfDeactivation {
		t.Errorf("message = %q", err.Error())
	}
	if admin.Status != models.StatusActive {
		t.Error("admin status changed")
	}

	if _, err := e.admin.ChangeUserStatus(context.Background(), principalOf(admin), admin.ID, models.StatusActive); err != nil {
		t.Errorf("re-activating self should be allowed: %v", err)
	}
}

func TestAdminChangesOtherUserStatus(t *testing.T) {
	e := newEnv()
	admin := e.db.addUser(&models.User{Username: "root", Role: models.RoleAdmin})
	student := e.db.addUser(&models.User{Username: "kid", Role: models.RoleStudent})

	msg, err := e.admin.ChangeUserStatus(context.Background(), principalOf(admin), student.ID, models.StatusInactive)
	if err != nil {
		t.Fatalf("ChangeUserStatus: %v", err)
	}
	if student.Status != models.StatusInactive {
		t.Errorf("status = %s", student.Status)
	}
	if msg == "" {
		t.Error("empty confirmation message")
	}
}

func TestAdminChangeStatusUnknownUser(t *testing.T) {
	e := newEnv()
	admin := e.db.addUser(&models.User{Username: "root", Role: models.RoleAdmin})

	_, err := e.admin.ChangeUserStatus(context.Background(), principalOf(admin), 12345, models.StatusInactive)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListUsersFiltersAndOrders(t *testing.T) {
	e := newEnv()
	e.db.addUser(&models.User{Username: "s1", FullName: "Zed Student", Role: models.RoleStudent})
	e.db.addUser(&models.User{Username: "s2", FullName: "Amy Student", Role: models.RoleStudent, Status: models.StatusInactive})
	e.db.addUser(&models.User{Username: "a1", FullName: "Admin Person", Role: models.RoleAdmin})

	view, err := e.admin.ListUsers(context.Background(), dto.ListUsersQuery{Role: "student", Status: "all"})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(view.Users) != 2 || view.Users[0].FullName != "Amy Student" {
		t.Errorf("users = %+v", view.Users)
	}

	view, _ = e.admin.ListUsers(context.Background(), dto.ListUsersQuery{Name: "zed"})
	if len(view.Users) != 1 || view.Users[0].Username != "s1" {
		t.Errorf("name filter: %+v", view.Users)
	}

	view, _ = e.admin.ListUsers(context.Background(), dto.ListUsersQuery{Status: "inactive"})
	if len(view.Users) != 1 || view.Users[0].Username != "s2" {
		t.Errorf("status filter: %+v", view.Users)
	}
}
