package dto

import "github.com/internlink/internlink/internal/app/models"

// ListUsersQuery holds the admin user filters; "all" or empty means no filter
type ListUsersQuery struct {
	Name   string `form:"name" binding:"max=100"`
	Role   string `form:"role" binding:"omitempty,oneof=all student employer admin"`
	Status string `form:"status" binding:"omitempty,oneof=all active inactive"`
}

// UserListView is the admin user list payload
type UserListView struct {
	Users    []*models.User `json:"users"`
	Selected ListUsersQuery `json:"selected"`
}

// ChangeUserStatusRequest is the account status form
type ChangeUserStatusRequest struct {
	Status string `form:"status" json:"status" binding:"required,oneof=active inactive"`
}

// AdminHomeView is the admin dashboard
type AdminHomeView struct {
	User       PrincipalView      `json:"user"`
	UserCounts []models.UserCount `json:"userCounts"`
}
