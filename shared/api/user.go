package api

import (
	"time"

	"github.com/medina-starter/accounts/shared/domain"
	"github.com/medina-starter/accounts/shared/validation"
)

type UpdateUserRequest struct {
	Email        string `json:"email" validate:"required,email,max=320"`
	Name         string `json:"name" validate:"required,max=120"`
	MobileNumber string `json:"mobileNumber,omitempty" validate:"omitempty,max=32,phone"`
	Address      string `json:"address,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateUserRequest) Sanitize() {
	r.Name = validation.Sanitize(r.Name)
	r.Address = validation.Sanitize(r.Address)
}

// UserResponse is the public view of an account. It never carries the
// password hash or a pending verification token.
type UserResponse struct {
	Id            domain.UserId `json:"id"`
	Email         string        `json:"email"`
	Name          string        `json:"name"`
	MobileNumber  string        `json:"mobileNumber,omitempty"`
	Address       string        `json:"address,omitempty"`
	EmailVerified bool          `json:"emailVerified"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type UserListResponse struct {
	Items  []UserResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func NewUserResponse(a domain.Account) UserResponse {
	return UserResponse{
		Id:            a.Id,
		Email:         a.Email,
		Name:          a.Name,
		MobileNumber:  a.MobileNumber,
		Address:       a.Address,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
}

func NewUserListResponse(page domain.AccountPage) UserListResponse {
	items := make([]UserResponse, 0, len(page.Items))
	for _, a := range page.Items {
		items = append(items, NewUserResponse(a))
	}
	return UserListResponse{Items: items, Total: page.Total, Limit: page.Page.Limit, Offset: page.Page.Offset}
}
