package dto

import (
	"github.com/taskbox/taskbox-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserResponse is the envelope for single-user responses.
type UserResponse struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToUserResponse wraps a user in the response envelope.
func ToUserResponse(user models.User) UserResponse {
	return UserResponse{
		Success: true,
		User:    ToUserDTO(user),
	}
}
