package dto

import dom "github.com/ig0r-ferreira/todoapi/internal/domain"

// CreateUserRequest is the JSON body for POST /users/.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// UpdateUserRequest is the JSON body for PUT /users/{id}. All fields are
// optional; absent fields keep their current value.
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=120"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=1"`
}

// Patch converts the request into a domain patch.
func (r UpdateUserRequest) Patch() dom.UserPatch {
	return dom.UserPatch{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// UserResponse is the public view of a user. The password hash is not a
// field here, so it cannot leak by construction.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

func UserToResponse(u dom.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func UsersToResponses(list []dom.User) []UserResponse {
	out := make([]UserResponse, len(list))
	for i := range list {
		out[i] = UserToResponse(list[i])
	}
	return out
}
