package models

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// UpdateProfileRequest is the body of PATCH /api/me.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateRoleRequest is the body of PATCH /api/admin/accounts/{id}/role.
type UpdateRoleRequest struct {
	Role Role `json:"role"`
}

// UpdateStatusRequest is the body of PATCH /api/admin/accounts/{id}/status.
type UpdateStatusRequest struct {
	Status AccountStatus `json:"status"`
}
