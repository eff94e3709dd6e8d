package api

// UpdateMeBody defines profile fields a user may change on themselves.
type UpdateMeBody struct {
	DisplayName *string `json:"display_name"`
	StudentID   *string `json:"student_id"`
}

// UpdateUserBody defines fields admins may change via PATCH /users/:id.
// Pointers distinguish between "field not sent" and "field sent as empty".
type UpdateUserBody struct {
	DisplayName *string `json:"display_name"`
	StudentID   *string `json:"student_id"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
}
