package user

type CreateUserInput struct {
	Username string  `json:"username" form:"username" binding:"required,min=3,max=50" example:"johndoe"`
	Password string  `json:"password" form:"password" binding:"required,min=6" example:"password123"`
	Email    *string `json:"email" form:"email" binding:"omitempty,email" example:"user@example.com"`
	FullName *string `json:"full_name" form:"full_name" example:"John Doe"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type TokenDTO struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}
