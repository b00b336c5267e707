package user

type CreateUserInput struct {
	Username string  `form:"username" json:"username" binding:"required,min=3,max=50" example:"johndoe"`
	Password string  `form:"password" json:"password" binding:"required,min=6" example:"password123"`
	Email    *string `form:"email" json:"email" binding:"omitempty,email" example:"user@example.com"`
	FullName *string `form:"full_name" json:"full_name" example:"John Doe"`
}

type LoginInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
