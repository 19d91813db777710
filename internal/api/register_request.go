package api

// 長度上限對應 users 欄位與 bcrypt 的 72 bytes 限制
// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=120" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required,max=72" example:"Secret123!"`
	Name     string `json:"name" form:"name" validate:"required,max=100" example:"Alice"`
}
