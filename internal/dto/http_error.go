// File: internal/dto/http_error.go
package dto

// HTTPError 全域錯誤響應模型
// swagger:model dto.HTTPError
type HTTPError struct {
	// error 錯誤描述，5xx 時固定為 "internal server error"
	Error string `json:"error" example:"Invalid credentials"`
}
