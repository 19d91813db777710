package api

// CreateNoteRequest 可用 multipart (附 image 檔案) 或 JSON 送出
// swagger:model api.CreateNoteRequest
type CreateNoteRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=100" example:"Groceries"`
	Content string `json:"content" form:"content" validate:"required" example:"milk, eggs"`
}
