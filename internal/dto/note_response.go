// File: internal/dto/note_response.go
package dto

import "note-keeper/internal/model"

// swagger:model dto.NoteResponse
type NoteResponse struct {
	ID        int     `json:"id" example:"1"`
	Title     string  `json:"title" example:"Groceries"`
	Content   string  `json:"content" example:"milk, eggs"`
	ImagePath *string `json:"image_path" example:"uploads/20240501T123000_abcd1234_cat.png"`
}

// NewNoteResponse 不輸出 owner_id 與 created_at
func NewNoteResponse(n model.Note) NoteResponse {
	return NoteResponse{ID: n.ID, Title: n.Title, Content: n.Content, ImagePath: n.ImagePath}
}

// NewNoteListResponse 空清單回傳 []，不回傳 null
func NewNoteListResponse(notes []model.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, NewNoteResponse(n))
	}
	return out
}
