// File: internal/model/note.go
package model

import "time"

// Note 屬於唯一的 OwnerID；ImagePath 為相對於靜態目錄的路徑，沒有圖片時為 nil
type Note struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	ImagePath *string   `db:"image_path" json:"image_path"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
