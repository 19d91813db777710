package store

import (
	"context"
	"errors"
	"fmt"

	"note-keeper/internal/database"
	"note-keeper/internal/model"

	"github.com/jackc/pgx/v5"
)

// CreateNote 新增筆記，回填 ID 與 CreatedAt
func CreateNote(ctx context.Context, db database.Querier, n *model.Note) (*model.Note, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO notes (title, content, image_path, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		n.Title,
		n.Content,
		n.ImagePath,
		n.OwnerID,
	)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateNote: %w", err)
	}
	return n, nil
}

// ListNotesByOwner 依建立順序列出使用者的筆記；沒有資料時回傳空 slice
func ListNotesByOwner(ctx context.Context, db database.Querier, ownerID int) ([]model.Note, error) {
	rows, err := db.Query(ctx,
		`SELECT id, title, content, image_path, owner_id, created_at
		 FROM notes WHERE owner_id = $1
		 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListNotesByOwner: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(
			&n.ID,
			&n.Title,
			&n.Content,
			&n.ImagePath,
			&n.OwnerID,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListNotesByOwner: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListNotesByOwner: %w", err)
	}
	return notes, nil
}

// DeleteNote 在 transaction 內鎖定並刪除筆記，回傳原本的圖片路徑（可能為空字串）。
// 筆記不存在回傳 ErrNotFound，不屬於 requesterID 回傳 ErrForbidden。
// 同一筆記的並行刪除會在 FOR UPDATE 排隊，後到者得到 ErrNotFound。
func DeleteNote(ctx context.Context, db database.DB, noteID, requesterID int) (string, error) {
	var imagePath *string
	err := database.WithTx(ctx, db, func(tx pgx.Tx) error {
		var ownerID int
		row := tx.QueryRow(ctx,
			`SELECT owner_id, image_path FROM notes WHERE id = $1 FOR UPDATE`,
			noteID,
		)
		if err := row.Scan(&ownerID, &imagePath); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if ownerID != requesterID {
			return ErrForbidden
		}

		tag, err := tx.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("DeleteNote: %w", err)
	}
	if imagePath == nil {
		return "", nil
	}
	return *imagePath, nil
}
