// File: internal/handler/notes/notes.go
package notes

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"note-keeper/internal/api"
	"note-keeper/internal/database"
	"note-keeper/internal/dto"
	"note-keeper/internal/handler"
	"note-keeper/internal/middleware"
	"note-keeper/internal/model"
	"note-keeper/internal/store"
	"note-keeper/internal/upload"

	"github.com/labstack/echo/v4"
)

// 以下變數供測試覆寫
var (
	createNote       = store.CreateNote
	listNotesByOwner = store.ListNotesByOwner
	deleteNote       = store.DeleteNote
)

const imageField = "image"

const invalidNoteMessage = "title and content are required (title at most 100 characters)"

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, dto.HTTPError{Error: "Unauthenticated"})
}

// ListNotesHandler 列出目前使用者的筆記
// @Summary     列出筆記
// @Description 依建立順序回傳目前使用者的所有筆記；沒有筆記時回傳 []
// @Tags        notes
// @Produce     json
// @Success     200 {array}  dto.NoteResponse
// @Failure     401 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /api/notes [get]
func ListNotesHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		if user == nil {
			return unauthenticated(c)
		}
		list, err := listNotesByOwner(c.Request().Context(), db, user.ID)
		if err != nil {
			return handler.InternalError(c, err)
		}
		return c.JSON(http.StatusOK, dto.NewNoteListResponse(list))
	}
}

// imageHeader 取出選填的圖片欄位；JSON 請求或沒有附檔時回傳 nil
func imageHeader(c echo.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return fh, nil
}

// CreateNoteHandler 建立筆記，可附一張圖片
// @Summary     建立筆記
// @Description 以 multipart 送出 title、content 與選填的 image；也接受 JSON (不含圖片)
// @Tags        notes
// @Accept      multipart/form-data
// @Accept      json
// @Produce     json
// @Param       title   formData string true  "標題"
// @Param       content formData string true  "內容"
// @Param       image   formData file   false "圖片 (png/jpg/jpeg/gif)"
// @Success     201     {object} dto.NoteResponse
// @Failure     400     {object} dto.HTTPError
// @Failure     401     {object} dto.HTTPError
// @Failure     413     {object} dto.HTTPError
// @Failure     500     {object} dto.HTTPError
// @Router      /api/notes [post]
func CreateNoteHandler(db database.Querier, uploads upload.Uploader) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		if user == nil {
			return unauthenticated(c)
		}

		var req api.CreateNoteRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		// 只含空白視為未填，但儲存時保留原文
		if err := c.Validate(&req); err != nil ||
			strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
			return handler.BadRequest(c, invalidNoteMessage)
		}

		fh, err := imageHeader(c)
		if err != nil {
			return handler.BadRequest(c, "invalid image upload")
		}
		rel, err := uploads.Accept(fh)
		if err != nil {
			return handler.InternalError(c, err)
		}

		n := &model.Note{Title: req.Title, Content: req.Content, OwnerID: user.ID}
		if rel != "" {
			n.ImagePath = &rel
		}
		created, err := createNote(c.Request().Context(), db, n)
		if err != nil {
			if rel != "" {
				if rmErr := uploads.Remove(rel); rmErr != nil {
					c.Logger().Errorf("remove orphaned upload %s: %v", rel, rmErr)
				}
			}
			return handler.InternalError(c, err)
		}
		return c.JSON(http.StatusCreated, dto.NewNoteResponse(*created))
	}
}

// DeleteNoteHandler 刪除自己的筆記與其圖片
// @Summary     刪除筆記
// @Description 只有擁有者可以刪除；圖片刪除失敗只記錄不回報
// @Tags        notes
// @Param       id  path int true "筆記 ID"
// @Success     204
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /api/notes/{id} [delete]
func DeleteNoteHandler(db database.DB, uploads upload.Uploader) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		if user == nil {
			return unauthenticated(c)
		}
		// id 欄位為 SERIAL (int4)
		id, err := strconv.ParseInt(c.Param("id"), 10, 32)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(c.Param("id"), "-") {
				return c.JSON(http.StatusNotFound, dto.HTTPError{Error: "Note not found"})
			}
			return handler.BadRequest(c, "invalid note id")
		}
		if id <= 0 {
			return handler.BadRequest(c, "invalid note id")
		}

		imagePath, err := deleteNote(c.Request().Context(), db, int(id), user.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, dto.HTTPError{Error: "Note not found"})
		case errors.Is(err, store.ErrForbidden):
			return c.JSON(http.StatusForbidden, dto.HTTPError{Error: "Unauthorized"})
		case err != nil:
			return handler.InternalError(c, err)
		}

		if imagePath != "" {
			if err := uploads.Remove(imagePath); err != nil {
				c.Logger().Errorf("remove image of note %d: %v", id, err)
			}
		}
		return c.NoContent(http.StatusNoContent)
	}
}
