// File: internal/upload/upload.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrOutsideUploadDir 表示要刪除的路徑不在上傳目錄之下
var ErrOutsideUploadDir = errors.New("path outside upload directory")

// 以下變數供測試覆寫
var (
	timeNow  = time.Now
	newToken = randomToken
	openFile = os.OpenFile
)

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

const (
	// maxNameLen 清理後檔名的上限（bytes，含副檔名）
	maxNameLen = 100
	// storedPrefixLen "20060102T150405_xxxxxxxx_" 的長度
	storedPrefixLen = 25
	// maxImagePath 對應 notes.image_path VARCHAR(255)
	maxImagePath = 255
)

// Uploader 是 note handler 需要的上傳操作
type Uploader interface {
	Accept(fh *multipart.FileHeader) (string, error)
	Remove(rel string) error
}

// Store 將圖片存到 <root>/<dir>，回傳相對於 root 的路徑
type Store struct {
	root    string
	dir     string
	allowed map[string]bool
}

// NewStore 建立上傳目錄（若不存在）並回傳 Store；exts 不含前置的點
func NewStore(root, dir string, exts []string) (*Store, error) {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	clean := filepath.ToSlash(filepath.Clean(dir))
	if len(clean)+1+storedPrefixLen+maxNameLen > maxImagePath {
		return nil, fmt.Errorf("NewStore: upload dir %q too long", dir)
	}
	if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
		return nil, fmt.Errorf("NewStore: %w", err)
	}
	return &Store{root: root, dir: clean, allowed: allowed}, nil
}

// Allowed 判斷檔名副檔名是否在允許清單內（不分大小寫）
func (s *Store) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	return ext != "" && s.allowed[ext]
}

// SanitizeFilename 去除路徑並把不安全字元換成底線；
// 超過 maxNameLen 時截短主檔名並保留副檔名
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "/" {
		return "file"
	}
	if len(name) > maxNameLen {
		// 清理後只剩 ASCII，可直接以 byte 切割
		ext := path.Ext(name)
		if len(ext) >= maxNameLen {
			ext = ""
		}
		name = name[:maxNameLen-len(ext)] + ext
	}
	return name
}

// Accept 儲存上傳的檔案並回傳 "<dir>/<name>"。
// fh 為 nil 或副檔名不允許時回傳空字串且無錯誤。
func (s *Store) Accept(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" || !s.Allowed(fh.Filename) {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("Accept: open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s_%s_%s",
		timeNow().UTC().Format("20060102T150405"), newToken(), SanitizeFilename(fh.Filename))
	full := filepath.Join(s.root, filepath.FromSlash(s.dir), name)

	dst, err := openFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("Accept: create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("Accept: write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("Accept: close file: %w", err)
	}
	return path.Join(s.dir, name), nil
}

// Remove 刪除 Accept 回傳的相對路徑；檔案不存在不視為錯誤
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	clean := path.Clean("/" + filepath.ToSlash(rel))[1:]
	if !strings.HasPrefix(clean, s.dir+"/") {
		return fmt.Errorf("Remove %q: %w", rel, ErrOutsideUploadDir)
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("Remove: %w", err)
	}
	return nil
}
