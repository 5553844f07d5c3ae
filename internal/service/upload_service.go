package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var (
	ErrNoFile           = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
	ErrInvalidFileType  = errors.New("invalid file type")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidImage     = errors.New("file is not a decodable image")
	ErrFilenameRequired = errors.New("filename is required")
	ErrPathTraversal    = errors.New("path escapes the upload directory")
	ErrUploadNotFound   = errors.New("uploaded file not found")
)

const defaultUploadMaxSize int64 = 5 << 20

// allowedImageTypes 将嗅探得到的 MIME 映射到允许的扩展名。
var allowedImageTypes = map[string][]string{
	"image/jpeg": {"jpg", "jpeg"},
	"image/jpg":  {"jpg", "jpeg"},
	"image/png":  {"png"},
	"image/gif":  {"gif"},
	"image/webp": {"webp"},
}

var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

// UploadedImage describes a stored upload.
type UploadedImage struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// UploadService stores admin image uploads on the local filesystem.
type UploadService struct {
	dir      string
	urlPath  string
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

// NewUploadService creates an UploadService rooted at dir. Files are served
// under baseURL+urlPath.
func NewUploadService(dir, urlPath, baseURL string, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = defaultUploadMaxSize
	}
	return &UploadService{
		dir:      dir,
		urlPath:  "/" + strings.Trim(urlPath, "/"),
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Dir returns the upload directory.
func (s *UploadService) Dir() string {
	return s.dir
}

// MaxBytes returns the per-file size limit.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates and stores an uploaded image.
func (s *UploadService) Save(header *multipart.FileHeader) (*UploadedImage, error) {
	if header == nil {
		return nil, ErrNoFile
	}
	if header.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	mimeType := http.DetectContentType(data)
	exts, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, ErrInvalidFileType
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrInvalidExtension
	}
	if !slices.Contains(exts, ext) {
		return nil, ErrInvalidExtension
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := s.newFilename(ext)
	path := filepath.Join(s.dir, filename)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	return &UploadedImage{
		Filename: filename,
		URL:      s.PublicURL(filename),
		Size:     int64(len(data)),
		Type:     mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// PublicURL returns the URL a stored file is served from.
func (s *UploadService) PublicURL(filename string) string {
	return s.baseURL + s.urlPath + "/" + filename
}

// newFilename 生成 YYYYMMDD_HHMMSS_<uuid> 形式的文件名。
func (s *UploadService) newFilename(ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s.%s", s.now().Format("20060102_150405"), id, ext)
}

// Delete removes a previously uploaded file. name must be a bare file name.
func (s *UploadService) Delete(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrFilenameRequired
	}
	if name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) ||
		filepath.IsAbs(name) ||
		filepath.Base(name) != name {
		return ErrPathTraversal
	}

	base, err := filepath.EvalSymlinks(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrUploadNotFound
		}
		return err
	}
	base, err = filepath.Abs(base)
	if err != nil {
		return err
	}

	target := filepath.Join(base, name)
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrUploadNotFound
		}
		return err
	}
	if err := validatePathWithinBase(base, resolved); err != nil {
		return err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrUploadNotFound
		}
		return err
	}
	if info.IsDir() {
		return ErrUploadNotFound
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrUploadNotFound
		}
		return err
	}
	return nil
}

func validatePathWithinBase(base, target string) error {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return err
	}
	absTarget, err := filepath.Abs(filepath.Clean(target))
	if err != nil {
		return err
	}
	if absTarget == absBase || !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return ErrPathTraversal
	}
	return nil
}

// Writable reports whether the upload directory exists and accepts new files.
func (s *UploadService) Writable() (exists, writable bool) {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return false, false
	}
	probe, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return true, false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true, true
}
