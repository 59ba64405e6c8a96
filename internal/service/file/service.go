package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// Images above this size are downscaled before storing.
	compressThreshold = 512 * 1024
	maxImageDimension = 1600
	jpegQuality       = 80
)

type FileService interface {
	// StageAttachment stores a leave request attachment under a unique name in
	// attachments/staging until CommitAttachment moves it to its final path.
	StageAttachment(ctx context.Context, file io.Reader, filename string) (StagedAttachment, error)

	CommitAttachment(ctx context.Context, staged StagedAttachment, finalPath string) error
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(path string) string
}

// StagedAttachment is an uploaded file that is not yet bound to a record.
type StagedAttachment struct {
	Path string
	Ext  string
}

// FinalPath is attachments/attendance_{employeeID}_{YYYYMMDD}.{ext}.
func (a StagedAttachment) FinalPath(employeeID string, date time.Time) string {
	return AttachmentPath(employeeID, date, a.Ext)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func AttachmentPath(employeeID string, date time.Time, ext string) string {
	return path.Join("attachments", fmt.Sprintf("attendance_%s_%s.%s", employeeID, date.Format("20060102"), ext))
}

func (s *fileServiceImpl) StageAttachment(ctx context.Context, file io.Reader, filename string) (StagedAttachment, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))

	var contentType string
	switch ext {
	case "pdf":
		contentType = "application/pdf"
	case "jpg", "jpeg":
		contentType = "image/jpeg"
	case "png":
		contentType = "image/png"
	default:
		return StagedAttachment{}, fmt.Errorf("invalid file type: only pdf, jpg, jpeg, png allowed")
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return StagedAttachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}

	if contentType != "application/pdf" && len(buffer) > compressThreshold {
		compressed, err := compressImage(buffer)
		if err != nil {
			return StagedAttachment{}, fmt.Errorf("failed to compress image: %w", err)
		}
		// Always JPEG after compression.
		buffer, ext, contentType = compressed, "jpg", "image/jpeg"
	}

	stagedPath := path.Join("attachments", "staging", uuid.New().String()+"."+ext)
	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), stagedPath, contentType)
	if err != nil {
		return StagedAttachment{}, fmt.Errorf("failed to upload attachment: %w", err)
	}

	return StagedAttachment{Path: uploadedPath, Ext: ext}, nil
}

func (s *fileServiceImpl) CommitAttachment(ctx context.Context, staged StagedAttachment, finalPath string) error {
	if err := s.storage.Move(ctx, staged.Path, finalPath); err != nil {
		return fmt.Errorf("failed to commit attachment: %w", err)
	}
	return nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) GetFileURL(path string) string {
	return s.storage.URL(path)
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes an image as JPEG, shrinking it so the longer side
// is at most maxImageDimension pixels.
func compressImage(buffer []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := math.Max(float64(width), float64(height))
	if longest > maxImageDimension {
		ratio := maxImageDimension / longest
		width = int(math.Round(float64(width) * ratio))
		height = int(math.Round(float64(height) * ratio))
		img = resizeImage(img, max(width, 1), max(height, 1))
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
