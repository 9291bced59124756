package server

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"quillport/internal/middleware"
	"quillport/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/image/webp"
)

// errResponseWritten signals that the handler already wrote an error
// response and should just return.
var errResponseWritten = fiber.NewError(fiber.StatusBadRequest, "response written")

// parseIDParam parses a numeric route parameter. On failure it writes
// the 400 response itself and returns errResponseWritten.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Mã định danh không hợp lệ."))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// principalOr401 extracts the authenticated principal or writes the
// 401 response.
func principalOr401(c *fiber.Ctx) (models.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Bạn cần đăng nhập để thực hiện hành động này."))
		return models.Principal{}, errResponseWritten
	}
	return principal, nil
}

func (s *Server) uploadDir() string {
	if s.config.UploadDir != "" {
		return s.config.UploadDir
	}
	return "uploads"
}

// saveAvatarUpload stores the multipart "avatar" file under the upload
// directory with a random name. It returns ("", nil) when the field is
// absent and a validation error when the payload is not a supported
// image (png, jpeg, gif or webp, detected by content, not extension).
func (s *Server) saveAvatarUpload(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", models.NewInternalError("Lỗi khi xử lý tệp tải lên.", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", models.NewInternalError("Lỗi khi xử lý tệp tải lên.", err)
	}
	head = head[:n]

	ext := sniffImageExt(head)
	if ext == "" {
		return "", models.NewValidationError("Tệp ảnh đại diện không hợp lệ.")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", models.NewInternalError("Lỗi khi xử lý tệp tải lên.", err)
	}

	dir := s.uploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", models.NewInternalError("Lỗi khi xử lý tệp tải lên.", err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", models.NewInternalError("Lỗi khi xử lý tệp tải lên.", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", models.NewInternalError("Lỗi khi xử lý tệp tải lên.", err)
	}

	return filepath.ToSlash(filepath.Join("uploads", name)), nil
}

// sniffImageExt identifies the image format from the file header and
// returns the matching extension, or "" for unsupported content.
func sniffImageExt(head []byte) string {
	switch {
	case bytes.HasPrefix(head, []byte("\x89PNG\r\n\x1a\n")):
		return ".png"
	case bytes.HasPrefix(head, []byte("\xff\xd8\xff")):
		return ".jpg"
	case bytes.HasPrefix(head, []byte("GIF87a")), bytes.HasPrefix(head, []byte("GIF89a")):
		return ".gif"
	case isWebP(head):
		return ".webp"
	}
	return ""
}

func isWebP(head []byte) bool {
	if len(head) < 12 || !bytes.HasPrefix(head, []byte("RIFF")) || !bytes.Equal(head[8:12], []byte("WEBP")) {
		return false
	}
	// RIFF container checks out; confirm the VP8 payload header parses.
	_, err := webp.DecodeConfig(bytes.NewReader(head))
	return err == nil
}
