package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/bookshelf/catalog-api/internal/api/metrics"
	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

const (
	maxImageBytes    = 5 << 20
	defaultImageType = "image/jpeg"
	imageCacheHeader = "max-age=31536000"
)

var (
	allowedImageExts = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	}
	allowedImageTypes = map[string]struct{}{
		"image/jpeg": {}, "image/jpg": {}, "image/png": {}, "image/gif": {}, "image/webp": {},
	}
)

// ProfileImageHandler uploads and serves user avatars.
type ProfileImageHandler struct {
	users ports.UserService
}

func NewProfileImageHandler(users ports.UserService) *ProfileImageHandler {
	return &ProfileImageHandler{users: users}
}

type imageResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageData   string `json:"imageData,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

func imageFailure(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, imageResponse{Success: false, Message: msg})
}

// Upload stores the multipart field "file" as the caller's profile image.
//
// @Summary      Upload profile image
// @Tags         profile-image
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image (jpg, jpeg, png, gif, webp; max 5MB)"
// @Success      200   {object}  imageResponse
// @Failure      400   {object}  imageResponse
// @Router       /api/profile-image/upload [post]
func (h *ProfileImageHandler) Upload(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return imageFailure(c, "Please select a file to upload")
	}
	if fh.Size > maxImageBytes {
		return imageFailure(c, "File size must be less than 5MB")
	}
	if _, ok := allowedImageExts[strings.ToLower(filepath.Ext(fh.Filename))]; !ok {
		return imageFailure(c, "Only JPG, JPEG, PNG, GIF and WEBP files are allowed")
	}
	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(fh.Header.Get(echo.HeaderContentType), ";", 2)[0]))
	if _, ok := allowedImageTypes[declared]; !ok {
		return imageFailure(c, "Invalid file type")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxImageBytes {
		return imageFailure(c, "File size must be less than 5MB")
	}

	// stored type comes from the bytes, not the client's header
	detected := mimetype.Detect(data).String()
	if _, ok := allowedImageTypes[detected]; !ok {
		return imageFailure(c, "Invalid file type")
	}

	if err := h.users.SetProfileImage(c.Request().Context(), id.Username, domain.ProfileImage{Data: data, ContentType: detected}); err != nil {
		return err
	}
	metrics.ProfileImageBytes.Observe(float64(len(data)))

	return c.JSON(http.StatusOK, imageResponse{
		Success:  true,
		Message:  "Profile image uploaded successfully",
		ImageURL: dataURL(detected, data),
	})
}

// Get serves the raw image bytes of username.
//
// @Summary      Get profile image
// @Tags         profile-image
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /api/profile-image/{username} [get]
func (h *ProfileImageHandler) Get(c echo.Context) error {
	img, err := h.users.ProfileImage(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = defaultImageType
	}
	c.Response().Header().Set("Cache-Control", imageCacheHeader)
	return c.Blob(http.StatusOK, contentType, img.Data)
}

// GetData returns the image of username as a data URL.
//
// @Summary      Get profile image as data URL
// @Tags         profile-image
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  imageResponse
// @Router       /api/profile-image/{username}/data [get]
func (h *ProfileImageHandler) GetData(c echo.Context) error {
	img, err := h.users.ProfileImage(c.Request().Context(), c.Param("username"))
	if errors.Is(err, domain.ErrImageNotFound) {
		return c.JSON(http.StatusOK, imageResponse{Success: false, Message: "No profile image found"})
	}
	if err != nil {
		return err
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = defaultImageType
	}
	return c.JSON(http.StatusOK, imageResponse{
		Success:     true,
		ImageData:   dataURL(contentType, img.Data),
		ContentType: contentType,
	})
}

// Delete clears the caller's profile image.
//
// @Summary      Delete profile image
// @Tags         profile-image
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  imageResponse
// @Router       /api/profile-image [delete]
func (h *ProfileImageHandler) Delete(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteProfileImage(c.Request().Context(), id.Username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, imageResponse{Success: true, Message: "Profile image deleted successfully"})
}
