package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/storage"

	"github.com/gin-gonic/gin"
)

// CertificationHandler accepts certification document uploads and attaches
// the resulting record to the mechanic's profile.
type CertificationHandler struct {
	userService services.UserService
	storage     storage.Provider
}

func NewCertificationHandler(userService services.UserService, provider storage.Provider) *CertificationHandler {
	return &CertificationHandler{
		userService: userService,
		storage:     provider,
	}
}

// UploadCertification stores the document and appends the certification.
func (h *CertificationHandler) UploadCertification(c *gin.Context) {
	mechanicID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		utils.BadRequestResponse(c, "Certification name is required")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		utils.BadRequestResponse(c, "Certification document is required")
		return
	}
	if fileHeader.Size > utils.MaxDocumentSize {
		utils.BadRequestResponse(c, "Document exceeds the 10MB size limit")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !allowedDocumentType(ext) {
		utils.BadRequestResponse(c, "Document must be one of: "+strings.Join(utils.AllowedDocumentTypes, ", "))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "UPLOAD_FAILED", utils.ErrFileUploadFailed)
		return
	}
	defer file.Close()

	key := fmt.Sprintf("certifications/%s/%d.%s", mechanicID.Hex(), time.Now().UnixNano(), ext)
	uploaded, err := h.storage.Upload(c.Request.Context(), &storage.UploadRequest{
		Key:         key,
		Reader:      file,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	})
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "UPLOAD_FAILED", utils.ErrFileUploadFailed)
		return
	}

	cert := models.Certification{
		Name:              name,
		IssuingBody:       strings.TrimSpace(c.PostForm("issuing_body")),
		CertificateNumber: strings.TrimSpace(c.PostForm("certificate_number")),
		DocumentURL:       uploaded.URL,
	}
	if issued := c.PostForm("issue_date"); issued != "" {
		if t, err := time.Parse("2006-01-02", issued); err == nil {
			cert.IssueDate = &t
		}
	}
	if expires := c.PostForm("expiry_date"); expires != "" {
		if t, err := time.Parse("2006-01-02", expires); err == nil {
			cert.ExpiryDate = &t
		}
	}

	mechanic, err := h.userService.AddCertification(c.Request.Context(), mechanicID, cert)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Certification uploaded successfully", mechanic)
}

func allowedDocumentType(ext string) bool {
	for _, allowed := range utils.AllowedDocumentTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
