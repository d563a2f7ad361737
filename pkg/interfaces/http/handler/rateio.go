package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vsinha/rateio/pkg/application/services/rateio"
	"github.com/vsinha/rateio/pkg/domain/repositories"
	"github.com/vsinha/rateio/pkg/infrastructure/logger"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/fs"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/memory"
)

// RateioHandler serves rateio runs over HTTP
type RateioHandler struct {
	service  *rateio.Service
	dataPath string
	pattern  string
}

// NewRateioHandler creates a handler running service against the documents
// of dataPath that match pattern
func NewRateioHandler(service *rateio.Service, dataPath, pattern string) *RateioHandler {
	return &RateioHandler{
		service:  service,
		dataPath: dataPath,
		pattern:  pattern,
	}
}

// RegisterRoutes registers the rateio routes on rg
func (h *RateioHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/data", h.RunDirectory)
	rg.POST("/data/upload", h.RunUpload)
	rg.GET("/health", h.Health)
	rg.HEAD("/health", h.Health)
}

// Health reports that the server is up
func (h *RateioHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// RunDirectory runs the rateio of the data directory using the dispatch
// email sent as the request body
func (h *RateioHandler) RunDirectory(c *gin.Context) {
	if h.dataPath == "" {
		respondError(c, http.StatusServiceUnavailable, CodeDataUnavailable, "data path is not configured")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}

	docs, err := fs.NewDocumentRepository(h.dataPath, h.pattern)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeDataUnavailable, err.Error())
		return
	}

	h.run(c, docs, string(body))
}

// RunUpload runs the rateio of uploaded documents. The multipart form
// carries the dispatch email in the "email" field and the documents as
// "documents" files.
func (h *RateioHandler) RunUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	files := form.File["documents"]
	if len(files) == 0 {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "no documents uploaded")
		return
	}

	docs := memory.NewDocumentRepository()
	for _, file := range files {
		if file.Filename == "" {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, "uploaded document has no file name")
			return
		}
		content, err := readUpload(file)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
			return
		}
		if err := docs.AddDocument(file.Filename, content); err != nil {
			if errors.Is(err, memory.ErrDuplicateDocument) {
				respondError(c, http.StatusBadRequest, CodeInvalidRequest,
					fmt.Sprintf("document %s uploaded more than once", file.Filename))
				return
			}
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
			return
		}
	}

	h.run(c, docs, strings.Join(form.Value["email"], "\n"))
}

func (h *RateioHandler) run(c *gin.Context, docs repositories.DocumentRepository, email string) {
	log := logger.GetGinLogger(c)

	result, err := h.service.Run(c.Request.Context(), docs, email)
	if err != nil {
		log.Error("rateio run failed", zap.Error(err))
		if errors.Is(err, repositories.ErrTextDecoding) {
			respondError(c, http.StatusInternalServerError, CodeDocumentDecoding, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, CodeRunFailed, err.Error())
		return
	}

	log.Info("rateio run served",
		zap.String("run_id", result.RunID),
		zap.Int("documents", result.Documents),
		zap.Int("loads", result.LoadCount()),
		zap.Int("warnings", len(result.Warnings)),
	)
	c.JSON(http.StatusOK, result)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", file.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", file.Filename, err)
	}
	return content, nil
}
