package transport

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/gin-gonic/gin"
)

func (h *CompressionHandler) Process(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errorResponse(c, entity.ErrNoImageProvided)
		return
	}
	if file.Filename == "" {
		errorResponse(c, entity.ErrNoFileSelected)
		return
	}

	force := parseForce(c.PostForm("force"))
	out, warning, err := h.service.Compress(c.Request.Context(), newUpload(file, c.PostForm("prompt"), force))
	if err != nil {
		errorResponse(c, err)
		return
	}
	if warning != nil {
		c.JSON(http.StatusBadRequest, warning)
		return
	}

	writeOutput(c, out)
}

func (h *CompressionHandler) Batch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		errorResponse(c, entity.ErrNoImageProvided)
		return
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		errorResponse(c, entity.ErrNoImageProvided)
		return
	}

	prompt := c.PostForm("prompt")
	force := parseForce(c.PostForm("force"))

	batch := entity.BatchUpload{Prompt: prompt, Force: force}
	for _, file := range headers {
		batch.Files = append(batch.Files, newUpload(file, prompt, force))
	}

	out, err := h.service.CompressBatch(c.Request.Context(), batch)
	if err != nil {
		errorResponse(c, err)
		return
	}

	writeOutput(c, out)
}

func newUpload(file *multipart.FileHeader, prompt string, force bool) entity.Upload {
	return entity.Upload{
		Filename: file.Filename,
		Size:     file.Size,
		Prompt:   prompt,
		Force:    force,
		Open: func() (io.ReadCloser, error) {
			return file.Open()
		},
	}
}

func writeOutput(c *gin.Context, out *entity.Output) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	c.Header("X-Job-ID", out.JobID)
	if out.Warning != "" {
		c.Header("X-Size-Warning", out.Warning)
	}
	if len(out.Skipped) > 0 {
		c.Header("X-Skipped-Files", strings.Join(out.Skipped, ","))
	}

	c.Data(http.StatusOK, out.ContentType, out.Data)
}

func parseForce(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}
