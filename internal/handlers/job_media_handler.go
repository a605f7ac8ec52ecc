package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	ucMedia "github.com/BruksfildServices01/fieldops/internal/usecase/jobmedia"
)

const maxUploadBytes = 15 << 20

type JobMediaHandler struct {
	upload *ucMedia.UploadPhoto
	list   *ucMedia.ListPhotos
	delete *ucMedia.DeletePhoto
}

func NewJobMediaHandler(
	upload *ucMedia.UploadPhoto,
	list *ucMedia.ListPhotos,
	del *ucMedia.DeletePhoto,
) *JobMediaHandler {
	return &JobMediaHandler{upload: upload, list: list, delete: del}
}

func (h *JobMediaHandler) List(c *gin.Context) {
	jobID, ok := idParam(c, "id")
	if !ok {
		return
	}

	items, err := h.list.Execute(c.Request.Context(), actorOf(c), jobID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items, nil)
}

// Upload expects multipart form fields "file", "media_type" and optional "notes".
func (h *JobMediaHandler) Upload(c *gin.Context) {
	jobID, ok := idParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "file is required (max 15 MB).")
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "file could not be read.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "file could not be read.")
		return
	}

	m, err := h.upload.Execute(c.Request.Context(), actorOf(c), ucMedia.UploadPhotoInput{
		JobID:     jobID,
		MediaType: c.PostForm("media_type"),
		Notes:     c.PostForm("notes"),
		Data:      data,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, m)
}

func (h *JobMediaHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), actorOf(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Photo deleted.")
}
