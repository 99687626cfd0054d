package http

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const uploadField = "file"

type uploadResponse struct {
	interfaces.MediaAsset
	Filename string `json:"filename"`
}

func (api *API) registerMediaRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "media")
	mux.HandleFunc("POST "+root+"/upload", api.handleMediaUpload)
	mux.HandleFunc("GET "+root+"/{name}", api.handleMediaGet)
}

func (api *API) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	if api.media == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.MediaCreate) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, api.maxUpload+(1<<20))
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		badRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	asset, err := api.media.Upload(r.Context(), media.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{MediaAsset: *asset, Filename: asset.Name})
}

func (api *API) handleMediaGet(w http.ResponseWriter, r *http.Request) {
	if api.media == nil {
		unavailable(w)
		return
	}
	name := r.PathValue("name")
	body, err := api.media.Open(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		api.logger.WithContext(r.Context()).Warn("http.media.serve_failed", "name", name, "error", err)
	}
}
