package handler

import (
	"errors"
	"net/http"

	"github.com/shijra-api/internal/application/dna"
	"github.com/shijra-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

const (
	dnaFileField      = "dna_file"
	multipartMemLimit = 8 << 20

	msgDNAUploaded     = "DNA data uploaded and encrypted successfully"
	msgDNAFileRequired = "dna_file is required"
	msgFileTooLarge    = "File too large"
)

// DNAHandler accepts raw DNA data files from authenticated users.
type DNAHandler struct {
	svc      dna.Service
	maxBytes int64
	log      *zap.Logger
}

func NewDNAHandler(svc dna.Service, maxUploadMB int, log *zap.Logger) *DNAHandler {
	return &DNAHandler{svc: svc, maxBytes: int64(maxUploadMB) << 20, log: orNop(log)}
}

// Upload handles POST /api/dna/upload (multipart field dna_file).
func (h *DNAHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if r.ContentLength > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgDNAFileRequired)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, header, err := r.FormFile(dnaFileField)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgDNAFileRequired)
		return
	}
	defer f.Close()

	rec, err := h.svc.Upload(r.Context(), dna.UploadInput{
		UserID:      claims.UserID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	})
	if err != nil {
		httpError(w, r, h.log, err, msgDNAFileRequired)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Message: msgDNAUploaded, Data: rec})
}
