package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"campus-booking/internal/dto/request"
	"campus-booking/internal/usecase"
	"campus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const uploadField = "file"

type TimetableHandler struct {
	service        usecase.TimetableService
	maxUploadBytes int64
	log            *zap.Logger
}

func NewTimetableHandler(service usecase.TimetableService, maxUploadBytes int64, log *zap.Logger) *TimetableHandler {
	return &TimetableHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		log:            log.With(zap.String("handler", "timetable")),
	}
}

// Upload handles POST /api/csv/upload
func (h *TimetableHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, err := h.readUpload(w, r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.ResponseBadRequest(w, "File is too big", nil)
			return
		}
		h.log.Warn("Failed to read upload", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid upload", nil)
		return
	}

	result, err := h.service.Upload(r.Context(), file)
	if err != nil {
		handleServiceError(w, h.log, err, "upload timetable")
		return
	}

	utils.ResponseSuccess(w, "File uploaded successfully", result)
}

// readUpload returns nil without error when the form carries no file.
func (h *TimetableHandler) readUpload(w http.ResponseWriter, r *http.Request) (*request.UploadFile, error) {
	if h.maxUploadBytes > 0 {
		// room for the multipart envelope around the file
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<16)
	}

	part, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, err
	}

	return &request.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}

// SaveTimetable handles POST /api/csv/save_timetable
func (h *TimetableHandler) SaveTimetable(w http.ResponseWriter, r *http.Request) {
	var req request.SaveTimetableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	requester, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		requester = uuid.Nil
	}

	result, err := h.service.SaveTimetable(r.Context(), requester, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "save timetable")
		return
	}

	utils.ResponseCreated(w, "Timetable saved successfully", result)
}

// Preview handles GET /api/csv/getData
func (h *TimetableHandler) Preview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.service.Preview(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "preview timetable")
		return
	}

	utils.ResponseSuccess(w, "success", preview)
}

// Download handles GET /api/csv/download
func (h *TimetableHandler) Download(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Download(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "download timetable")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+usecase.ArtifactCSV+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Warn("Failed to write timetable download", zap.Error(err))
	}
}
