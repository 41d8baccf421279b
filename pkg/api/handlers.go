package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/layout"
	"github.com/mab8192/tcgprint/pkg/pipeline"
)

// SheetRequest is the JSON accepted by /v1/layout and by the "settings"
// field of /v1/sheets. Omitted fields take the CLI defaults.
type SheetRequest struct {
	layout.Settings
	Title string `json:"title,omitempty"`
}

// LayoutResponse is the geometry with its derived far-side margins.
type LayoutResponse struct {
	layout.Geometry
	RightMargin  int `json:"right_margin"`
	BottomMargin int `json:"bottom_margin"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Defaults()
	opts.Settings = req.Settings
	geom, err := s.runner.Layout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		Geometry:     geom,
		RightMargin:  geom.RightMargin(),
		BottomMargin: geom.BottomMargin(),
	})
}

func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := SheetRequest{Settings: pipeline.DefaultSettings()}
	if raw := r.FormValue("settings"); raw != "" {
		var err error
		if req, err = decodeRequest(strings.NewReader(raw)); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	files := r.MultipartForm.File["cards"]
	if len(files) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNoImages, "no files in the cards field"))
		return
	}

	dir, err := os.MkdirTemp(s.cfg.TempDir, "tcgprint-upload-")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "create upload dir"))
		return
	}
	defer os.RemoveAll(dir)

	// Names are zero-padded upload positions so the name-ordered scan keeps
	// upload order.
	width := len(strconv.Itoa(len(files)))
	for i, fh := range files {
		name := padIndex(i, width) + strings.ToLower(filepath.Ext(fh.Filename))
		if err := saveUpload(fh, filepath.Join(dir, name)); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read upload %q", fh.Filename))
			return
		}
	}

	opts := pipeline.Defaults()
	opts.Settings = req.Settings
	opts.Input = dir
	opts.Title = req.Title
	opts.Workers = s.cfg.Workers
	opts.Logger = s.logger.With("request", requestID(r))

	var buf bytes.Buffer
	result, err := s.runner.ExecuteTo(r.Context(), &buf, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("X-Run-ID", result.RunID)
	h.Set("X-Pages", strconv.Itoa(result.Pages))
	h.Set("X-Failed-Cells", strconv.Itoa(len(result.Failures)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("client went away", "run", result.RunID, "err", err)
	}
}

// decodeRequest reads a SheetRequest, starting from the defaults. An empty
// body yields the defaults.
func decodeRequest(r io.Reader) (SheetRequest, error) {
	req := SheetRequest{Settings: pipeline.DefaultSettings()}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		return req, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode settings")
	}
	return req, nil
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func padIndex(i, width int) string {
	s := strconv.Itoa(i)
	return strings.Repeat("0", width-len(s)) + s
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.KindInput:
		return http.StatusBadRequest
	case errors.KindLayout:
		return http.StatusUnprocessableEntity
	case errors.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request", requestID(r), "code", code, "err", err)
	} else {
		s.logger.Debug("request rejected", "request", requestID(r), "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
