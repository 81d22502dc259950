package web

// decode.go turns the three accepted body shapes into a core.ImportRequest:
//
//	multipart/form-data   file=<csv>, mode=..., duplicateAction=...
//	application/json      {"csvData" or "csv": "...", "mode": "...", "duplicateAction": "..."}
//	anything else         the raw body is the CSV; ?mode= and ?duplicateAction=
//
// A mode or duplicateAction missing from the body falls back to the query
// string. Unknown values are rejected rather than defaulted.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/JonMunkholm/schoolcal/internal/core"
	"github.com/JonMunkholm/schoolcal/internal/logging"
)

// jsonImportBody is the structured-object request form.
type jsonImportBody struct {
	CSVData         string `json:"csvData"`
	CSV             string `json:"csv"`
	Mode            string `json:"mode"`
	DuplicateAction string `json:"duplicateAction"`
}

// decodeImportRequest reads the request body into an ImportRequest. The body
// is capped at maxSize bytes.
func decodeImportRequest(w http.ResponseWriter, r *http.Request, maxSize int64) (core.ImportRequest, error) {
	var (
		req             core.ImportRequest
		mode, dupAction string
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return req, formError(err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return req, errNoFile
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return req, fmt.Errorf("read upload: %w", err)
		}
		req.CSV = core.NormalizeText(data)
		mode = r.FormValue("mode")
		dupAction = r.FormValue("duplicateAction")

	case "application/json":
		var body jsonImportBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return req, formError(err)
		}
		text := body.CSVData
		if text == "" {
			text = body.CSV
		}
		req.CSV = core.NormalizeText([]byte(text))
		mode = body.Mode
		dupAction = body.DuplicateAction

	default:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return req, formError(err)
		}
		req.CSV = core.NormalizeText(data)
	}

	query := r.URL.Query()
	if mode == "" {
		mode = query.Get("mode")
	}
	if dupAction == "" {
		dupAction = query.Get("duplicateAction")
	}

	var err error
	if req.Mode, err = core.ParseMode(mode); err != nil {
		return req, err
	}
	if req.DuplicateAction, err = core.ParseDuplicateAction(dupAction); err != nil {
		return req, err
	}

	req.Actor = logging.ActorFromContext(r.Context())
	return req, nil
}

// formError keeps size-limit errors intact and folds everything else into
// errInvalidBody.
func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("request body too large: %w", err)
	}
	return fmt.Errorf("%w: %v", errInvalidBody, err)
}
