// Package http provides the scene rescaling endpoints
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/jsondoc"
	"github.com/mr-bo-jangles/SqueezySceney/internal/core/scale"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/httpkit"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/logger"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/domain"
)

// Report headers set on a rescaled archive response
const (
	HeaderRunID       = "X-Sceney-Run-Id"
	HeaderFactor      = "X-Sceney-Factor"
	HeaderScenes      = "X-Sceney-Scenes"
	HeaderPassthrough = "X-Sceney-Passthrough"
	HeaderSkipped     = "X-Sceney-Skipped"
)

const zipMIME = "application/zip"

// Deps are the handler dependencies
type Deps struct {
	Runner domain.RunnerPort
}

type handlers struct {
	deps Deps
}

// Register mounts the scene routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	r.Post("/rescale", h.rescale)
	httpkit.PostJSON(r, "/documents/scale", h.scaleDocument)
	httpkit.Get(r, "/keys", h.keys)
}

// ScaleDocumentRequest carries one document and the factor to apply
type ScaleDocumentRequest struct {
	Scale    float64       `json:"scale"`
	Document jsondoc.Value `json:"document"`
}

// ScaleDocumentResponse echoes the factor with the scaled document
type ScaleDocumentResponse struct {
	Scale    float64         `json:"scale"`
	Document json.RawMessage `json:"document"`
}

// KeysResponse describes the classification table in use
type KeysResponse struct {
	Spatial []string       `json:"spatial"`
	Table   scale.KeyTable `json:"table"`
}

// rescale streams back a rescaled copy of the zip archive in the body
//
// @Summary Rescale a scene archive
// @Tags Scenes
// @Accept application/zip
// @Produce application/zip
// @Param scale query number true "Scale factor, e.g. 0.5"
// @Param archive body string true "Adventure zip"
// @Success 200 {file} binary "rescaled archive"
// @Failure 422 {object} httpkit.Envelope "not a zip or an undecodable scene"
// @Router /rescale [post]
func (h *handlers) rescale(w http.ResponseWriter, r *http.Request) {
	f, err := scale.ParseFactor(r.URL.Query().Get("scale"), 0)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpkit.RespondError(w, r, bodyErr(err))
		return
	}
	if !isZip(body) {
		httpkit.RespondError(w, r, perr.WithOp(perr.WithField(
			perr.ArchiveReadf("request body is not a zip archive"), "body"), "api.rescale"))
		return
	}

	out, rep, err := h.deps.Runner.RescaleBytes(r.Context(), body, f.Float())
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}

	logger.C(r.Context()).Info().
		Str("run_id", rep.RunID).
		Int("scenes", rep.Scenes).
		Int("bytes_in", len(body)).
		Int("bytes_out", len(out)).
		Msg("archive rescaled")

	hdr := w.Header()
	hdr.Set("Content-Type", zipMIME)
	hdr.Set("Content-Disposition", `attachment; filename="scaled.zip"`)
	hdr.Set("Content-Length", strconv.Itoa(len(out)))
	hdr.Set(HeaderRunID, rep.RunID)
	hdr.Set(HeaderFactor, f.String())
	hdr.Set(HeaderScenes, strconv.Itoa(rep.Scenes))
	hdr.Set(HeaderPassthrough, strconv.Itoa(rep.Passthrough))
	if len(rep.Skipped) > 0 {
		hdr.Set(HeaderSkipped, strings.Join(rep.Skipped, ","))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// @Summary Scale one scene document
// @Tags Scenes
// @Accept json
// @Produce json
// @Param payload body ScaleDocumentRequest true "Document and factor"
// @Success 200 {object} ScaleDocumentResponse "ok"
// @Router /documents/scale [post]
func (h *handlers) scaleDocument(r *http.Request, in ScaleDocumentRequest) (any, error) {
	raw, err := jsondoc.Encode(in.Document)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeJSON, "invalid document"), "document")
	}
	out, err := h.deps.Runner.ScaleDocument(r.Context(), raw, in.Scale)
	if err != nil {
		return nil, err
	}
	return ScaleDocumentResponse{Scale: in.Scale, Document: out}, nil
}

// @Summary Key classification table
// @Tags Scenes
// @Produce json
// @Success 200 {object} KeysResponse "ok"
// @Router /keys [get]
func (h *handlers) keys(_ *http.Request) (any, error) {
	t := h.deps.Runner.Keys()
	return KeysResponse{Spatial: t.Spatial(), Table: t}, nil
}

// isZip walks the detected type's parents since zip based formats (docx, jar) sniff as children
func isZip(body []byte) bool {
	for m := mimetype.Detect(body); m != nil; m = m.Parent() {
		if m.Is(zipMIME) {
			return true
		}
	}
	return false
}

func bodyErr(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeValidation, "archive exceeds %d bytes", tooBig.Limit), "body")
	}
	return perr.WithField(perr.Wrap(err, perr.ErrorCodeArchiveRead, "read request body"), "body")
}
