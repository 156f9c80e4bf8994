package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
	pnet "github.com/mr-bo-jangles/SqueezySceney/internal/platform/net"
	phttp "github.com/mr-bo-jangles/SqueezySceney/internal/platform/net/http"
)

func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (%q)", err, rec.Body.String())
	}
	return env
}

func TestJSONHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestRespondErrorStatusPerKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid scale", perr.InvalidScalef("scale must be positive"), http.StatusBadRequest},
		{"archive read", perr.ArchiveReadf("not a zip archive"), http.StatusUnprocessableEntity},
		{"document decode", perr.DocumentDecodef("unexpected end of JSON input"), http.StatusUnprocessableEntity},
		{"archive write", perr.ArchiveWritef("disk full"), http.StatusInternalServerError},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			phttp.RespondError(rec, reqWithReqID("POST", "/v1/rescale", "rid-kind"), c.err)
			if rec.Code != c.want {
				t.Fatalf("status = %d, want %d", rec.Code, c.want)
			}
			env := decodeEnvelope(t, rec)
			if env.StatusCode != c.want || env.Code != perr.CodeOf(c.err) || env.Error == "" || env.RequestID != "rid-kind" {
				t.Fatalf("bad error envelope: %+v", env)
			}
		})
	}
}

func TestRespondError_CarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	req := reqWithReqID("POST", "/v1/rescale", "rid-field")

	err := perr.WithField(perr.InvalidInputf("number overflows float64"), "scene/huge.json:$.x")
	phttp.RespondError(rec, req, err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != perr.ErrorCodeInvalidInput || env.Field != "scene/huge.json:$.x" || env.RequestID != "rid-field" {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestHandle_OKAndNoContent(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.OK(map[string]any{"grid": 50})
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/v1/keys", "rid-ok"))
	if rec.Code != http.StatusOK {
		t.Fatalf("handle OK code: %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.StatusCode != http.StatusOK || env.RequestID != "rid-ok" || env.Data == nil || env.Code != 0 {
		t.Fatalf("bad envelope: %+v", env)
	}

	hn := phttp.Handle(func(r *http.Request) phttp.Response { return phttp.NoContent() })
	recN := httptest.NewRecorder()
	hn(recN, reqWithReqID("POST", "/none", "rid-none"))
	if recN.Code != http.StatusNoContent || recN.Body.Len() != 0 {
		t.Fatalf("handle NoContent code=%d body=%q", recN.Code, recN.Body.String())
	}

	hz := phttp.Handle(func(r *http.Request) phttp.Response { return phttp.Response{Body: "scaled"} })
	recZ := httptest.NewRecorder()
	hz(recZ, reqWithReqID("GET", "/zero", "rid-zero"))
	if recZ.Code != http.StatusOK {
		t.Fatalf("zero status should default to 200, got %d", recZ.Code)
	}
}

func TestHandle_ErrorKeepsHeaders(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		resp := phttp.Error(perr.WithField(perr.InvalidScalef("scale must be positive"), "scale"))
		resp.Header = http.Header{"X-Sceney-Factor": []string{"-1"}}
		return resp
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("POST", "/v1/rescale?scale=-1", "rid-err"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("handle error code: %d", rec.Code)
	}
	if got := rec.Header().Get("X-Sceney-Factor"); got != "-1" {
		t.Fatalf("expected header to survive error path, got %q", got)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != perr.ErrorCodeInvalidScale || env.Field != "scale" || env.Data != nil {
		t.Fatalf("bad envelope: %+v", env)
	}
}
