package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
)

type scaleRequest struct {
	Scale    float64         `json:"scale" validate:"gt=0,lte=10"`
	Document json.RawMessage `json:"document" validate:"required"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/v1/documents/scale", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[scaleRequest](post(`{"scale":0.5,"document":{"grid":100}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Scale != 0.5 || string(got.Document) != `{"grid":100}` {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		opts  []JSONOptions
		code  perr.ErrorCode
		field string
	}{
		{name: "empty", body: "", code: perr.ErrorCodeJSON},
		{name: "malformed", body: `{"scale":`, code: perr.ErrorCodeJSON},
		{name: "unknown field", body: `{"scale":1,"document":{},"origin":[0,0]}`, code: perr.ErrorCodeJSON},
		{name: "trailing value", body: `{"scale":1,"document":{}} {}`, code: perr.ErrorCodeJSON},
		{name: "over limit", body: `{"scale":1,"document":{"grid":100}}`, opts: []JSONOptions{{MaxBytes: 12}}, code: perr.ErrorCodeJSON},
		{name: "zero scale", body: `{"scale":0,"document":{}}`, code: perr.ErrorCodeValidation, field: "scale"},
		{name: "scale above max", body: `{"scale":11,"document":{}}`, code: perr.ErrorCodeValidation, field: "scale"},
		{name: "missing document", body: `{"scale":2}`, code: perr.ErrorCodeValidation, field: "document"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseJSON[scaleRequest](post(c.body), c.opts...)
			if perr.CodeOf(err) != c.code {
				t.Fatalf("code = %v, want %v (%v)", perr.CodeOf(err), c.code, err)
			}
			if c.field == "" {
				return
			}
			if e, ok := perr.As(err); !ok || e.Field() != c.field {
				t.Fatalf("field = %v, want %q", err, c.field)
			}
		})
	}
}

func TestParseJSON_Options(t *testing.T) {
	lax := JSONOptions{AllowEmptyBody: true}
	got, err := ParseJSON[scaleRequest](post(""), lax)
	if err != nil || got.Scale != 0 {
		t.Fatalf("empty body allowed: %+v %v", got, err)
	}

	got, err = ParseJSON[scaleRequest](post(`{"scale":2,"document":[1],"note":"x"}`), JSONOptions{})
	if err != nil || got.Scale != 2 {
		t.Fatalf("unknown fields allowed, no limit: %+v %v", got, err)
	}
}

func TestParseJSON_BodylessMethods(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodDelete} {
		req := httptest.NewRequest(m, "/v1/keys", http.NoBody)
		if _, err := ParseJSON[scaleRequest](req); err != nil {
			t.Fatalf("%s with no body: %v", m, err)
		}
	}
}

func TestParseJSON_NonStructPayload(t *testing.T) {
	got, err := ParseJSON[[]float64](post(`[0.5,2,10]`))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if len(got) != 3 || got[2] != 10 {
		t.Fatalf("got %v", got)
	}
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

func TestParseJSON_ReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/documents/scale", nil)
	req.Body = failingBody{}
	if _, err := ParseJSON[scaleRequest](req); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error, got %v", err)
	}
}
