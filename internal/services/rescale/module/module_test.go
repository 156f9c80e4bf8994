package module

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/scale"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/module"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/config"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/testkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/domain"
)

func validOptions() Options {
	return Options{Workers: 2, Rounding: "none", Patterns: []string{"scene/*.json"}, SniffAssets: true}
}

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New())
	if o.Workers != 4 || o.Rounding != "none" || !o.SniffAssets || o.SkipInvalid || o.MaxFactor != 0 {
		t.Fatalf("unexpected defaults %+v", o)
	}
	if len(o.Patterns) != 1 || o.Patterns[0] != "scene/*.json" {
		t.Fatalf("patterns %v", o.Patterns)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("SCENEY_RESCALE_WORKERS", "8")
	t.Setenv("SCENEY_RESCALE_ROUNDING", "integers")
	t.Setenv("SCENEY_RESCALE_PATTERNS", "scene/*.json, scenes/*.json")
	t.Setenv("SCENEY_RESCALE_SKIP_INVALID", "true")
	t.Setenv("SCENEY_RESCALE_MAX_FACTOR", "10")
	t.Setenv("SCENEY_RESCALE_RUN_TIMEOUT", "1m")

	o := FromConfig(config.New())
	if o.Workers != 8 || o.Rounding != "integers" || !o.SkipInvalid || o.MaxFactor != 10 || o.RunTimeout != time.Minute {
		t.Fatalf("unexpected %+v", o)
	}
	if len(o.Patterns) != 2 || o.Patterns[1] != "scenes/*.json" {
		t.Fatalf("patterns %v", o.Patterns)
	}
}

func TestOptions_ValidateReportsEnvField(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Options)
		field string
	}{
		{"workers low", func(o *Options) { o.Workers = 0 }, "WORKERS"},
		{"workers high", func(o *Options) { o.Workers = 65 }, "WORKERS"},
		{"rounding", func(o *Options) { o.Rounding = "banker" }, "ROUNDING"},
		{"no patterns", func(o *Options) { o.Patterns = nil }, "PATTERNS"},
		{"bad pattern", func(o *Options) { o.Patterns = []string{"scene/[.json"} }, "PATTERNS"},
		{"negative max", func(o *Options) { o.MaxFactor = -1 }, "MAX_FACTOR"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := validOptions()
			c.mut(&o)
			err := o.Validate()
			e, ok := perr.As(err)
			if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != c.field {
				t.Fatalf("want Validation on %s, got %v", c.field, err)
			}
		})
	}
}

func TestNewWithOptions_RejectsBadOptions(t *testing.T) {
	o := validOptions()
	o.Workers = 0
	_, err := NewWithOptions(modkit.Deps{FS: memfs.New()}, o)
	if perr.ExitCode(err) != 2 {
		t.Fatalf("expected usage exit code, got %v", err)
	}
}

func TestNew_PortsAndName(t *testing.T) {
	m, err := New(modkit.Deps{Cfg: config.New(), FS: memfs.New()})
	if err != nil {
		t.Fatal(err)
	}
	if m.Name() != "rescale" {
		t.Fatalf("name %q", m.Name())
	}
	r, ok := module.PortsOf[domain.RunnerPort](m)
	if !ok || r != m.Runner() {
		t.Fatalf("runner port not exposed")
	}
	m.MountRoutes(nil)
}

func TestNewWithOptions_KeysFileOverlaysDefaults(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, "/cfg/keys.json", []byte(`{"radius":"scale","width":"pass"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	o := validOptions()
	o.KeysFile = "/cfg/keys.json"

	m, err := NewWithOptions(modkit.Deps{FS: fs}, o)
	if err != nil {
		t.Fatal(err)
	}
	keys := m.Runner().Keys()
	if keys["radius"] != scale.Scale || keys["width"] != scale.Pass || keys["x"] != scale.Scale {
		t.Fatalf("unexpected table %v", keys)
	}

	out, err := m.Runner().ScaleDocument(context.Background(), []byte(`{"radius":10,"width":10,"x":10}`), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"radius":5,"width":10,"x":5}` {
		t.Fatalf("got %s", out)
	}
}

func TestNewWithOptions_KeysFileErrors(t *testing.T) {
	fs := memfs.New()
	o := validOptions()
	o.KeysFile = "/missing.json"
	_, err := NewWithOptions(modkit.Deps{FS: fs}, o)
	if e, ok := perr.As(err); !ok || e.Field() != "KEYS_FILE" || e.Code() != perr.ErrorCodeValidation {
		t.Fatalf("missing key file: %v", err)
	}

	if err := util.WriteFile(fs, "/bad.json", []byte(`{"x":"sideways"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	o.KeysFile = "/bad.json"
	if _, err := NewWithOptions(modkit.Deps{FS: fs}, o); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad key file: %v", err)
	}
}

func TestNewWithOptions_RoundingAndSceneFunc(t *testing.T) {
	fs := memfs.New()
	in := testkit.Zip(t,
		testkit.ZipEntry{Name: "scene/a.json", Body: []byte(`{"x":5,"y":2.5}`)},
		testkit.ZipEntry{Name: "notes.txt", Body: []byte("hi")},
	)
	if err := util.WriteFile(fs, "/in.zip", in, 0o644); err != nil {
		t.Fatal(err)
	}
	o := validOptions()
	o.Rounding = "integers"

	m, err := NewWithOptions(modkit.Deps{FS: fs}, o)
	if err != nil {
		t.Fatal(err)
	}
	var seen []string
	m.WithSceneFunc(func(name string) { seen = append(seen, name) })

	rep, err := m.Runner().RescaleFile(context.Background(), domain.FileRequest{Input: "/in.zip", Output: "/out.zip", Factor: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Scenes != 1 || rep.Passthrough != 1 || len(seen) != 1 || seen[0] != "scene/a.json" {
		t.Fatalf("report %+v seen %v", rep, seen)
	}
	out, err := util.ReadFile(fs, "/out.zip")
	if err != nil {
		t.Fatal(err)
	}
	got := testkit.Unzip(t, out)
	if string(got[0].Body) != `{"x":2,"y":1.25}` {
		t.Fatalf("integers rounding: %s", got[0].Body)
	}
	if !strings.Contains(m.Options().Rounding, "integers") {
		t.Fatalf("options not kept")
	}
}
