// Package service provides the rescale service implementation
package service

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/scale"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/logger"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/domain"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/guardrails"
)

// Config holds the knobs of the rescale service
type Config struct {
	// Workers is how many scene documents are transformed at once; <=0 -> 1
	Workers int

	// SkipInvalid copies undecodable scene documents through instead of failing the run
	SkipInvalid bool

	// SniffAssets counts passthrough entries by media type in the report
	SniffAssets bool

	// MaxFactor rejects larger factors; 0 = unbounded
	MaxFactor float64

	Timeouts guardrails.Timeouts
}

// Service implements domain.RunnerPort
type Service struct {
	Store domain.Store
	Match domain.Matcher
	New   domain.TransformerFactory
	Table scale.KeyTable
	Cfg   Config

	// OnScene is optional; it is called from the goroutine running the request
	OnScene domain.SceneFunc
}

// New constructs the rescale service
func New(store domain.Store, match domain.Matcher, factory domain.TransformerFactory, table scale.KeyTable, cfg Config) *Service {
	if store == nil {
		panic("rescale.Service requires a non nil Store")
	}
	if match == nil {
		panic("rescale.Service requires a non nil Matcher")
	}
	if table == nil {
		table = scale.DefaultKeys()
	}
	if factory == nil {
		factory = func(f scale.Factor) domain.Transformer { return scale.New(f, scale.WithKeys(table)) }
	}
	return &Service{Store: store, Match: match, New: factory, Table: table, Cfg: cfg}
}

// WithSceneFunc sets the per-scene callback
func (s *Service) WithSceneFunc(fn domain.SceneFunc) *Service {
	s.OnScene = fn
	return s
}

// Keys returns the classification table in use
func (s *Service) Keys() scale.KeyTable { return s.Table.Clone() }

// RescaleFile implements domain.RunnerPort
func (s *Service) RescaleFile(ctx context.Context, req domain.FileRequest) (domain.Report, error) {
	f, err := scale.NewFactor(req.Factor, s.Cfg.MaxFactor)
	if err != nil {
		return domain.Report{}, err
	}

	ctx, cancel := guardrails.WithRun(ctx, s.Cfg.Timeouts)
	defer cancel()
	start := time.Now()
	ctx, rep := s.begin(ctx, f)
	log := logger.C(ctx)
	log.Info().Str("input", req.Input).Str("output", req.Output).Float64("factor", f.Float()).Msg("rescale: start")

	src, err := s.Store.Open(req.Input)
	if err != nil {
		return rep, perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeArchiveRead, "open input archive"), req.Input), "rescale.open")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("rescale: close input")
		}
	}()

	bodies, err := s.transformAll(ctx, src, f, &rep)
	if err != nil {
		return rep, err
	}

	sink, err := s.Store.Create(req.Output)
	if err != nil {
		return rep, perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeArchiveWrite, "create output archive"), req.Output), "rescale.create")
	}
	if err := s.writeAll(ctx, src, sink, bodies, &rep); err != nil {
		return rep, err
	}
	if err := sink.Commit(); err != nil {
		return rep, perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeArchiveWrite, "finalize output archive"), req.Output), "rescale.commit")
	}
	return s.finish(ctx, rep, start), nil
}

// RescaleBytes implements domain.RunnerPort for archives held in memory
func (s *Service) RescaleBytes(ctx context.Context, data []byte, factor float64) ([]byte, domain.Report, error) {
	f, err := scale.NewFactor(factor, s.Cfg.MaxFactor)
	if err != nil {
		return nil, domain.Report{}, err
	}

	ctx, cancel := guardrails.WithRun(ctx, s.Cfg.Timeouts)
	defer cancel()
	start := time.Now()
	ctx, rep := s.begin(ctx, f)

	src, err := s.Store.OpenBytes(data)
	if err != nil {
		return nil, rep, perr.WithOp(perr.Wrap(err, perr.ErrorCodeArchiveRead, "read input archive"), "rescale.open")
	}
	defer src.Close()

	bodies, err := s.transformAll(ctx, src, f, &rep)
	if err != nil {
		return nil, rep, err
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	sink := s.Store.Stream(&buf)
	if err := s.writeAll(ctx, src, sink, bodies, &rep); err != nil {
		return nil, rep, err
	}
	if err := sink.Commit(); err != nil {
		return nil, rep, perr.WithOp(perr.Wrap(err, perr.ErrorCodeArchiveWrite, "finalize output archive"), "rescale.commit")
	}
	return buf.Bytes(), s.finish(ctx, rep, start), nil
}

// ScaleDocument implements domain.RunnerPort for a single JSON document
func (s *Service) ScaleDocument(ctx context.Context, raw []byte, factor float64) ([]byte, error) {
	f, err := scale.NewFactor(factor, s.Cfg.MaxFactor)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := s.New(f).Transform(raw)
	if err != nil {
		return nil, classify(err, "")
	}
	return out, nil
}

// begin stamps a run id on ctx and seeds the report
func (s *Service) begin(ctx context.Context, f scale.Factor) (context.Context, domain.Report) {
	id := logger.RunID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = logger.WithRun(ctx, id)
	}
	return ctx, domain.Report{RunID: id, Factor: f.Float()}
}

func (s *Service) finish(ctx context.Context, rep domain.Report, start time.Time) domain.Report {
	rep.Elapsed = time.Since(start)
	logger.C(ctx).Info().
		Int("entries", rep.Entries).
		Int("scenes", rep.Scenes).
		Int("passthrough", rep.Passthrough).
		Int("skipped", len(rep.Skipped)).
		Dur("elapsed", rep.Elapsed).
		Msg("rescale: done")
	return rep
}

// transformAll reads and transforms every scene document; nil slots are copied raw
func (s *Service) transformAll(ctx context.Context, src domain.Source, f scale.Factor, rep *domain.Report) ([][]byte, error) {
	entries := src.Entries()
	rep.Entries = len(entries)
	out := make([][]byte, len(entries))
	tr := s.New(f)

	var (
		mu      sync.Mutex
		skipped = map[int]bool{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Cfg.Workers, 1))
	for i, e := range entries {
		if !s.Match.MatchEntry(e) {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			dctx, cancel := guardrails.ForDocument(logger.WithEntry(gctx, e.Name), s.Cfg.Timeouts)
			defer cancel()

			body, err := s.transformOne(dctx, src, e, tr)
			if err == nil {
				out[i] = body
				return nil
			}
			if s.Cfg.SkipInvalid && perr.IsCode(err, perr.ErrorCodeDocumentDecode) {
				logger.C(dctx).Warn().Err(err).Msg("rescale: copying undecodable scene document unchanged")
				mu.Lock()
				skipped[i] = true
				mu.Unlock()
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// the errgroup context is canceled by Wait; only the caller's counts
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, e := range entries {
		if skipped[i] {
			rep.Skipped = append(rep.Skipped, e.Name)
		}
	}
	return out, nil
}

func (s *Service) transformOne(ctx context.Context, src domain.Source, e domain.Entry, tr domain.Transformer) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := src.Read(e)
	if err != nil {
		return nil, perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeArchiveRead, "read scene document"), e.Name), "rescale.read")
	}
	logger.C(ctx).Debug().Int("bytes", len(raw)).Msg("rescale: scaling scene document")

	body, err := tr.Transform(raw)
	if err != nil {
		return nil, classify(err, e.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return body, nil
}

// writeAll emits entries in source order; a failure aborts the sink
func (s *Service) writeAll(ctx context.Context, src domain.Source, sink domain.Sink, bodies [][]byte, rep *domain.Report) (err error) {
	defer func() {
		if err != nil {
			if aerr := sink.Abort(); aerr != nil {
				logger.C(ctx).Warn().Err(aerr).Msg("rescale: abort output")
			}
		}
	}()

	for i, e := range src.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if body := bodies[i]; body != nil {
			if err := sink.Write(e, body); err != nil {
				return perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeArchiveWrite, "write scene document"), e.Name), "rescale.write")
			}
			rep.Scenes++
			if s.OnScene != nil {
				s.OnScene(e.Name)
			}
			continue
		}

		if s.Cfg.SniffAssets && !e.Dir {
			s.count(ctx, src, e, rep)
		}
		if err := sink.Copy(e); err != nil {
			return perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeArchiveWrite, "copy entry"), e.Name), "rescale.copy")
		}
		rep.Passthrough++
	}
	return nil
}

func (s *Service) count(ctx context.Context, src domain.Source, e domain.Entry, rep *domain.Report) {
	mt, err := src.Sniff(e)
	if err != nil {
		logger.C(logger.WithEntry(ctx, e.Name)).Debug().Err(err).Msg("rescale: sniff failed")
		mt = "unknown"
	}
	if rep.Media == nil {
		rep.Media = map[string]int{}
	}
	rep.Media[mt]++
}

// classify tags transformer failures with the entry they came from
func classify(err error, entry string) error {
	e, ok := perr.As(err)
	if !ok {
		err = perr.WithOp(perr.Wrap(err, perr.ErrorCodeInvalidInput, "transform document"), "rescale.transform")
		e, _ = perr.As(err)
	}
	if entry == "" {
		return err
	}
	field := entry
	if e.Field() != "" {
		field = entry + ":" + e.Field()
	}
	return perr.WithField(err, field)
}

var _ domain.RunnerPort = (*Service)(nil)
