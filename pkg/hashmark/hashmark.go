// Package hashmark assigns normalized hashtag labels to markdown posts.
// It extracts candidate terms from a post's title, headings, category
// tags, and body keywords, reconciles them against a learned vocabulary,
// and merges the result into the post's metadata without ever dropping a
// label the post already carries.
package hashmark

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/hashmark/pkg/hashmark/config"
	"github.com/cognicore/hashmark/pkg/hashmark/internalerr"
	"github.com/cognicore/hashmark/pkg/hashmark/process"
	"github.com/cognicore/hashmark/pkg/hashmark/source"
	"github.com/cognicore/hashmark/pkg/hashmark/vocab"
)

// Options configures an Engine.
type Options struct {
	Config config.Config
	Source source.Source
	// Vocab is optional; without it every run starts from an empty
	// vocabulary and nothing is persisted.
	Vocab vocab.Store
	// Write applies changes to documents. When false the engine reports
	// what it would do without touching anything.
	Write bool
}

// Engine runs labeling batches.
type Engine struct {
	cfg   config.Config
	src   source.Source
	store vocab.Store
	proc  *process.Processor
	write bool
}

// New validates the configuration and builds an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("nil document source: %w", internalerr.ErrInvalidInput)
	}
	proc, err := process.New(opts.Config)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:   opts.Config,
		src:   opts.Source,
		store: opts.Vocab,
		proc:  proc,
		write: opts.Write,
	}, nil
}

// Close releases the vocabulary store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// DocError records a per-document failure that did not stop the batch.
type DocError struct {
	ID  string
	Err error
}

// Report summarizes one batch run.
type Report struct {
	RunID string

	Processed int // documents read and run through the engine
	Changed   int // documents whose label list grew
	Skipped   int // documents dropped on read/parse errors

	// NewLabels are the labels this batch introduced into the vocabulary,
	// in lexicographic order.
	NewLabels []string

	Outcomes []process.Outcome

	// Errors holds per-document read and write failures. A write failure
	// leaves the document counted as changed even though the stored state
	// may not match; callers must not treat the report as a write log.
	Errors []DocError

	// VocabErr is a non-nil vocabulary load or save failure. Load
	// failures degrade to an empty vocabulary and the batch still runs.
	VocabErr error
}

// Run processes every document matching selector against a vocabulary
// snapshot taken at batch start, then merges the batch's new labels back
// into the vocabulary. A failing document is reported and skipped; it
// never aborts the batch.
func (e *Engine) Run(ctx context.Context, selector string) (Report, error) {
	rep := Report{RunID: ulid.Make().String()}

	snap := e.loadSnapshot(ctx, &rep)

	ids, err := e.src.List(ctx, selector)
	if err != nil {
		return rep, err
	}

	newSeen := make(map[string]struct{})
	var newLabels []string

	for _, id := range ids {
		doc, err := e.src.Read(ctx, id)
		if err != nil {
			rep.Skipped++
			rep.Errors = append(rep.Errors, DocError{ID: id, Err: err})
			continue
		}

		out := e.proc.Process(doc, snap)

		if out.Changed && e.write {
			wrote, err := e.src.Write(ctx, id, out.Final)
			if err != nil {
				rep.Errors = append(rep.Errors, DocError{ID: id, Err: err})
			} else if !wrote {
				// Serialized form already matched; no-op rewrite guard.
				out.Changed = false
				out.Added = nil
			}
		}

		rep.Processed++
		if out.Changed {
			rep.Changed++
		}
		for _, l := range out.Added {
			if snap.Contains(l) {
				continue
			}
			if _, dup := newSeen[l]; dup {
				continue
			}
			newSeen[l] = struct{}{}
			newLabels = append(newLabels, l)
		}
		rep.Outcomes = append(rep.Outcomes, out)
	}

	if e.store != nil && len(newLabels) > 0 {
		merged := snap.Merge(newLabels)
		if err := e.store.Save(ctx, merged.Labels()); err != nil {
			rep.VocabErr = err
		}
	}
	rep.NewLabels = vocab.NewSnapshot(newLabels).Labels()

	return rep, nil
}

// loadSnapshot loads the vocabulary once per batch. A load failure is a
// cache miss, not a fatal error: the batch runs against an empty
// vocabulary and the failure is carried in the report.
func (e *Engine) loadSnapshot(ctx context.Context, rep *Report) *vocab.Snapshot {
	if e.store == nil {
		return vocab.NewSnapshot(nil)
	}
	labels, err := e.store.Load(ctx)
	if err != nil {
		rep.VocabErr = err
		return vocab.NewSnapshot(nil)
	}
	return vocab.NewSnapshot(labels)
}
