package compiler

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/prikmeter/sunspec-go/pkg/modeldef"
)

// Result is the outcome of compiling a batch of model descriptions.
type Result struct {
	// Records holds the compiled records in input order, deduplicated.
	Records []*Record

	// Skipped lists the models that were left out as unsupported.
	Skipped []*SkipError

	// Failures lists the documents that could not be loaded or compiled.
	Failures []Failure

	// Sources is the number of documents that were attempted.
	Sources int

	// Digest is the BLAKE2b-256 digest over the names and contents of the
	// documents that were read, in input order.
	Digest [blake2b.Size256]byte
}

// Failure is a document that could not be loaded or compiled.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// DigestHex returns the source digest in hex.
func (r *Result) DigestHex() string {
	return hex.EncodeToString(r.Digest[:])
}

// Err returns the joined failures, or nil if every document compiled or was
// skipped.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return fmt.Errorf("%d of %d model definitions failed: %w", len(r.Failures), r.Sources, errors.Join(errs...))
}

// Record returns the record compiled from the given model ID.
func (r *Result) Record(id int) (*Record, bool) {
	for _, rec := range r.Records {
		if rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

// Compiler compiles batches of model description files.
type Compiler struct {
	logger *slog.Logger
}

// New creates a Compiler logging to logger. A nil logger discards.
func New(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compiler{logger: logger}
}

// CompileFiles loads and compiles every file in paths, in order, then
// deduplicates record names. Unsupported models are skipped and broken ones
// recorded as failures; neither stops the batch.
func (c *Compiler) CompileFiles(paths []string) *Result {
	res := &Result{}
	h, _ := blake2b.New256(nil)

	for _, path := range paths {
		c.logger.Debug("loading model definition", "path", path)
		res.Sources++
		m, raw, err := modeldef.Load(path)
		if raw != nil {
			h.Write([]byte(filepath.Base(path)))
			h.Write([]byte{0})
			h.Write(raw)
			h.Write([]byte{0})
		}
		if err != nil {
			c.fail(res, path, err)
			continue
		}

		r, err := c.compile(m)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) {
				c.logger.Warn("model skipped", "path", path, "reason", skip.Reason, "model", skip.Subject)
				res.Skipped = append(res.Skipped, skip)
				continue
			}
			c.fail(res, path, err)
			continue
		}
		r.Source = path
		res.Records = append(res.Records, r)
	}

	Dedup(res.Records)
	copy(res.Digest[:], h.Sum(nil))

	c.logger.Info("compiled model definitions",
		"sources", res.Sources,
		"records", len(res.Records),
		"skipped", len(res.Skipped),
		"failed", len(res.Failures),
	)
	return res
}

// Compile compiles already loaded models, then deduplicates record names.
func (c *Compiler) Compile(models []*modeldef.Model) *Result {
	res := &Result{}
	for _, m := range models {
		res.Sources++
		r, err := c.compile(m)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) {
				c.logger.Warn("model skipped", "reason", skip.Reason, "model", skip.Subject)
				res.Skipped = append(res.Skipped, skip)
				continue
			}
			c.fail(res, fmt.Sprintf("model %d", m.ID), err)
			continue
		}
		res.Records = append(res.Records, r)
	}
	Dedup(res.Records)
	return res
}

func (c *Compiler) compile(m *modeldef.Model) (*Record, error) {
	r, err := CompileModel(m)
	if err != nil {
		return nil, err
	}
	for _, s := range r.Skipped {
		c.logger.Debug("point skipped",
			"model", r.ID,
			"point", s.Point,
			"offset", s.Offset,
			"reason", s.Reason,
		)
	}
	return r, nil
}

func (c *Compiler) fail(res *Result, path string, err error) {
	c.logger.Error("model definition failed", "path", path, "error", err)
	res.Failures = append(res.Failures, Failure{Path: path, Err: err})
}
