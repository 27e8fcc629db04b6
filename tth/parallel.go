package tth

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/direct-connect/go-tth/tiger"
)

var _ Engine = (*Parallel)(nil)

// Parallel is an engine that splits the file into contiguous parts and computes the leaves
// of each part on a separate goroutine. The tree is then compressed on the caller's goroutine.
type Parallel struct {
	fs      afero.Fs
	workers int
	chunk   int
	log     *slog.Logger
}

// NewParallel creates a new Parallel engine.
func NewParallel(c Config) *Parallel {
	c = c.withDefaults()
	return &Parallel{fs: c.Fs, workers: c.Workers, chunk: c.ChunkSize, log: c.Log}
}

func (e *Parallel) Name() string { return EngineParallel }

// Root implements Engine.
func (e *Parallel) Root(ctx context.Context, path string) (tiger.Hash, error) {
	leaves, err := e.Leaves(ctx, path)
	if err != nil {
		return tiger.Hash{}, err
	}
	return tiger.Reduce(leaves), nil
}

// Tree implements Engine.
func (e *Parallel) Tree(ctx context.Context, path string) (*tiger.Tree, error) {
	leaves, err := e.Leaves(ctx, path)
	if err != nil {
		return nil, err
	}
	return tiger.NewTree(leaves), nil
}

// Leaves computes the leaves level of the file.
//
// If any worker fails, the rest of them are canceled and all worker errors
// are returned as a WorkersError. Partial results are never returned.
func (e *Parallel) Leaves(ctx context.Context, path string) (_ []tiger.Hash, gerr error) {
	defer measure(durHash.WithLabelValues(EngineParallel))()
	size, err := statFile(e.fs, path)
	defer func() {
		countFile(EngineParallel, size, gerr)
	}()
	if err != nil {
		return nil, err
	} else if size == 0 {
		return []tiger.Hash{tiger.LeafHash(nil)}, nil
	}
	parts := Partition(size, e.workers)
	e.log.Debug("hashing file", "engine", EngineParallel, "path", path, "size", size, "workers", len(parts))

	// Each worker only writes to its own range of this slice.
	leaves := make([]tiger.Hash, tiger.LeafCount(size))
	errs := make([]error, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		g.Go(func() error {
			err := e.worker(gctx, path, p, leaves[p.First:p.Last])
			if err != nil && !isCanceled(err) {
				errs[i] = err
			}
			return err
		})
	}
	_ = g.Wait()

	var failed []*WorkerError
	for i, err := range errs {
		if err == nil {
			continue
		}
		e.log.Warn("worker failed", "path", path, "worker", i, "start", parts[i].Start, "end", parts[i].End, "err", err)
		failed = append(failed, &WorkerError{Worker: i, Part: parts[i], Err: err})
	}
	if len(failed) != 0 {
		cntWorkerFailures.Add(float64(len(failed)))
		return nil, &WorkersError{Errs: failed}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return leaves, nil
}

// worker reads the part of the file with its own file handle and writes leaf hashes to out.
func (e *Parallel) worker(ctx context.Context, path string, p Part, out []tiger.Hash) error {
	f, err := e.fs.Open(path)
	if err != nil {
		return openError(path, err)
	}
	defer f.Close()
	if _, err = f.Seek(p.Start, io.SeekStart); err != nil {
		return &IOError{Path: path, Offset: p.Start, Err: err}
	}
	bsize := int64(e.chunk)
	if n := p.End - p.Start; n < bsize {
		bsize = n
	}
	var (
		h   = tiger.NewHasher()
		buf = make([]byte, bsize)
		i   = 0
	)
	for off := p.Start; off < p.End; {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := buf
		if n := p.End - off; n < int64(len(chunk)) {
			chunk = chunk[:n]
		}
		if _, err := io.ReadFull(f, chunk); err != nil {
			return &IOError{Path: path, Offset: off, Err: err}
		}
		off += int64(len(chunk))
		for len(chunk) > 0 {
			n := tiger.LeafSize
			if len(chunk) < n {
				n = len(chunk)
			}
			out[i] = h.Leaf(chunk[:n])
			i++
			chunk = chunk[n:]
		}
	}
	return nil
}
