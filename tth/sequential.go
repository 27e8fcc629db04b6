package tth

import (
	"bufio"
	"context"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/direct-connect/go-tth/tiger"
)

var _ Engine = (*Sequential)(nil)

// Sequential is an engine that reads the file in a single pass on the caller's goroutine.
type Sequential struct {
	fs    afero.Fs
	chunk int
	log   *slog.Logger
}

// NewSequential creates a new Sequential engine.
func NewSequential(c Config) *Sequential {
	c = c.withDefaults()
	return &Sequential{fs: c.Fs, chunk: c.ChunkSize, log: c.Log}
}

func (e *Sequential) Name() string { return EngineSequential }

// Root implements Engine. Pairs of leaves are combined while reading, so level 0 is never stored.
func (e *Sequential) Root(ctx context.Context, path string) (tiger.Hash, error) {
	lvl, err := e.read(ctx, path, true)
	if err != nil {
		return tiger.Hash{}, err
	}
	return tiger.Reduce(lvl), nil
}

// Tree implements Engine.
func (e *Sequential) Tree(ctx context.Context, path string) (*tiger.Tree, error) {
	leaves, err := e.read(ctx, path, false)
	if err != nil {
		return nil, err
	}
	return tiger.NewTree(leaves), nil
}

func (e *Sequential) read(ctx context.Context, path string, paired bool) (_ []tiger.Hash, gerr error) {
	defer measure(durHash.WithLabelValues(EngineSequential))()
	f, size, err := openFile(e.fs, path)
	if err != nil {
		countFile(EngineSequential, 0, err)
		return nil, err
	}
	defer f.Close()
	defer func() {
		countFile(EngineSequential, size, gerr)
	}()
	e.log.Debug("hashing file", "engine", EngineSequential, "path", path, "size", size)

	hint := tiger.LeafCount(size)
	if paired {
		hint = (hint + 1) / 2
	}
	r := &fileReader{
		ctx:  ctx,
		path: path,
		r:    bufio.NewReaderSize(io.LimitReader(f, size), e.chunk),
	}
	lvl, err := tiger.ReadLevel(r, int(hint), paired)
	if err != nil {
		return nil, err
	}
	if r.off != size {
		return nil, &IOError{Path: path, Offset: r.off, Err: io.ErrUnexpectedEOF}
	}
	return lvl, nil
}

// fileReader tracks the read offset, wraps read errors and stops when the context is canceled.
type fileReader struct {
	ctx  context.Context
	path string
	r    io.Reader
	off  int64
}

func (r *fileReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := r.r.Read(p)
	r.off += int64(n)
	if err != nil && err != io.EOF {
		err = &IOError{Path: r.path, Offset: r.off, Err: err}
	}
	return n, err
}
