package tth

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/direct-connect/go-tth/tiger"
)

const testFile = "/data/file.bin"

var testSizes = []int{
	0, 1, 1023, 1024, 1025, 2048, 3 * 1024, 3*1024 + 1,
	7*1024 + 100, 64 * 1024, 100*1024 + 3, 1<<20 + 1, 3<<20 + 5000,
}

func TestEnginesAgree(t *testing.T) {
	ctx := context.Background()
	log := slogt.New(t)
	for _, size := range testSizes {
		data := pattern(size)
		fs := memFile(t, testFile, data)

		exp, err := tiger.TreeHash(bytes.NewReader(data))
		require.NoError(t, err)

		seq := NewSequential(Config{Fs: fs, Log: log})
		root, err := seq.Root(ctx, testFile)
		require.NoError(t, err)
		require.Equal(t, exp, root, "size=%d", size)

		tree, err := seq.Tree(ctx, testFile)
		require.NoError(t, err)
		require.Equal(t, exp, tree.Root(), "size=%d", size)
		require.Equal(t, int(tiger.LeafCount(int64(size))), tree.LeafCount())

		for _, workers := range []int{1, 2, 4, 8} {
			for _, chunk := range []int{tiger.LeafSize, 3*tiger.LeafSize + 100, 0} {
				par := NewParallel(Config{Fs: fs, Workers: workers, ChunkSize: chunk, Log: log})
				root, err := par.Root(ctx, testFile)
				require.NoError(t, err)
				require.Equal(t, exp, root, "size=%d, workers=%d, chunk=%d", size, workers, chunk)

				ptree, err := par.Tree(ctx, testFile)
				require.NoError(t, err)
				require.Equal(t, tree.Levels(), ptree.Levels(), "size=%d, workers=%d, chunk=%d", size, workers, chunk)
			}
		}
	}
}

func TestEngineIdempotent(t *testing.T) {
	ctx := context.Background()
	fs := memFile(t, testFile, pattern(50*1024+17))
	for _, e := range []Engine{
		NewSequential(Config{Fs: fs, Log: slogt.New(t)}),
		NewParallel(Config{Fs: fs, Log: slogt.New(t)}),
	} {
		r1, err := e.Root(ctx, testFile)
		require.NoError(t, err)
		r2, err := e.Root(ctx, testFile)
		require.NoError(t, err)
		require.Equal(t, r1, r2, e.Name())
	}
}

func TestEngineKnownRoots(t *testing.T) {
	ctx := context.Background()
	a := bytes.Repeat([]byte{'a'}, tiger.LeafSize)
	cases := []struct {
		name string
		data []byte
		root tiger.Hash
	}{
		{"empty", nil, tiger.HashBytes([]byte{0x00})},
		{"one leaf", a, tiger.LeafHash(a)},
		{"two leaves", append(append([]byte{}, a...), 'b'),
			tiger.InternalHash(tiger.LeafHash(a), tiger.LeafHash([]byte{'b'}))},
		{"dc vector", bytes.Repeat([]byte{'a'}, 1025),
			tiger.MustParseBase32("CDYY2OW6F6DTGCH3Q6NMSDLSRV7PNMAL3CED3DA")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fs := memFile(t, testFile, c.data)
			for _, e := range []Engine{
				NewSequential(Config{Fs: fs, Log: slogt.New(t)}),
				NewParallel(Config{Fs: fs, Log: slogt.New(t)}),
			} {
				root, err := e.Root(ctx, testFile)
				require.NoError(t, err)
				require.Equal(t, c.root, root, e.Name())

				tree, err := e.Tree(ctx, testFile)
				require.NoError(t, err)
				require.Equal(t, c.root, tree.Root(), e.Name())
			}
		})
	}
}

func TestEngineEmptyFile(t *testing.T) {
	fs := memFile(t, testFile, nil)
	tree, err := NewParallel(Config{Fs: fs, Log: slogt.New(t)}).Tree(context.Background(), testFile)
	require.NoError(t, err)
	require.Equal(t, 1, tree.Depth())
	require.Equal(t, []tiger.Hash{tiger.LeafHash(nil)}, tree.Leaves())
}

func TestEngineNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dir", 0755))
	for _, e := range []Engine{
		NewSequential(Config{Fs: fs, Log: slogt.New(t)}),
		NewParallel(Config{Fs: fs, Log: slogt.New(t)}),
	} {
		for _, path := range []string{"/missing.bin", "/dir"} {
			_, err := e.Root(context.Background(), path)
			require.ErrorIs(t, err, ErrNotFound, e.Name())
			var perr *PathError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, path, perr.Path)

			_, err = e.Tree(context.Background(), path)
			require.ErrorIs(t, err, ErrNotFound, e.Name())
		}
	}
}

func TestSequentialReadFailure(t *testing.T) {
	fs := &faultyFs{Fs: memFile(t, testFile, pattern(10*1024)), failAt: 5 * 1024}
	e := NewSequential(Config{Fs: fs, ChunkSize: 1024, Log: slogt.New(t)})
	_, err := e.Root(context.Background(), testFile)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, errInjected)

	tree, err := e.Tree(context.Background(), testFile)
	require.ErrorIs(t, err, ErrIO)
	require.Nil(t, tree)
	var ioerr *IOError
	require.ErrorAs(t, err, &ioerr)
	require.Equal(t, testFile, ioerr.Path)
	require.Equal(t, int64(5*1024), ioerr.Offset)
}

func TestParallelWorkerFailure(t *testing.T) {
	const size = 64 * 1024
	fs := &faultyFs{Fs: memFile(t, testFile, pattern(size)), failAt: size - 1}
	e := NewParallel(Config{Fs: fs, Workers: 4, ChunkSize: 1024, Log: slogt.New(t)})

	before := testutil.ToFloat64(cntWorkerFailures)
	leaves, err := e.Leaves(context.Background(), testFile)
	require.Nil(t, leaves)
	require.ErrorIs(t, err, ErrWorker)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, errInjected)

	var werr *WorkersError
	require.ErrorAs(t, err, &werr)
	require.Len(t, werr.Errs, 1)
	require.Equal(t, 3, werr.Errs[0].Worker)
	require.Equal(t, int64(size), werr.Errs[0].Part.End)
	require.Equal(t, before+1, testutil.ToFloat64(cntWorkerFailures))

	tree, err := e.Tree(context.Background(), testFile)
	require.ErrorIs(t, err, ErrWorker)
	require.Nil(t, tree)
}

func TestParallelCancelOnFailure(t *testing.T) {
	const (
		size    = 4 * 200 * 1024
		workers = 4
	)
	// the first worker fails right away, the others read slowly
	fs := &faultyFs{Fs: memFile(t, testFile, pattern(size)), failAt: 0, delay: 2 * time.Millisecond}
	e := NewParallel(Config{Fs: fs, Workers: workers, ChunkSize: 1024, Log: slogt.New(t)})
	_, err := e.Root(context.Background(), testFile)
	require.ErrorIs(t, err, ErrWorker)
	require.Less(t, fs.reads.Load(), int64(size/1024/2))
}

func TestEngineCanceled(t *testing.T) {
	fs := memFile(t, testFile, pattern(100*1024))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, e := range []Engine{
		NewSequential(Config{Fs: fs, Log: slogt.New(t)}),
		NewParallel(Config{Fs: fs, Log: slogt.New(t)}),
	} {
		_, err := e.Root(ctx, testFile)
		require.ErrorIs(t, err, context.Canceled, e.Name())
		require.False(t, errors.Is(err, ErrWorker), e.Name())
	}
}

func TestEngineMetrics(t *testing.T) {
	fs := memFile(t, testFile, pattern(10*1024))
	e := NewSequential(Config{Fs: fs, Log: slogt.New(t)})

	ok := cntFiles.WithLabelValues(EngineSequential, resultOK)
	nbytes := cntBytes.WithLabelValues(EngineSequential)
	failed := cntFiles.WithLabelValues(EngineSequential, resultError)
	okBefore, bytesBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(nbytes), testutil.ToFloat64(failed)

	_, err := e.Root(context.Background(), testFile)
	require.NoError(t, err)
	_, err = e.Root(context.Background(), "/missing")
	require.Error(t, err)

	require.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	require.Equal(t, bytesBefore+10*1024, testutil.ToFloat64(nbytes))
	require.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestNewEngine(t *testing.T) {
	e, err := New(EngineSequential, Config{})
	require.NoError(t, err)
	require.Equal(t, EngineSequential, e.Name())

	e, err = New("", Config{})
	require.NoError(t, err)
	require.Equal(t, EngineParallel, e.Name())

	_, err = New("quantum", Config{})
	require.Error(t, err)
}

func TestComputeOSFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.bin")
	data := pattern(300*1024 + 11)
	require.NoError(t, os.WriteFile(path, data, 0644))

	exp, err := tiger.TreeHash(bytes.NewReader(data))
	require.NoError(t, err)

	root, err := ComputeRoot(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, exp, root)

	tree, err := ComputeTree(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, exp, tree.Root())

	_, err = ComputeRoot(context.Background(), filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConfigDefaults(t *testing.T) {
	c := Config{ChunkSize: 3000}.withDefaults()
	require.Equal(t, DefaultWorkers, c.Workers)
	require.Equal(t, 2*tiger.LeafSize, c.ChunkSize)
	require.NotNil(t, c.Fs)
	require.NotNil(t, c.Log)

	c = Config{ChunkSize: 10}.withDefaults()
	require.Equal(t, tiger.LeafSize, c.ChunkSize)
}
