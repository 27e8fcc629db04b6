package tth

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected read failure")

// faultyFs fails reads that cover the byte at failAt and optionally slows down every read.
type faultyFs struct {
	afero.Fs
	failAt int64
	delay  time.Duration
	reads  atomic.Int64
}

func (fs *faultyFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: f, fs: fs}, nil
}

type faultyFile struct {
	afero.File
	fs  *faultyFs
	off int64
}

func (f *faultyFile) Seek(off int64, whence int) (int64, error) {
	n, err := f.File.Seek(off, whence)
	f.off = n
	return n, err
}

func (f *faultyFile) Read(p []byte) (int, error) {
	f.fs.reads.Add(1)
	if f.fs.delay > 0 {
		time.Sleep(f.fs.delay)
	}
	if f.off <= f.fs.failAt && f.fs.failAt < f.off+int64(len(p)) {
		return 0, errInjected
	}
	n, err := f.File.Read(p)
	f.off += int64(n)
	return n, err
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*13 + i/1024 + i/7)
	}
	return b
}

func memFile(t testing.TB, name string, data []byte) afero.Fs {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, name, data, 0644))
	return fs
}
