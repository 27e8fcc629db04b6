// Package tth calculates Tiger Tree Hashes of files.
//
// Two engines are provided: Sequential reads the file in a single pass, while Parallel splits
// the file between multiple workers to compute the leaves level. Both produce identical trees.
package tth

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"

	"github.com/direct-connect/go-tth/tiger"
)

// Engine calculates Tiger Tree Hashes of files.
type Engine interface {
	// Name returns a short name of the engine.
	Name() string
	// Tree calculates the full tree of the file.
	Tree(ctx context.Context, path string) (*tiger.Tree, error)
	// Root calculates only the root hash of the file. Lower levels are released as soon as possible.
	Root(ctx context.Context, path string) (tiger.Hash, error)
}

const (
	EngineSequential = "sequential"
	EngineParallel   = "parallel"
)

// New creates an engine with a given name.
func New(name string, c Config) (Engine, error) {
	switch name {
	case EngineSequential:
		return NewSequential(c), nil
	case EngineParallel, "":
		return NewParallel(c), nil
	}
	return nil, fmt.Errorf("tth: unknown engine: %q", name)
}

// ComputeRoot calculates the TTH of the file using the default Parallel engine.
func ComputeRoot(ctx context.Context, path string) (tiger.Hash, error) {
	return NewParallel(Config{}).Root(ctx, path)
}

// ComputeTree calculates the full Tiger Hash Tree of the file using the default Parallel engine.
func ComputeTree(ctx context.Context, path string) (*tiger.Tree, error) {
	return NewParallel(Config{}).Tree(ctx, path)
}

func openError(path string, err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		err = pe.Err
	}
	return &PathError{Path: path, Err: err}
}

// openFile opens the file for reading and returns its size.
func openFile(fsys afero.Fs, path string) (afero.File, int64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, 0, openError(path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, openError(path, err)
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, 0, &PathError{Path: path, Err: fmt.Errorf("not a regular file: %v", fi.Mode().Type())}
	}
	return f, fi.Size(), nil
}

// statFile checks that the file exists and returns its size.
func statFile(fsys afero.Fs, path string) (int64, error) {
	f, size, err := openFile(fsys, path)
	if err != nil {
		return 0, err
	}
	f.Close()
	return size, nil
}
