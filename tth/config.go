package tth

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/direct-connect/go-tth/tiger"
)

const (
	// DefaultWorkers is the default number of workers used by the Parallel engine.
	DefaultWorkers = 4
	// DefaultChunkSize is the default size of a single read.
	DefaultChunkSize = 1024 * tiger.LeafSize
)

// Config is a common configuration of hashing engines.
type Config struct {
	// Workers is the number of goroutines reading and hashing the file in parallel.
	// Ignored by the Sequential engine.
	Workers int
	// ChunkSize is the size of a single file read. It's rounded down to a multiple of tiger.LeafSize.
	ChunkSize int
	// Fs is a filesystem to read files from. Defaults to the OS filesystem.
	Fs afero.Fs
	// Log is a logger for the engine. Defaults to slog.Default().
	Log *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	c.ChunkSize -= c.ChunkSize % tiger.LeafSize
	if c.ChunkSize < tiger.LeafSize {
		c.ChunkSize = tiger.LeafSize
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return c
}
