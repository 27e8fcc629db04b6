package tth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/direct-connect/go-tth/tiger"
)

var _ Engine = (*FallbackEngine)(nil)

// FallbackEngine tries a list of engines in order and returns the first successful result.
//
// Missing files and canceled contexts are not retried, since other engines will fail the same way.
type FallbackEngine struct {
	engines []Engine
	log     *slog.Logger
}

// Fallback creates an engine that tries each of the engines in order.
// If log is nil, slog.Default() is used.
func Fallback(log *slog.Logger, engines ...Engine) *FallbackEngine {
	if log == nil {
		log = slog.Default()
	}
	return &FallbackEngine{engines: engines, log: log}
}

func (e *FallbackEngine) Name() string {
	names := make([]string, 0, len(e.engines))
	for _, s := range e.engines {
		names = append(names, s.Name())
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

// Root implements Engine.
func (e *FallbackEngine) Root(ctx context.Context, path string) (tiger.Hash, error) {
	var root tiger.Hash
	err := e.try(ctx, path, func(s Engine) (err error) {
		root, err = s.Root(ctx, path)
		return err
	})
	return root, err
}

// Tree implements Engine.
func (e *FallbackEngine) Tree(ctx context.Context, path string) (*tiger.Tree, error) {
	var tree *tiger.Tree
	err := e.try(ctx, path, func(s Engine) (err error) {
		tree, err = s.Tree(ctx, path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (e *FallbackEngine) try(ctx context.Context, path string, fnc func(s Engine) error) error {
	if len(e.engines) == 0 {
		return errors.New("tth: no engines to try")
	}
	var ferr FallbackError
	for _, s := range e.engines {
		err := fnc(s)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNotFound) || isCanceled(err) {
			return err
		}
		e.log.Warn("engine failed", "engine", s.Name(), "path", path, "err", err)
		ferr.Attempts = append(ferr.Attempts, Attempt{Engine: s.Name(), Err: err})
		if ctx.Err() != nil {
			break
		}
	}
	return &ferr
}
