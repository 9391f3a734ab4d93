package query

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cshape/internal/diag"
	"cshape/internal/layout"
)

// RootResult is the outcome of resolving one root type.
type RootResult struct {
	Name   string
	Layout layout.TypeLayout
	Err    error
}

// ResolveRoots resolves independent root types in parallel. The graph is an
// immutable snapshot and the engine's memo table is internally guarded, so
// sibling subtrees may race harmlessly; each root's own subtree still
// resolves strictly bottom-up inside its goroutine.
//
// Per-node failures land in the returned bag and in the result's Err; only
// context cancellation aborts the whole run.
func (f *Facade) ResolveRoots(ctx context.Context, roots []string, jobs int) ([]RootResult, *diag.Bag, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]RootResult, len(roots))
	bags := make([]*diag.Bag, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(roots), 1)))

	for i, name := range roots {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(16)
			bags[i] = bag
			results[i] = RootResult{Name: name}

			l, err := f.LayoutOf(name)
			if err != nil {
				results[i].Err = err
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     codeFor(err),
					Subject:  name,
					Message:  err.Error(),
				})
				return nil
			}
			results[i].Layout = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, mergeBags(bags), fmt.Errorf("resolve roots: %w", err)
	}
	return results, mergeBags(bags), nil
}

func codeFor(err error) diag.Code {
	var unknown *UnknownTypeError
	if errors.As(err, &unknown) {
		return diag.QueryUnknownType
	}
	var lerr *layout.Error
	if errors.As(err, &lerr) {
		switch lerr.Kind {
		case layout.ErrCycle:
			return diag.LayoutCycle
		case layout.ErrInvalidPacking:
			return diag.LayoutInvalidPacking
		}
	}
	return diag.UnknownCode
}

// mergeBags keeps result order deterministic regardless of goroutine
// scheduling.
func mergeBags(bags []*diag.Bag) *diag.Bag {
	out := diag.NewBag(0)
	for _, b := range bags {
		out.Merge(b)
	}
	return out
}
