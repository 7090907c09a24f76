package finance

import (
	"context"
	"errors"
)

// Scope memoizes one investor's visibility resolution for the duration of a
// request, so handlers can call CanView repeatedly without re-walking the
// join chain. Not safe for concurrent use; create one per request.
type Scope struct {
	engine   *Engine
	document string

	resolved bool
	visible  map[int64]bool
	err      error
}

func (e *Engine) ScopeFor(cpfOrCnpj string) *Scope {
	return &Scope{engine: e, document: cpfOrCnpj}
}

// CanView reports whether the investor may see the operation. An investor
// with no ERP client code can see nothing; that is a false, not an error.
func (s *Scope) CanView(ctx context.Context, operationID int64) (bool, error) {
	if err := s.resolve(ctx); err != nil {
		return false, err
	}
	return s.visible[operationID], nil
}

func (s *Scope) resolve(ctx context.Context) error {
	if s.resolved {
		return s.err
	}
	s.resolved = true
	s.visible = make(map[int64]bool)

	names, err := s.engine.ResolveInvestorOperationNames(ctx, s.document)
	if errors.Is(err, ErrNoClientCode) {
		return nil
	}
	if err != nil {
		s.err = err
		return err
	}
	if len(names) == 0 {
		return nil
	}

	// Exact-name lookup first; the fuzzy pass only runs for project names
	// the exact lookup missed.
	exact, err := s.engine.store.Operations.GetByNames(ctx, names)
	if err != nil {
		s.err = err
		return err
	}
	matched := make(map[string]bool, len(exact))
	for _, op := range exact {
		s.visible[op.ID] = true
		matched[op.Name] = true
	}

	var unmatched []string
	for _, n := range names {
		if !matched[n] {
			unmatched = append(unmatched, n)
		}
	}
	if len(unmatched) == 0 {
		return nil
	}

	operations, err := s.engine.store.Operations.GetAll(ctx)
	if err != nil {
		s.err = err
		return err
	}
	for _, op := range operations {
		if s.visible[op.ID] {
			continue
		}
		for _, n := range unmatched {
			if namesMatch(op.Name, n) {
				s.visible[op.ID] = true
				break
			}
		}
	}
	return nil
}
