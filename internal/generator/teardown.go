package generator

import (
	"destructgen/internal/types"
)

// Statement is one release in a teardown procedure.
type Statement struct {
	Field    string
	Pointee  string
	Strategy types.Strategy
	Guarded  bool
}

// Teardown is the ordered release plan for one struct type.
type Teardown struct {
	TypeName        string
	Statements      []Statement
	Classifications []Classification
}

// SynthesizeTeardown classifies every field of s in declaration order and
// assembles the release statements. Any schema error aborts the whole type:
// no partial teardown is ever returned.
func SynthesizeTeardown(s types.Struct, c *Classifier) (*Teardown, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	td := &Teardown{
		TypeName:        s.Name,
		Statements:      make([]Statement, 0, len(s.Fields)),
		Classifications: make([]Classification, 0, len(s.Fields)),
	}

	for _, f := range s.Fields {
		cl, err := c.Classify(f)
		if err != nil {
			return nil, types.WithType(err, s.Name)
		}
		td.Classifications = append(td.Classifications, cl)

		if !cl.Action.Emits() {
			continue
		}
		ptr, _ := f.Pointer()
		td.Statements = append(td.Statements, Statement{
			Field:    f.Name,
			Pointee:  ptr.Pointee,
			Strategy: cl.Strategy,
			Guarded:  cl.Action == types.GuardedReleaseAction,
		})
	}

	return td, nil
}

// Empty reports whether the teardown releases nothing.
func (t *Teardown) Empty() bool {
	return len(t.Statements) == 0
}

// HasStrategy reports whether any statement uses the given strategy.
func (t *Teardown) HasStrategy(s types.Strategy) bool {
	for _, st := range t.Statements {
		if st.Strategy == s {
			return true
		}
	}
	return false
}
