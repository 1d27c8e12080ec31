package generator

import (
	"strings"

	"destructgen/internal/config"
	"destructgen/internal/types"
)

// Classification is the teardown decision for one field.
type Classification struct {
	Field    types.Field
	Action   types.Action
	Strategy types.Strategy
}

// Classifier maps fields to teardown actions. The zero value is not usable;
// build one with NewClassifier.
type Classifier struct {
	markers []string
	match   config.CharMatch
}

func NewClassifier(markers []string, match config.CharMatch) *Classifier {
	if len(markers) == 0 {
		markers = config.Default().CharMarkers
	}
	if match == "" {
		match = config.MatchSubstring
	}
	return &Classifier{markers: markers, match: match}
}

// ClassifierFromConfig builds a classifier from the char_* settings.
func ClassifierFromConfig(cfg *config.Config) *Classifier {
	return NewClassifier(cfg.CharMarkers, cfg.CharMatch)
}

// Classify applies the ownership rules to a single field:
//
//	Other, no attributes          -> skip
//	Other, any attribute          -> error
//	pointer to pointer            -> error
//	pointer, no_release           -> suppressed (nullable is irrelevant)
//	pointer, nullable             -> guarded release
//	pointer                       -> release
func (c *Classifier) Classify(f types.Field) (Classification, error) {
	if err := types.ValidateField(f); err != nil {
		return Classification{}, err
	}

	ptr, ok := f.Pointer()
	if !ok {
		return Classification{Field: f, Action: types.SkipAction}, nil
	}

	switch {
	case f.Has(types.NoRelease):
		return Classification{Field: f, Action: types.SuppressedAction}, nil
	case f.Has(types.Nullable):
		return Classification{Field: f, Action: types.GuardedReleaseAction, Strategy: c.Strategy(ptr.Pointee)}, nil
	default:
		return Classification{Field: f, Action: types.ReleaseAction, Strategy: c.Strategy(ptr.Pointee)}, nil
	}
}

// Strategy picks the release strategy for a pointee descriptor.
func (c *Classifier) Strategy(pointee string) types.Strategy {
	if c.isChar(pointee) {
		return types.StringRelease
	}
	return types.GenericRelease
}

func (c *Classifier) isChar(pointee string) bool {
	pointee = strings.TrimSpace(pointee)
	switch c.match {
	case config.MatchExact:
		last := lastSegment(pointee)
		for _, m := range c.markers {
			if last == lastSegment(m) {
				return true
			}
		}
		return false
	default:
		for _, m := range c.markers {
			if strings.Contains(pointee, m) {
				return true
			}
		}
		return false
	}
}

// lastSegment strips namespace qualification: std::ffi::c_char -> c_char,
// C.char -> char.
func lastSegment(desc string) string {
	if i := strings.LastIndex(desc, "::"); i >= 0 {
		desc = desc[i+2:]
	}
	if i := strings.LastIndex(desc, "."); i >= 0 {
		desc = desc[i+1:]
	}
	return strings.TrimSpace(desc)
}
