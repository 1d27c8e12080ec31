package types

import "strings"

// Action is what the teardown does with a single field.
type Action string

const (
	SkipAction           Action = "skip"
	ReleaseAction        Action = "release"
	GuardedReleaseAction Action = "guarded_release"
	SuppressedAction     Action = "suppressed"
)

func (a Action) String() string {
	switch a {
	case SkipAction:
		return "skip"
	case ReleaseAction:
		return "release"
	case GuardedReleaseAction:
		return "guarded_release"
	case SuppressedAction:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Emits reports whether the action produces a statement in the teardown.
func (a Action) Emits() bool {
	return a == ReleaseAction || a == GuardedReleaseAction
}

// Strategy is the release operation applied to a released pointer.
type Strategy string

const (
	NoStrategy     Strategy = ""
	StringRelease  Strategy = "string"
	GenericRelease Strategy = "generic"
)

func (s Strategy) String() string {
	switch s {
	case StringRelease:
		return "string"
	case GenericRelease:
		return "generic"
	default:
		return "none"
	}
}

// Attribute is an ownership hint attached to a raw pointer field.
type Attribute string

const (
	Nullable  Attribute = "nullable"
	NoRelease Attribute = "no_release"
)

func (a Attribute) String() string {
	return string(a)
}

// ParseAttribute maps a tag to an Attribute. Tags are matched case-insensitively.
func ParseAttribute(tag string) (Attribute, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "nullable":
		return Nullable, nil
	case "no_release":
		return NoRelease, nil
	default:
		return "", &SchemaError{Tag: tag, Err: ErrUnknownAttribute}
	}
}

// ParseAttributes parses every tag, dropping duplicates and empty entries.
func ParseAttributes(tags []string) ([]Attribute, error) {
	var attrs []Attribute
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		attr, err := ParseAttribute(tag)
		if err != nil {
			return nil, err
		}
		dup := false
		for _, a := range attrs {
			if a == attr {
				dup = true
				break
			}
		}
		if !dup {
			attrs = append(attrs, attr)
		}
	}
	return attrs, nil
}
