package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
)

// Parse turns a path string into an ordered directive sequence. It never
// touches package-level state: every call builds its own slice, matching
// the "no global mutable state" design note — the caller's goroutine is
// free to parse concurrently with any other.
//
// Grammar: a dot-separated sequence of components. Backslash escapes the
// next character literally. The final character may be an unescaped
// trailing '.' (the whole path resolves to list-insert at the last named
// location) or trailing '+' (the final component's set operation becomes
// numeric-add). An empty path denotes the whole document.
func Parse(s string) ([]Directive, error) {
	if s == "" {
		return nil, nil
	}

	trailingInsert := false
	trailingAdd := false
	body := s

	if last := s[len(s)-1]; (last == '.' || last == '+') && !escapedAt(s, len(s)-1) {
		body = s[:len(s)-1]
		if last == '.' {
			trailingInsert = true
		} else {
			trailingAdd = true
		}
	}

	if body == "" {
		return nil, fmt.Errorf("%w: path %q has no components before its trailing operator", apperr.ErrInvalidPath, s)
	}

	rawComponents, err := splitComponents(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidPath, err)
	}

	directives := make([]Directive, len(rawComponents))
	for i, raw := range rawComponents {
		isLast := i == len(rawComponents)-1
		d, err := componentToDirective(raw)
		if err != nil {
			return nil, err
		}
		if isLast {
			if trailingInsert {
				d = Directive{Kind: ListInsert}
			} else if trailingAdd {
				d, err = toAddVariant(d)
				if err != nil {
					return nil, err
				}
			}
		}
		directives[i] = d
	}
	return directives, nil
}

// escapedAt reports whether the byte at index i is escaped by an odd
// number of immediately preceding backslashes.
func escapedAt(s string, i int) bool {
	backslashes := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// splitComponents splits body on unescaped '.' and then unescapes each
// component (turning "\\X" into the literal character X).
func splitComponents(body string) ([]string, error) {
	var components []string
	var cur strings.Builder
	escaping := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if escaping {
			cur.WriteByte(c)
			escaping = false
			continue
		}
		switch c {
		case '\\':
			if i == len(body)-1 {
				return nil, fmt.Errorf("path cannot end in a bare escape character")
			}
			escaping = true
		case '.':
			components = append(components, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if escaping {
		return nil, fmt.Errorf("path cannot end in a bare escape character")
	}
	components = append(components, cur.String())
	return components, nil
}

// componentToDirective converts one unescaped, trimmed component into its
// base (non-add) directive.
func componentToDirective(raw string) (Directive, error) {
	if raw == "" {
		return Directive{}, fmt.Errorf("%w: empty path component", apperr.ErrInvalidPath)
	}
	if i, ok := parseInt(raw); ok {
		if i == -1 {
			return Directive{Kind: ListLastIndex}, nil
		}
		if i < 0 {
			return Directive{}, fmt.Errorf("%w: list index %d must be >= -1", apperr.ErrInvalidPath, i)
		}
		return Directive{Kind: ListIndex, Index: i}, nil
	}
	return Directive{Kind: MapKey, Key: raw}, nil
}

func toAddVariant(d Directive) (Directive, error) {
	switch d.Kind {
	case MapKey:
		d.Kind = MapKeyAdd
	case ListIndex:
		d.Kind = ListIndexAdd
	case ListLastIndex:
		d.Kind = ListLastIndexAdd
	default:
		return Directive{}, fmt.Errorf("%w: '+' cannot apply to directive kind %d", apperr.ErrInvalidPath, d.Kind)
	}
	return d, nil
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
