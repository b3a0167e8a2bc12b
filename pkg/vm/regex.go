package vm

import (
	"strings"
	"unsafe"

	"github.com/dlclark/regexp2"
)

// RegExpObject represents a JavaScript RegExp object backed by regexp2,
// which speaks ECMAScript syntax (backreferences, lookbehind) that the
// stdlib engine rejects.
type RegExpObject struct {
	Object
	compiledRegex *regexp2.Regexp // Compiled regexp2 program
	source        string          // Original pattern string (without slashes)
	flags         string          // JavaScript flags (g, i, m, s, u, y)
	global        bool            // Cached global flag
	sticky        bool            // Cached sticky flag
	lastIndex     int             // For global/sticky stateful matching
	Properties    *PlainObject    // Own-property table (lastIndex mirrors, proto link)
}

// NewRegExp creates a new RegExp object from pattern and flags. proto is
// the realm's RegExp.prototype.
func NewRegExp(pattern, flags string, proto Value) (Value, error) {
	opts := translateJSFlags(flags)
	compiledRegex, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return Undefined, err
	}

	regexObj := &RegExpObject{
		compiledRegex: compiledRegex,
		source:        pattern,
		flags:         flags,
		global:        strings.Contains(flags, "g"),
		sticky:        strings.Contains(flags, "y"),
		lastIndex:     0,
		Properties:    NewObject(proto).AsPlainObject(),
	}
	regexObj.Properties.SetOwnNonEnumerable("lastIndex", IntegerValue(0))

	return RegExpValue(regexObj), nil
}

// translateJSFlags maps JavaScript regex flags onto regexp2 options. The
// g and y flags only affect lastIndex handling, not compilation.
func translateJSFlags(flags string) regexp2.RegexOptions {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if strings.Contains(flags, "i") {
		opts |= regexp2.IgnoreCase
	}
	if strings.Contains(flags, "m") {
		opts |= regexp2.Multiline
	}
	if strings.Contains(flags, "s") {
		opts |= regexp2.Singleline
	}
	if strings.Contains(flags, "u") {
		opts |= regexp2.Unicode
	}
	return opts
}

// RegExpValue creates a Value from a RegExpObject
func RegExpValue(r *RegExpObject) Value {
	return Value{
		typ: TypeRegExp,
		obj: unsafe.Pointer(r),
	}
}

func (r *RegExpObject) GetSource() string {
	return r.source
}

func (r *RegExpObject) GetFlags() string {
	return r.flags
}

func (r *RegExpObject) IsGlobal() bool {
	return r.global
}

func (r *RegExpObject) IsSticky() bool {
	return r.sticky
}

func (r *RegExpObject) GetLastIndex() int {
	return r.lastIndex
}

func (r *RegExpObject) SetLastIndex(index int) {
	if index < 0 {
		index = 0
	}
	r.lastIndex = index
	r.Properties.SetOwnNonEnumerable("lastIndex", IntegerValue(int32(index)))
}

// MatchResult is one match against an input string.
type MatchResult struct {
	Index  int      // rune index of the match start
	Input  string   // the matched text
	Groups []Value  // capture groups (Undefined for non-participating)
}

// ExecString runs the pattern against input starting at startAt (rune
// index). Returns nil when there is no match.
func (r *RegExpObject) ExecString(input string, startAt int) (*MatchResult, error) {
	m, err := r.compiledRegex.FindStringMatchStartingAt(input, startAt)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	if r.sticky && m.Index != startAt {
		return nil, nil
	}
	result := &MatchResult{Index: m.Index, Input: m.String()}
	for i, g := range m.Groups() {
		if i == 0 {
			continue
		}
		if len(g.Captures) == 0 {
			result.Groups = append(result.Groups, Undefined)
		} else {
			result.Groups = append(result.Groups, NewString(g.String()))
		}
	}
	return result, nil
}

// MatchString reports whether the pattern matches anywhere in input.
func (r *RegExpObject) MatchString(input string) (bool, error) {
	return r.compiledRegex.MatchString(input)
}
