// Package types defines the value types shared across the command
// pipeline: token tags, target pairs, the cross-turn Pending record, and
// the parser error taxonomy.
package types

// Tag is the part-of-speech category assigned to an input token.
type Tag int

const (
	TagNone Tag = iota
	TagVerb
	TagNoun
	TagPrep
	TagDirection
	TagPronoun
	TagConj
	TagArticle
	TagIgnore
	TagPunct
	TagAll
	TagExcept
	TagKeyword
	TagAnswer
)

var tagNames = map[Tag]string{
	TagNone:      "none",
	TagVerb:      "verb",
	TagNoun:      "noun",
	TagPrep:      "preposition",
	TagDirection: "direction",
	TagPronoun:   "pronoun",
	TagConj:      "conjunction",
	TagArticle:   "article",
	TagIgnore:    "ignore",
	TagPunct:     "punctuation",
	TagAll:       "all",
	TagExcept:    "except",
	TagKeyword:   "keyword",
	TagAnswer:    "answer",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "invalid"
}

// Token is a single input word with its resolved tag. Canon is the
// canonical form for categories with synonym sets ("towards" -> "to",
// "n" -> "north"); for other tags it equals Word.
type Token struct {
	Word  string
	Canon string
	Tag   Tag
}

// TargetPair is a preposition plus an ordered list of noun strings, as
// produced by the clause former. Prep is the canonical preposition
// ("to", not "towards") or empty.
type TargetPair struct {
	Prep  string
	Nouns []string
}

// Empty reports whether the pair carries neither a preposition nor nouns.
func (p TargetPair) Empty() bool {
	return p.Prep == "" && len(p.Nouns) == 0
}

// Equal compares pairs structurally. Nil and empty noun lists compare equal.
func (p TargetPair) Equal(o TargetPair) bool {
	if p.Prep != o.Prep || len(p.Nouns) != len(o.Nouns) {
		return false
	}
	for i := range p.Nouns {
		if p.Nouns[i] != o.Nouns[i] {
			return false
		}
	}
	return true
}

// Clause is one parsed command: a verb (possibly empty) and its target
// pairs, still holding plain noun strings.
type Clause struct {
	Verb  string
	Pairs []TargetPair
}

// Pending records an ambiguity from a previous turn that the next input
// may clarify. It is owned by the caller and survives exactly one turn.
type Pending struct {
	Verb  string
	Pairs []TargetPair
	Class Tag // TagNoun or TagPrep
	Pair  int // index of the ambiguous pair
	Noun  int // index of the ambiguous noun within the pair
}

// Equal compares two Pending records structurally.
func (a *Pending) Equal(b *Pending) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Verb != b.Verb || a.Class != b.Class || a.Pair != b.Pair || a.Noun != b.Noun {
		return false
	}
	if len(a.Pairs) != len(b.Pairs) {
		return false
	}
	for i := range a.Pairs {
		if !a.Pairs[i].Equal(b.Pairs[i]) {
			return false
		}
	}
	return true
}

// ParseError is a fatal-for-this-clause failure with a message narrated
// verbatim to the player.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// LexError reports an unrecognized or irreducibly ambiguous word.
type LexError struct {
	Word string
	Msg  string
}

func (e *LexError) Error() string { return e.Msg }

// ClauseError reports a malformed token sequence.
type ClauseError struct {
	Msg string
}

func (e *ClauseError) Error() string { return e.Msg }

// NotFoundError reports a noun that matched no visible entity.
type NotFoundError struct {
	Noun string
	Msg  string
}

func (e *NotFoundError) Error() string { return e.Msg }

// AmbiguityError is recoverable: it carries a clarifying question for
// the player and a Pending record the caller must hold until the next
// parse call.
type AmbiguityError struct {
	Msg     string
	Pending Pending
}

func (e *AmbiguityError) Error() string { return e.Msg }
