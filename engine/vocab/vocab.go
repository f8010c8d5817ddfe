// Package vocab builds the word categories the lexer tags against.
// Noun and verb categories are derived from live world and registry
// state, so a fresh build is needed per clause: handler execution
// mid-line can change which words are valid.
package vocab

import (
	"strings"

	"github.com/leokoppel/notea/engine/action"
	"github.com/leokoppel/notea/types"
	"github.com/leokoppel/notea/world"
)

// Prepositions maps surface words to their canonical preposition. The
// set is parser-side only: "look through desk" and "look through
// window" may mean different things, and handlers decide.
var Prepositions = map[string]string{
	"to": "to", "toward": "to", "towards": "to",
	"from":    "from",
	"at":      "at",
	"in":      "in", "inside": "in", "within": "in",
	"through": "through",
	"above":   "above",
	"over":    "over", // distinct from "above": consider "look over a desk"
	"under":   "under", "below": "under", "beneath": "under", "underneath": "under",
	"up":     "up",
	"down":   "down", // distinct from the navigation directions
	"behind": "behind",
	"around": "around",
	"out":    "out", "outside": "out",
	"about": "about",
	"on":    "on",
	"off":   "off",
	"with":  "with", "using": "with",
}

// Answers maps yes/no words to their canonical form. "n" only means no
// when the compass doesn't claim it first.
var Answers = map[string]string{
	"yes": "yes", "y": "yes", "yea": "yes", "yeah": "yes", "yay": "yes",
	"no": "no", "n": "no", "nay": "no", "never": "no",
}

// Pronouns maps pronoun words to a canonical form. These are the same
// part of speech only for game purposes.
var Pronouns = map[string]string{
	"it": "it", "this": "it", "that": "it",
	"him": "him", "her": "her", "them": "them",
}

// Articles are dropped outright by the clause former.
var Articles = map[string]bool{"a": true, "an": true, "the": true}

// Ignorable are tricky but non-essential words thrown away early.
var Ignorable = map[string]bool{"am": true, "is": true, "are": true, "of": true}

// Conjunctions separate noun list entries.
var Conjunctions = map[string]bool{"and": true}

// AllWords and ExceptWords are the quantifier vocabulary, recognized as
// special nouns by the resolver rather than by the lexer.
var (
	AllWords    = map[string]bool{"all": true, "everything": true}
	ExceptWords = map[string]bool{"except": true, "excluding": true}
)

// Categories holds the current word sets for each tag, rebuilt from
// live state per clause.
type Categories struct {
	Nouns          map[string]bool
	Verbs          map[string]bool
	Keywords       map[string]bool
	Directions     map[string]string // word -> canonical direction name
	DirectionVerbs map[string]bool
}

// Build derives the dynamic categories from the world and registry.
// Pure read; safe to call once per clause.
func Build(w *world.World, reg *action.Registry) *Categories {
	c := &Categories{
		Nouns:          map[string]bool{},
		Verbs:          map[string]bool{},
		Keywords:       map[string]bool{},
		Directions:     w.DirectionWords,
		DirectionVerbs: w.DirectionVerbs,
	}

	// Every entity name and synonym, split into single words; multi-word
	// names are re-joined by sub-sequence matching in the resolver.
	for _, e := range w.Entities() {
		for _, name := range e.Names() {
			for _, word := range strings.Fields(strings.ToLower(name)) {
				c.Nouns[word] = true
			}
		}
	}
	for n := range w.RoomNouns {
		c.Nouns[n] = true
	}

	for _, v := range reg.VerbWords() {
		c.Verbs[v] = true
	}
	for _, k := range reg.KeywordWords() {
		c.Keywords[k] = true
	}
	return c
}

// Candidates returns every tag category containing the word, unordered.
func (c *Categories) Candidates(word string) []types.Tag {
	var tags []types.Tag
	if c.Nouns[word] {
		tags = append(tags, types.TagNoun)
	}
	if c.Verbs[word] {
		tags = append(tags, types.TagVerb)
	}
	if c.Keywords[word] {
		tags = append(tags, types.TagKeyword)
	}
	if _, ok := Prepositions[word]; ok {
		tags = append(tags, types.TagPrep)
	}
	if _, ok := c.Directions[word]; ok {
		tags = append(tags, types.TagDirection)
	}
	if _, ok := Answers[word]; ok {
		tags = append(tags, types.TagAnswer)
	}
	if _, ok := Pronouns[word]; ok {
		tags = append(tags, types.TagPronoun)
	}
	if Conjunctions[word] {
		tags = append(tags, types.TagConj)
	}
	if Articles[word] {
		tags = append(tags, types.TagArticle)
	}
	if Ignorable[word] {
		tags = append(tags, types.TagIgnore)
	}
	if AllWords[word] {
		tags = append(tags, types.TagAll)
	}
	if ExceptWords[word] {
		tags = append(tags, types.TagExcept)
	}
	if word == "," || word == "." || word == "!" {
		tags = append(tags, types.TagPunct)
	}
	return tags
}

// Canon returns the canonical form of word under the given tag.
func (c *Categories) Canon(word string, tag types.Tag) string {
	switch tag {
	case types.TagPrep:
		if canon, ok := Prepositions[word]; ok {
			return canon
		}
	case types.TagDirection:
		if canon, ok := c.Directions[word]; ok {
			return canon
		}
	case types.TagAnswer:
		if canon, ok := Answers[word]; ok {
			return canon
		}
	case types.TagPronoun:
		if canon, ok := Pronouns[word]; ok {
			return canon
		}
	case types.TagAll:
		return "all"
	case types.TagExcept:
		return "except"
	}
	return word
}

// Words returns every word in every category, for suggestion lookups.
func (c *Categories) Words() []string {
	seen := map[string]bool{}
	var words []string
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for w := range c.Nouns {
		add(w)
	}
	for w := range c.Verbs {
		add(w)
	}
	for w := range c.Keywords {
		add(w)
	}
	for w := range c.Directions {
		add(w)
	}
	for w := range Prepositions {
		add(w)
	}
	return words
}
