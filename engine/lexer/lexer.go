// Package lexer splits a clause into tokens and assigns each exactly
// one part-of-speech tag, resolving local ambiguities with positional
// heuristics.
package lexer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/leokoppel/notea/engine/vocab"
	"github.com/leokoppel/notea/types"
)

var tokenRe = regexp.MustCompile(`\.|,|!|[a-z]+`)

// Lex tags a single clause string. expectPrep is set when the previous
// turn asked a preposition-clarifying question, which suppresses the
// direction reading of words like "up".
func Lex(clause string, cats *vocab.Categories, expectPrep bool) ([]types.Token, error) {
	words := tokenRe.FindAllString(strings.ToLower(clause), -1)
	if len(words) == 0 {
		// presumably no alphabetic characters in the input
		return nil, &types.ParseError{Msg: "I don't understand that."}
	}

	// Collect every candidate tag per token first; ambiguities are
	// resolved below by looking at the clause as a whole.
	cands := make([][]types.Tag, len(words))
	for i, w := range words {
		cands[i] = cats.Candidates(w)
		if len(cands[i]) == 0 {
			msg := fmt.Sprintf("What kind of a word is %s?", w)
			if hint := suggest(w, cats); hint != "" {
				msg += fmt.Sprintf(" (Did you mean %q?)", hint)
			}
			return nil, &types.LexError{Word: w, Msg: msg}
		}
	}

	// It's okay to assume authors did not name things or actions after
	// prepositions or pronouns; residual ambiguity just makes the game
	// complain to the player.
	for i := range cands {
		if len(cands[i]) == 1 {
			continue
		}

		// Game keywords must stand alone.
		if has(cands[i], types.TagKeyword) {
			if len(words) == 1 {
				cands[i] = []types.Tag{types.TagKeyword}
			} else {
				cands[i] = without(cands[i], types.TagKeyword)
			}
		}

		switch {
		case has(cands[i], types.TagVerb) && has(cands[i], types.TagNoun):
			if i == 0 {
				// first word is probably a verb
				cands[i] = []types.Tag{types.TagVerb}
			} else if has(cands[i-1], types.TagVerb) || has(cands[i-1], types.TagPrep) {
				// following a verb or preposition, probably a noun
				cands[i] = []types.Tag{types.TagNoun}
			}

		case has(cands[i], types.TagDirection) && has(cands[i], types.TagAnswer):
			// "n" meaning north vs. no: the compass wins. A handler
			// asking a yes/no question claims the whole line through the
			// session's input hook, so only free-standing input lands here.
			cands[i] = []types.Tag{types.TagDirection}

		case has(cands[i], types.TagDirection) && has(cands[i], types.TagPrep):
			// "go up" (direction) vs. "pick up x" (preposition): a
			// direction only at clause end after a movement verb or at
			// the start, and never while a preposition answer is awaited.
			rest := true
			for j := i + 1; j < len(cands); j++ {
				if !has(cands[j], types.TagPunct) {
					rest = false
					break
				}
			}
			if rest && (i == 0 || cats.DirectionVerbs[words[i-1]]) && !expectPrep {
				cands[i] = []types.Tag{types.TagDirection}
			} else {
				cands[i] = []types.Tag{types.TagPrep}
			}
		}
	}

	tokens := make([]types.Token, len(words))
	for i, w := range words {
		if len(cands[i]) != 1 {
			return nil, &types.LexError{Word: w, Msg: "I don't understand."}
		}
		tag := cands[i][0]
		tokens[i] = types.Token{Word: w, Canon: cats.Canon(w, tag), Tag: tag}
	}
	return tokens, nil
}

// suggest returns the closest known word within a small edit distance,
// or "" when nothing is close enough to be worth proposing.
func suggest(word string, cats *vocab.Categories) string {
	limit := 1
	if len(word) > 4 {
		limit = 2
	}
	best := ""
	bestDist := limit + 1
	candidates := cats.Words()
	sort.Strings(candidates) // deterministic tie-break
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func has(tags []types.Tag, t types.Tag) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}

func without(tags []types.Tag, t types.Tag) []types.Tag {
	var res []types.Tag
	for _, x := range tags {
		if x != t {
			res = append(res, x)
		}
	}
	return res
}
