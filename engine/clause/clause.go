// Package clause reduces a tagged token stream to a verb and ordered
// target pairs, and applies a pending clarification from the previous
// turn when the new input fits its shape.
package clause

import (
	"fmt"

	"github.com/leokoppel/notea/types"
)

func nounClass(t types.Tag) bool {
	switch t {
	case types.TagNoun, types.TagPronoun, types.TagAll, types.TagExcept, types.TagDirection:
		return true
	}
	return false
}

// Form builds a clause from tagged tokens. Articles and ignorable words
// are dropped; everything else must fit the verb/preposition/noun
// grammar or the clause fails.
func Form(tokens []types.Token) (types.Clause, error) {
	var cl types.Clause
	cl.Pairs = []types.TargetPair{{}}

	// Drop articles and ignorable words outright.
	kept := tokens[:0:0]
	for _, t := range tokens {
		if t.Tag != types.TagArticle && t.Tag != types.TagIgnore {
			kept = append(kept, t)
		}
	}

	// A keyword is only valid as the entire clause.
	if len(kept) == 1 && kept[0].Tag == types.TagKeyword {
		cl.Verb = kept[0].Word
		return cl, nil
	}

	for i, t := range kept {
		last := &cl.Pairs[len(cl.Pairs)-1]

		switch {
		case nounClass(t.Tag):
			if len(last.Nouns) == 0 {
				last.Nouns = append(last.Nouns, t.Word)
				break
			}
			if i < 1 {
				break
			}
			prev := kept[i-1]
			listBreak := (prev.Tag == types.TagConj || (prev.Tag == types.TagPunct && prev.Word == ",")) &&
				i >= 2 && nounClass(kept[i-2].Tag)
			switch {
			case listBreak || prev.Tag == types.TagAll || prev.Tag == types.TagExcept:
				last.Nouns = append(last.Nouns, t.Word)
			case nounClass(prev.Tag):
				// two name words in a row: join them and let the
				// entity-matching stage sort it out ("thick" + "book")
				last.Nouns[len(last.Nouns)-1] += " " + t.Word
			}

		case t.Tag == types.TagPrep:
			switch {
			case len(last.Nouns) > 0 && i+1 < len(kept) && nounClass(kept[i+1].Tag):
				// noun-prep-noun sandwich ("pour water IN cup"):
				// the preposition belongs to the next pair
				cl.Pairs = append(cl.Pairs, types.TargetPair{Prep: t.Canon})
			case last.Prep == "":
				last.Prep = t.Canon
				if len(last.Nouns) > 0 {
					cl.Pairs = append(cl.Pairs, types.TargetPair{})
				}
			case len(last.Nouns) == 0:
				// two prepositions in a row
				return cl, &types.ClauseError{Msg: "Can you say that another way?"}
			}

		case t.Tag == types.TagConj, t.Tag == types.TagPunct:
			// commas are handled by the noun-list logic above; stray
			// terminators are dropped

		case t.Tag == types.TagVerb:
			if cl.Verb == "" {
				cl.Verb = t.Word
			}

		case t.Tag == types.TagKeyword:
			return cl, &types.ClauseError{
				Msg: fmt.Sprintf("I don't understand the keyword %s used that way.", t.Word),
			}

		default:
			return cl, &types.ClauseError{
				Msg: fmt.Sprintf("I don't understand %q there.", t.Word),
			}
		}
	}

	if n := len(cl.Pairs); n > 1 && cl.Pairs[n-1].Empty() {
		cl.Pairs = cl.Pairs[:n-1]
	}
	return cl, nil
}

// ApplyPending tries to complete the previous turn's ambiguous clause
// with the new one. If the new clause has the expected shape the stored
// clause is returned with the blank filled in; otherwise the new clause
// is returned untouched and the clarification is abandoned.
func ApplyPending(cl types.Clause, p *types.Pending) types.Clause {
	if p == nil {
		return cl
	}

	switch p.Class {
	case types.TagNoun:
		// e.g. "What do you want to get?" -- "pen"
		if cl.Verb != "" || len(cl.Pairs) != 1 || len(cl.Pairs[0].Nouns) != 1 {
			return cl
		}
		word := cl.Pairs[0].Nouns[0]
		pairs := clonePairs(p.Pairs)
		if p.Pair < len(pairs) {
			if p.Noun < len(pairs[p.Pair].Nouns) {
				pairs[p.Pair].Nouns[p.Noun] = word
			} else {
				pairs[p.Pair].Nouns = []string{word}
			}
		}
		return types.Clause{Verb: p.Verb, Pairs: pairs}

	case types.TagPrep:
		// e.g. "Do you want to look AT the table or look IN the table?"
		// -- "at", or "look at" (a verb is allowed but must match)
		if cl.Verb != "" && cl.Verb != p.Verb {
			return cl
		}
		if len(cl.Pairs) != 1 || cl.Pairs[0].Prep == "" || len(cl.Pairs[0].Nouns) != 0 {
			return cl
		}
		pairs := clonePairs(p.Pairs)
		if p.Pair < len(pairs) {
			pairs[p.Pair].Prep = cl.Pairs[0].Prep
		}
		return types.Clause{Verb: p.Verb, Pairs: pairs}
	}
	return cl
}

func clonePairs(pairs []types.TargetPair) []types.TargetPair {
	out := make([]types.TargetPair, len(pairs))
	for i, p := range pairs {
		out[i] = types.TargetPair{Prep: p.Prep, Nouns: append([]string(nil), p.Nouns...)}
	}
	return out
}
