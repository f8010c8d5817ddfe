// Package resolve binds the clause former's noun strings to concrete
// world entities, applying visibility, disambiguation filters, and
// all/except expansion.
package resolve

import (
	"fmt"
	"strings"

	"github.com/leokoppel/notea/engine/action"
	"github.com/leokoppel/notea/engine/vocab"
	"github.com/leokoppel/notea/types"
	"github.com/leokoppel/notea/world"
)

// Result is the resolver's output: the Action to dispatch and the
// targets with entities bound.
type Result struct {
	Action  *action.Action
	Keyword bool
	Targets []action.Target
}

// Objects resolves a verb and string-stage pairs against the live
// world. The input pairs are not modified; their words may still be
// needed to build a clarifying question.
func Objects(w *world.World, reg *action.Registry, verb string, pairs []types.TargetPair, actor *world.Entity) (Result, error) {
	var res Result

	// A bare compass direction is a movement command.
	if verb == "" && len(pairs) == 1 && pairs[0].Prep == "" && len(pairs[0].Nouns) == 1 {
		if _, ok := w.DirectionWords[pairs[0].Nouns[0]]; ok {
			verb = "go"
		}
	}

	if verb == "" {
		return res, &types.ParseError{Msg: "There was no verb in that sentence!"}
	}

	act, ok := reg.Lookup(verb)
	if !ok {
		act, ok = reg.LookupKeyword(verb)
		if !ok {
			// The lexer shouldn't have tagged it as a verb in this case.
			return res, &types.ParseError{Msg: "I don't understand."}
		}
		res.Keyword = true
	}
	res.Action = act

	for i, p := range pairs {
		target := action.Target{Prep: p.Prep}
		var resolved []*world.Entity
		var exceptions []*world.Entity
		allFlag := false
		exceptFlag := false

		for j, n := range p.Nouns {
			if vocab.AllWords[n] {
				allFlag = true
				continue
			}
			if allFlag && vocab.ExceptWords[n] {
				exceptFlag = true
				continue
			}

			matches, err := thingsFromNoun(w, n, actor)
			if err != nil {
				return res, err
			}
			if len(matches) == 0 {
				return res, &types.NotFoundError{Noun: n, Msg: fmt.Sprintf("You see no %s here!", n)}
			}

			if len(matches) > 1 && act.AmbiguityFilter != nil {
				// e.g. "get" can ignore what's already carried, but only
				// in ambiguous cases
				matches = act.AmbiguityFilter(matches)
			}
			if len(matches) > 1 {
				var names []string
				for _, m := range matches {
					names = append(names, m.The())
				}
				return res, &types.AmbiguityError{
					Msg: fmt.Sprintf("Did you mean %s?", action.JoinOr(names)),
					Pending: types.Pending{
						Verb:  verb,
						Pairs: pairs,
						Class: types.TagNoun,
						Pair:  i,
						Noun:  j,
					},
				}
			}

			m := matches[0]
			if exceptFlag {
				exceptions = append(exceptions, m)
			}
			resolved = append(resolved, m)
		}

		if allFlag {
			resolved = expandAll(w, actor, resolved, exceptions)
			target.List = resolved
			target.All = true
		} else {
			switch len(resolved) {
			case 0:
				// bare preposition or empty pair
			case 1:
				target.One = resolved[0]
			default:
				target.List = resolved
			}
		}
		res.Targets = append(res.Targets, target)
	}

	return res, nil
}

// thingsFromNoun finds candidate entities for one noun string. Multiple
// results mean the noun is ambiguous; an empty result means the noun
// names something known but not currently visible.
func thingsFromNoun(w *world.World, noun string, actor *world.Entity) ([]*world.Entity, error) {
	var matches []*world.Entity
	nounWords := strings.Fields(noun)

	for _, e := range w.Entities() {
		matched := false
		for _, name := range e.Names() {
			name = strings.ToLower(name)
			if name == noun {
				matched = true
				break
			}
			// partial match: "brush" when "hair brush" is a name
			if subSequence(strings.Fields(name), nounWords) {
				matched = true
				break
			}
		}
		if matched {
			matches = append(matches, e)
		}
	}

	// Special cases: the current room, and compass directions.
	if w.RoomNouns[noun] && actor.Location != nil {
		matches = append(matches, actor.Location)
	}
	if len(matches) == 0 {
		if canon, ok := w.DirectionWords[noun]; ok {
			matches = append(matches, w.Directions[canon])
		}
	}

	if len(matches) == 0 {
		// could happen if "except" comes before "all", for example
		return nil, &types.ParseError{Msg: fmt.Sprintf("I don't understand '%s' used that way.", noun)}
	}

	var visible []*world.Entity
	for _, m := range matches {
		if m.Visible(actor) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// expandAll builds the target list for an "all" command: every visible
// entity except the actor, plus anything named explicitly, minus the
// exceptions, in world enumeration order.
func expandAll(w *world.World, actor *world.Entity, named, exceptions []*world.Entity) []*world.Entity {
	excluded := func(e *world.Entity) bool {
		for _, x := range exceptions {
			if x == e {
				return true
			}
		}
		return false
	}

	var all []*world.Entity
	seen := map[*world.Entity]bool{}
	for _, e := range w.Entities() {
		if e == actor || !e.Visible(actor) || excluded(e) {
			continue
		}
		all = append(all, e)
		seen[e] = true
	}
	for _, e := range named {
		if !seen[e] && !excluded(e) {
			all = append(all, e)
			seen[e] = true
		}
	}
	return all
}

// subSequence reports whether sub occurs contiguously inside words.
func subSequence(words, sub []string) bool {
	if len(sub) == 0 || len(sub) > len(words) {
		return false
	}
	for i := 0; i+len(sub) <= len(words); i++ {
		match := true
		for j := range sub {
			if words[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
