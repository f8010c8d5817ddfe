// Package parse is the pipeline driver: it splits an input line into
// clauses and runs each through lexing, clause formation, pending
// clarification, noun resolution, and handler dispatch.
package parse

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/leokoppel/notea/engine/action"
	"github.com/leokoppel/notea/engine/clause"
	"github.com/leokoppel/notea/engine/lexer"
	"github.com/leokoppel/notea/engine/resolve"
	"github.com/leokoppel/notea/engine/vocab"
	"github.com/leokoppel/notea/types"
	"github.com/leokoppel/notea/world"
)

// Sentences are separated by terminators or the word "then".
var sentenceRe = regexp.MustCompile(`[.!]+|,? *\bthen\b +`)

// Command is one fully resolved clause, ready to invoke.
type Command struct {
	Text     string
	Verb     string
	Action   *action.Action
	Keyword  bool
	Handlers []*action.Handler
	Targets  []action.Target
}

// Pipeline binds the resolution stages to a world and registry.
type Pipeline struct {
	World    *world.World
	Registry *action.Registry
}

// New creates a pipeline.
func New(w *world.World, reg *action.Registry) *Pipeline {
	return &Pipeline{World: w, Registry: reg}
}

// Parse lazily resolves each clause of the input line. The sequence
// stops at the first error; an AmbiguityError's Pending must be kept by
// the caller and passed to the next Parse call. Resolution happens as
// the sequence is consumed, so handler effects applied between clauses
// are seen by later clauses.
func (p *Pipeline) Parse(line string, actor *world.Entity, pending *types.Pending) iter.Seq2[*Command, error] {
	return func(yield func(*Command, error) bool) {
		line = strings.TrimSpace(line)
		if line == "" {
			yield(nil, &types.ParseError{Msg: "What?"})
			return
		}

		for _, sentence := range sentenceRe.Split(line, -1) {
			if strings.TrimSpace(sentence) == "" {
				continue
			}

			cmd, err := p.resolveClause(sentence, actor, pending)
			// The pending clarification is consumed by the first clause
			// only, whatever the outcome.
			pending = nil
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(cmd, nil) {
				return
			}
		}
	}
}

// resolveClause runs one clause through the full pipeline. Vocabulary
// is rebuilt from live state each time: a handler earlier in the line
// may have changed what words mean.
func (p *Pipeline) resolveClause(sentence string, actor *world.Entity, pending *types.Pending) (*Command, error) {
	cats := vocab.Build(p.World, p.Registry)

	expectPrep := pending != nil && pending.Class == types.TagPrep
	tokens, err := lexer.Lex(sentence, cats, expectPrep)
	if err != nil {
		return nil, err
	}

	cl, err := clause.Form(tokens)
	if err != nil {
		return nil, err
	}

	if pending != nil {
		cl = clause.ApplyPending(cl, pending)
	}

	res, err := resolve.Objects(p.World, p.Registry, cl.Verb, cl.Pairs, actor)
	if err != nil {
		return nil, err
	}
	act := res.Action

	handlers, err := act.FindHandlers(p.Registry, res.Targets)
	if err != nil {
		var ae *types.AmbiguityError
		if errors.As(err, &ae) {
			// The dispatcher only knows resolved targets; the pending
			// record needs the original words.
			ae.Pending.Pairs = cl.Pairs
		}
		return nil, err
	}

	if len(handlers) == 0 && len(cl.Pairs) == 1 {
		if nounless(cl.Pairs) {
			// No noun was given; if some handler wants one, ask.
			if act.HasNounHandler(cl.Pairs[0].Prep) {
				phrase := cl.Verb
				for _, pr := range cl.Pairs {
					if pr.Prep != "" {
						phrase += " " + pr.Prep
					}
				}
				return nil, &types.AmbiguityError{
					Msg: fmt.Sprintf(act.Interrogative, phrase),
					Pending: types.Pending{
						Verb:  cl.Verb,
						Pairs: cl.Pairs,
						Class: types.TagNoun,
					},
				}
			}
		} else if len(res.Targets) == 1 && len(res.Targets[0].List) > 0 {
			// A list was given to a verb that only takes single objects.
			probe := []action.Target{{Prep: res.Targets[0].Prep, One: res.Targets[0].List[0]}}
			if hs, perr := act.FindHandlers(p.Registry, probe); perr == nil && len(hs) > 0 {
				return nil, &types.ParseError{
					Msg: fmt.Sprintf("You can't use multiple objects with %q.", cl.Verb),
				}
			}
		}
	}

	if len(handlers) == 0 {
		return nil, &types.ParseError{Msg: "You can't do that."}
	}

	return &Command{
		Text:     strings.TrimSpace(sentence),
		Verb:     cl.Verb,
		Action:   act,
		Keyword:  res.Keyword,
		Handlers: handlers,
		Targets:  res.Targets,
	}, nil
}

func nounless(pairs []types.TargetPair) bool {
	for _, p := range pairs {
		if len(p.Nouns) > 0 {
			return false
		}
	}
	return true
}
