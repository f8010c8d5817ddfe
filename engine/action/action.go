// Package action holds the verb registry and the handler dispatch
// tables: each Action maps target shapes (preposition + entity or kind)
// to ordered handler lists, with cross-cutting group interception and
// multi-target expansion.
package action

import (
	"fmt"
	"strings"

	"github.com/leokoppel/notea/types"
	"github.com/leokoppel/notea/world"
)

// Target is one resolved (preposition, noun) slot of a command. Exactly
// one of One/List is set when a noun was given; both are nil for a bare
// preposition or an empty pair. All marks a list that came from an
// "all" expansion, which multi-target handlers filter before use.
type Target struct {
	Prep string
	One  *world.Entity
	List []*world.Entity
	All  bool
}

// Empty reports whether the target has no noun bound.
func (t Target) Empty() bool {
	return t.One == nil && len(t.List) == 0
}

// Entities returns the bound entities, scalar or list.
func (t Target) Entities() []*world.Entity {
	if t.One != nil {
		return []*world.Entity{t.One}
	}
	return t.List
}

// Shape is one slot of a handler key: the preposition it requires and
// the entity it applies to. Kind may be a concrete entity ID, a kind
// name from the entity's chain, or empty for a no-noun slot. List
// shapes match a list of entities all of the given kind.
type Shape struct {
	Prep string
	Kind string
	List bool
}

// Invocation is the context a handler runs with.
type Invocation struct {
	World   *world.World
	Actor   *world.Entity
	Verb    string
	Targets []Target
	Out     func(string)
}

// Say narrates one line to the player.
func (inv *Invocation) Say(format string, args ...any) {
	if inv.Out != nil {
		inv.Out(fmt.Sprintf(format, args...))
	}
}

// Func is an author-supplied behavior. Returning true marks the command
// handled and stops the dispatch chain.
type Func func(inv *Invocation) bool

// Handler wraps a Func with an enable flag, an optional invocation
// budget, and a guard run before the body. The default guard blocks
// targets the actor can't reach.
type Handler struct {
	fn      Func
	guard   Func
	limit   int // -1 means unlimited
	enabled bool
}

// NewHandler wraps fn with the default reachability guard and no
// invocation limit.
func NewHandler(fn Func) *Handler {
	return &Handler{fn: fn, guard: ReachGuard, limit: -1, enabled: true}
}

// WithGuard replaces the guard; nil removes it.
func (h *Handler) WithGuard(g Func) *Handler {
	h.guard = g
	return h
}

// WithLimit caps the number of times the handler may run.
func (h *Handler) WithLimit(n int) *Handler {
	h.limit = n
	return h
}

// Enable re-enables a disabled handler.
func (h *Handler) Enable() { h.enabled = true }

// Disable removes the handler from dispatch without unregistering it.
func (h *Handler) Disable() { h.enabled = false }

// Runnable reports whether dispatch should consider this handler. A
// handler with an exhausted budget counts as disabled.
func (h *Handler) Runnable() bool {
	return h.enabled && h.limit != 0
}

// Call runs the guard and then the body. A true return from either
// means the command was handled.
func (h *Handler) Call(inv *Invocation) bool {
	if !h.Runnable() {
		return false
	}
	if h.limit > 0 {
		h.limit--
	}
	if h.guard != nil && h.guard(inv) {
		return true
	}
	return h.fn(inv)
}

// ReachGuard is the default pre-handler: it stops the command when any
// target entity is out of the actor's reach.
func ReachGuard(inv *Invocation) bool {
	for _, t := range inv.Targets {
		for _, e := range t.Entities() {
			if !e.Reachable(inv.Actor) {
				inv.Say("You can't reach it.")
				return true
			}
		}
	}
	return false
}

// entry is one registered shape tuple with its handlers, kept in
// registration order. A wild entry matches any targets.
type entry struct {
	shapes   []Shape
	wild     bool
	handlers []*Handler
}

// Action is the full handler table for one verb, plus dispatch
// metadata.
type Action struct {
	Name        string
	DefaultPrep string
	Groups      []string // always includes "all"

	// Interrogative is the question asked when the verb is given with
	// no noun but some handler wants one. %s receives the verb plus any
	// typed prepositions.
	Interrogative string

	// AmbiguityFilter, if set, narrows multiple noun matches before the
	// resolver gives up and asks the player.
	AmbiguityFilter func([]*world.Entity) []*world.Entity

	entries []*entry
}

func newAction(name string) *Action {
	return &Action{
		Name:          name,
		Groups:        []string{"all"},
		Interrogative: "What do you want to %s?",
	}
}

// AddGroups declares group memberships beyond the implicit "all".
func (a *Action) AddGroups(groups ...string) *Action {
	a.Groups = append(a.Groups, groups...)
	return a
}

// On registers a handler for a shape tuple. Handlers registered for the
// same shapes run in registration order.
func (a *Action) On(shapes []Shape, h *Handler) *Handler {
	for _, e := range a.entries {
		if !e.wild && shapesEqual(e.shapes, shapes) {
			e.handlers = append(e.handlers, h)
			return h
		}
	}
	a.entries = append(a.entries, &entry{shapes: shapes, handlers: []*Handler{h}})
	return h
}

// OnAny registers a handler matching any target shape.
func (a *Action) OnAny(h *Handler) *Handler {
	for _, e := range a.entries {
		if e.wild {
			e.handlers = append(e.handlers, h)
			return h
		}
	}
	a.entries = append(a.entries, &entry{wild: true, handlers: []*Handler{h}})
	return h
}

// OnMulti registers h for the given scalar shapes and additionally for
// the list form of the last noun-bearing shape: "take all" or "take a,
// b and c" then runs h once per element. Lists produced by an "all"
// expansion are filtered first; the default filter keeps gettable
// entities.
func (a *Action) OnMulti(shapes []Shape, h *Handler, allFilter func(*world.Entity) bool) {
	a.On(shapes, h)

	if allFilter == nil {
		allFilter = func(e *world.Entity) bool { return e.Gettable }
	}

	idx := -1
	mShapes := make([]Shape, len(shapes))
	copy(mShapes, shapes)
	for i, s := range mShapes {
		if s.Kind != "" {
			idx = i
		}
	}
	if idx < 0 {
		panic(fmt.Sprintf("action %q: OnMulti with no noun-bearing shape", a.Name))
	}
	if mShapes[idx].List {
		panic(fmt.Sprintf("action %q: OnMulti shape is already a list", a.Name))
	}
	mShapes[idx].List = true

	wrapped := func(inv *Invocation) bool {
		t := inv.Targets[idx]
		list := t.List
		if t.All {
			var kept []*world.Entity
			for _, e := range list {
				if allFilter(e) {
					kept = append(kept, e)
				}
			}
			list = kept
		}
		for _, item := range list {
			prefix := Capitalize(item.The()) + ": "
			sub := *inv
			sub.Targets = make([]Target, len(inv.Targets))
			copy(sub.Targets, inv.Targets)
			sub.Targets[idx] = Target{Prep: t.Prep, One: item}
			said := false
			sub.Out = func(s string) {
				if !said {
					s = prefix + s
					said = true
				}
				inv.Out(s)
			}
			h.Call(&sub)
			if !said {
				inv.Say("%s", strings.TrimSuffix(prefix, " "))
			}
		}
		return true
	}

	mh := NewHandler(wrapped).WithGuard(nil)
	mh.limit = h.limit
	a.On(mShapes, mh)
}

// Registry maps verb strings to Actions, with separate tables for game
// keywords and for the group containers consulted during dispatch.
type Registry struct {
	actions  map[string]*Action
	keywords map[string]*Action
	groups   map[string]*Action
	synonyms map[string]string // alias verb -> canonical verb
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:  map[string]*Action{},
		keywords: map[string]*Action{},
		groups:   map[string]*Action{},
		synonyms: map[string]string{},
	}
}

// Verb returns the Action for a verb, creating it if needed.
func (r *Registry) Verb(name string) *Action {
	if canon, ok := r.synonyms[name]; ok {
		name = canon
	}
	a, ok := r.actions[name]
	if !ok {
		a = newAction(name)
		r.actions[name] = a
	}
	return a
}

// Synonym makes alias dispatch to the same Action as canonical.
func (r *Registry) Synonym(alias, canonical string) {
	r.synonyms[alias] = canonical
	r.actions[alias] = r.Verb(canonical)
}

// Keyword returns the Action for a one-word game keyword ("save",
// "quit"), creating it if needed. Keywords are tagged separately from
// verbs by the lexer.
func (r *Registry) Keyword(name string) *Action {
	a, ok := r.keywords[name]
	if !ok {
		a = newAction(name)
		r.keywords[name] = a
	}
	return a
}

// Group returns the group container for name, creating it if needed.
// Group actions hold cross-cutting handlers and are never dispatched by
// verb.
func (r *Registry) Group(name string) *Action {
	a, ok := r.groups[name]
	if !ok {
		a = newAction(name)
		r.groups[name] = a
	}
	return a
}

// Lookup finds a registered Action by verb.
func (r *Registry) Lookup(verb string) (*Action, bool) {
	a, ok := r.actions[verb]
	return a, ok
}

// LookupKeyword finds a registered keyword Action.
func (r *Registry) LookupKeyword(name string) (*Action, bool) {
	a, ok := r.keywords[name]
	return a, ok
}

// VerbWords returns every registered verb string including synonyms.
func (r *Registry) VerbWords() []string {
	words := make([]string, 0, len(r.actions))
	for v := range r.actions {
		words = append(words, v)
	}
	return words
}

// KeywordWords returns every registered keyword string.
func (r *Registry) KeywordWords() []string {
	words := make([]string, 0, len(r.keywords))
	for k := range r.keywords {
		words = append(words, k)
	}
	return words
}

// FindHandlers returns the handlers to try for the given targets, group
// handlers first, or an AmbiguityError when only the preposition is in
// doubt. An empty result with a nil error means "you can't do that".
func (a *Action) FindHandlers(reg *Registry, targets []Target) ([]*Handler, error) {
	visited := map[*Action]bool{}
	return a.findHandlers(reg, targets, visited)
}

func (a *Action) findHandlers(reg *Registry, targets []Target, visited map[*Action]bool) ([]*Handler, error) {
	var res []*Handler
	visited[a] = true

	// Group handlers run ahead of the action's own, depth-first, each
	// group at most once.
	for _, g := range a.Groups {
		ga, ok := reg.groups[g]
		if !ok || visited[ga] {
			continue
		}
		sub, err := ga.findHandlers(reg, targets, visited)
		if err != nil {
			return nil, err
		}
		res = append(res, sub...)
	}

	// Only shapes of at least the input's arity can match, plus wild
	// entries.
	var possible []*entry
	for _, e := range a.entries {
		if e.wild || len(e.shapes) >= len(targets) {
			possible = append(possible, e)
		}
	}

	for i, pair := range targets {
		if len(possible) == 0 {
			break
		}

		// Narrow by noun: exact entity (or list) match first, then up
		// the kind chain, stopping at the first kind with any match.
		var next []*entry
		for _, e := range possible {
			if e.wild || shapeMatchesExact(e.shapes[i], pair) {
				next = append(next, e)
			}
		}
		if len(next) == 0 && pair.One != nil {
			for _, kind := range pair.One.Kinds {
				for _, e := range possible {
					if !e.wild && !e.shapes[i].List && e.shapes[i].Kind == kind {
						next = append(next, e)
					}
				}
				if len(next) > 0 {
					break
				}
			}
		}
		possible = next

		// Narrow by preposition.
		next = nil
		for _, e := range possible {
			if e.wild || e.shapes[i].Prep == pair.Prep {
				next = append(next, e)
			}
		}
		if len(next) == 0 && len(targets) == 1 {
			// Single pair whose noun matched but preposition didn't:
			// with several prep choices left this is a question for the
			// player, with one it's close enough.
			next = possible
			if len(next) > 1 && pair.One != nil {
				var opts []string
				for _, e := range next {
					prep := e.shapes[0].Prep
					if prep != "" {
						prep = " " + strings.ToUpper(prep)
					}
					opts = append(opts, a.Name+prep+" "+pair.One.The())
				}
				msg := "Do you want to " + JoinOr(opts) + "?"
				return nil, &types.AmbiguityError{
					Msg: msg,
					// Pairs are filled in by the driver, which still
					// holds the string-stage pairs.
					Pending: types.Pending{Verb: a.Name, Class: types.TagPrep, Pair: 0},
				}
			}
		}
		possible = next
	}

	for _, e := range possible {
		for _, h := range e.handlers {
			if h.Runnable() {
				res = append(res, h)
			}
		}
	}
	return res, nil
}

// HasNounHandler reports whether some single-shape handler takes a noun
// for the given preposition, used to decide between asking "what do you
// want to X?" and failing outright.
func (a *Action) HasNounHandler(prep string) bool {
	for _, e := range a.entries {
		if e.wild || len(e.shapes) != 1 {
			continue
		}
		if e.shapes[0].Kind != "" && e.shapes[0].Prep == prep {
			return true
		}
	}
	return false
}

// shapeMatchesExact checks the exact stage of noun matching: empty
// shape against empty target, concrete entity identity, or a list whose
// members all carry the shape's kind.
func shapeMatchesExact(s Shape, t Target) bool {
	if t.Empty() {
		return s.Kind == "" && !s.List
	}
	if t.One != nil {
		return !s.List && s.Kind == t.One.ID
	}
	if !s.List {
		return false
	}
	for _, e := range t.List {
		if !e.HasKind(s.Kind) {
			return false
		}
	}
	return true
}

func shapesEqual(a, b []Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// JoinOr joins items as "a", "a or b", or "a, b or c".
func JoinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}

// Capitalize upper-cases the first byte, for sentence-position names.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
