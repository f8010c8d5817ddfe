package loader

import (
	"fmt"
	"strings"
)

// validate checks the collected definitions for structural errors
// before any world object is built. Reference errors (unknown rooms,
// bad exits) surface during compile, where the lookup happens anyway.
func validate(coll *collector) error {
	var errs []string

	if coll.player == nil {
		errs = append(errs, "no Player declared")
	}
	if len(coll.rooms) == 0 {
		errs = append(errs, "no rooms declared")
	}

	seen := map[string]string{}
	declare := func(id, what string) {
		switch {
		case id == "":
			errs = append(errs, fmt.Sprintf("%s with empty id", what))
		case id == "player" || strings.HasPrefix(id, "dir_"):
			errs = append(errs, fmt.Sprintf("%s %q: reserved id", what, id))
		case seen[id] != "":
			errs = append(errs, fmt.Sprintf("duplicate id %q (%s and %s)", id, seen[id], what))
		default:
			seen[id] = what
		}
	}
	for _, r := range coll.rooms {
		declare(r.id, "room")
	}
	for _, e := range coll.entities {
		declare(e.id, e.kind)
	}

	for _, v := range coll.verbs {
		if v.name == "" {
			errs = append(errs, "Verb with empty name")
		}
	}
	for _, h := range coll.handlers {
		if h.verb == "" {
			errs = append(errs, fmt.Sprintf("%s handler with empty verb", h.kind))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid game data:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
