package stats

import (
	"time"

	"github.com/vytor/matchlog/internal/models"
)

// FilterByDate keeps items stamped within [start of f.Start, end of f.End]
// in loc. Either side may be open. With no usable bound the input slice is
// returned as is.
func FilterByDate[T Timestamped](items []T, f models.DateFilter, loc *time.Location) []T {
	if f.IsZero() {
		return items
	}
	start, end := f.Bounds(loc)
	if start == nil && end == nil {
		return items
	}

	var lo, hi int64
	if start != nil {
		lo = start.UnixMilli()
	}
	if end != nil {
		hi = end.UnixMilli()
	}
	return filter(items, func(item T) bool {
		ts := item.Millis()
		if start != nil && ts < lo {
			return false
		}
		if end != nil && ts > hi {
			return false
		}
		return true
	})
}

// FilterByTags applies the include and exclude sets of f to each side of a
// game. The four conditions are independent and all must pass, so an
// excluded tag vetoes a game even if it is also included. Tag ids that are
// not in tags are ignored on both the games and the filter.
func FilterByTags[T GameRecord](games []T, f models.TagFilter, tags []models.Tag) []T {
	if f.IsZero() {
		return games
	}
	known := models.TagIDSet(tags)
	my := compileCondition(f.My, known)
	opp := compileCondition(f.Opp, known)
	if my.empty() && opp.empty() {
		return games
	}
	return filter(games, func(item T) bool {
		g := item.Record()
		return my.matches(g.MyTagIDs) && opp.matches(g.OpponentTagIDs)
	})
}

// FilterByClass keeps games against opponent class c. An empty c keeps all.
func FilterByClass[T GameRecord](games []T, c models.Class) []T {
	if c == "" {
		return games
	}
	return filter(games, func(item T) bool {
		return item.Record().OpponentClass == c
	})
}

type tagCondition struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

func compileCondition(c models.TagCondition, known map[string]struct{}) tagCondition {
	return tagCondition{
		include: knownSubset(c.Include, known),
		exclude: knownSubset(c.Exclude, known),
	}
}

func (c tagCondition) empty() bool {
	return len(c.include) == 0 && len(c.exclude) == 0
}

func (c tagCondition) matches(ids []string) bool {
	if len(c.include) > 0 && !intersects(ids, c.include) {
		return false
	}
	if len(c.exclude) > 0 && intersects(ids, c.exclude) {
		return false
	}
	return true
}

func knownSubset(ids []string, known map[string]struct{}) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			set[id] = struct{}{}
		}
	}
	return set
}

func intersects(ids []string, set map[string]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
