package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the format of DateFilter bounds.
const DateLayout = "2006-01-02"

// SelectorKind identifies which decks a view covers.
type SelectorKind int

const (
	// SelectAll covers every deck. It is the zero value.
	SelectAll SelectorKind = iota
	// SelectAllOfClass covers every deck of one class.
	SelectAllOfClass
	// SelectDeck picks a single deck by id.
	SelectDeck
)

const (
	selectorAll       = "all"
	selectorAllPrefix = "all-"
)

// DeckSelector chooses the decks a stats view is computed over.
type DeckSelector struct {
	Kind   SelectorKind
	DeckID string
	Class  Class
}

func AllDecks() DeckSelector {
	return DeckSelector{Kind: SelectAll}
}

func AllDecksOfClass(c Class) DeckSelector {
	return DeckSelector{Kind: SelectAllOfClass, Class: c}
}

func DeckByID(id string) DeckSelector {
	return DeckSelector{Kind: SelectDeck, DeckID: id}
}

// ParseDeckSelector decodes "all", "all-<Class>" or a deck id.
func ParseDeckSelector(s string) (DeckSelector, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return DeckSelector{}, fmt.Errorf("empty deck selector")
	case s == selectorAll:
		return AllDecks(), nil
	case strings.HasPrefix(s, selectorAllPrefix):
		c, ok := ParseClass(strings.TrimPrefix(s, selectorAllPrefix))
		if !ok {
			return DeckSelector{}, fmt.Errorf("unknown class in deck selector %q", s)
		}
		return AllDecksOfClass(c), nil
	default:
		return DeckByID(s), nil
	}
}

func (s DeckSelector) String() string {
	switch s.Kind {
	case SelectAllOfClass:
		return selectorAllPrefix + string(s.Class)
	case SelectDeck:
		return s.DeckID
	default:
		return selectorAll
	}
}

func (s DeckSelector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DeckSelector) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = AllDecks()
		return nil
	}
	parsed, err := ParseDeckSelector(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DateFilter bounds games by calendar day. Empty strings leave that side open.
type DateFilter struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func (f DateFilter) IsZero() bool {
	return f.Start == "" && f.End == ""
}

// Bounds resolves the filter to [start of Start, end of End] in loc.
// A bound that is empty or unparseable is returned as nil.
func (f DateFilter) Bounds(loc *time.Location) (start, end *time.Time) {
	if loc == nil {
		loc = time.Local
	}
	if f.Start != "" {
		if t, err := time.ParseInLocation(DateLayout, f.Start, loc); err == nil {
			start = &t
		}
	}
	if f.End != "" {
		if t, err := time.ParseInLocation(DateLayout, f.End, loc); err == nil {
			t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
			end = &t
		}
	}
	return start, end
}

// TagCondition holds include and exclude sets for one side of a game.
type TagCondition struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

func (c TagCondition) IsZero() bool {
	return len(c.Include) == 0 && len(c.Exclude) == 0
}

// TagFilter applies tag conditions to the player's and the opponent's tags.
type TagFilter struct {
	My  TagCondition `json:"my"`
	Opp TagCondition `json:"opp"`
}

func (f TagFilter) IsZero() bool {
	return f.My.IsZero() && f.Opp.IsZero()
}

// ViewFilterSpec is the declarative description of a stats view.
type ViewFilterSpec struct {
	Deck     DeckSelector `json:"deck"`
	Date     DateFilter   `json:"date"`
	Tags     TagFilter    `json:"tags"`
	Class    Class        `json:"class,omitempty"`
	GamePage int          `json:"gamePage,omitempty"`
	RunPage  int          `json:"runPage,omitempty"`
}

// Validate checks the parts of the filter the stats pipeline cannot repair.
func (s ViewFilterSpec) Validate() error {
	if s.Class != "" && !s.Class.Valid() {
		return fmt.Errorf("unknown opponent class %q", s.Class)
	}
	if s.Deck.Kind == SelectDeck && s.Deck.DeckID == "" {
		return fmt.Errorf("deck id is required")
	}
	if s.Deck.Kind == SelectAllOfClass && !s.Deck.Class.Valid() {
		return fmt.Errorf("unknown deck class %q", s.Deck.Class)
	}
	for _, bound := range []string{s.Date.Start, s.Date.End} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, bound); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", bound)
		}
	}
	return nil
}

// WithoutTag returns a copy of the filter with id removed from every tag set.
func (s ViewFilterSpec) WithoutTag(id string) ViewFilterSpec {
	drop := func(ids []string) []string {
		return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
	}
	s.Tags.My.Include = drop(s.Tags.My.Include)
	s.Tags.My.Exclude = drop(s.Tags.My.Exclude)
	s.Tags.Opp.Include = drop(s.Tags.Opp.Include)
	s.Tags.Opp.Exclude = drop(s.Tags.Opp.Exclude)
	return s
}

// WithTagReplaced returns a copy of the filter with from rewritten to to.
func (s ViewFilterSpec) WithTagReplaced(from, to string) ViewFilterSpec {
	s.Tags.My.Include = ReplaceTagID(s.Tags.My.Include, from, to)
	s.Tags.My.Exclude = ReplaceTagID(s.Tags.My.Exclude, from, to)
	s.Tags.Opp.Include = ReplaceTagID(s.Tags.Opp.Include, from, to)
	s.Tags.Opp.Exclude = ReplaceTagID(s.Tags.Opp.Exclude, from, to)
	return s
}

// ReplaceTagID returns a new slice with from replaced by to, keeping each id once.
func ReplaceTagID(ids []string, from, to string) []string {
	if len(ids) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == from {
			id = to
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
