package stats

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/vytor/matchlog/internal/cache"
	"github.com/vytor/matchlog/internal/i18n"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
)

const (
	DefaultGamesPageSize = 20
	DefaultRunsPageSize  = 10
)

// Headline is the summary of the fully filtered games plus formatted rates.
type Headline struct {
	Summary
	WinRate           string `json:"winRate"`
	FirstTurnWinRate  string `json:"firstTurnWinRate"`
	SecondTurnWinRate string `json:"secondTurnWinRate"`
}

// ClassBreakdown is one row of the opponent-class table. Its population is
// the games left after the date and tag filters but before the class filter.
type ClassBreakdown struct {
	Class    models.Class `json:"class"`
	Games    int          `json:"games"`
	PlayRate string       `json:"playRate"`
	Wins     int          `json:"wins"`
	WinRate  string       `json:"winRate"`
}

// Result is everything a stats view needs. Results may be shared through
// the cache and must be treated as read-only.
type Result struct {
	Deck     DisplayDeck `json:"deck"`
	Headline Headline    `json:"headline"`

	BreakdownTotal       int                     `json:"breakdownTotal"`
	Breakdown            []ClassBreakdown        `json:"breakdown"`
	OpponentDistribution map[models.Class]int    `json:"opponentDistribution"`
	WinRateByClass       map[models.Class]string `json:"winRateByClass"`

	Games Page[models.SourcedGame] `json:"games"`
	Runs  *Page[models.SourcedRun] `json:"runs,omitempty"`
	// RunStats is only set in take-two mode.
	RunStats *RunStats `json:"runStats,omitempty"`

	TotalGames    int `json:"totalGames"`
	FilteredGames int `json:"filteredGames"`
	TotalRuns     int `json:"totalRuns"`
	FilteredRuns  int `json:"filteredRuns"`
}

// Engine runs the stats pipeline and memoizes its results.
type Engine struct {
	cache         *cache.Cache[*Result]
	gamesPageSize int
	runsPageSize  int
	loc           *time.Location
	log           *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSizes sets the history page sizes for games and runs.
func WithPageSizes(games, runs int) Option {
	return func(e *Engine) {
		if games > 0 {
			e.gamesPageSize = games
		}
		if runs > 0 {
			e.runsPageSize = runs
		}
	}
}

// WithLocation sets the zone date filters are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithCacheSize bounds the number of memoized views.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cache = cache.New[*Result](n)
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cache:         cache.New[*Result](0),
		gamesPageSize: DefaultGamesPageSize,
		runsPageSize:  DefaultRunsPageSize,
		loc:           time.Local,
		log:           logger.Default().WithPrefix("stats"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StatsForView returns the memoized result for spec, computing it on a
// miss. It returns nil when the deck selector does not resolve. The cache
// is dropped whenever decks, tags or mode is a different value from the
// previous call, so callers must replace collections rather than edit them.
func (e *Engine) StatsForView(spec models.ViewFilterSpec, decks []models.Deck, tags []models.Tag, t i18n.Translator, lang string, mode models.Mode) *Result {
	if t == nil {
		t = i18n.For(lang)
	}
	key := CacheKey(spec, lang, mode)
	result, hit := e.cache.GetOrCompute(decks, tags, mode, key, func() *Result {
		return e.Compute(spec, decks, tags, t, mode)
	})
	if e.log.Enabled(logger.DEBUG) {
		e.log.Debug("stats view deck=%s mode=%s cache_hit=%t", spec.Deck, mode, hit)
	}
	return result
}

// InvalidateIfChanged drops memoized results when a source changed.
func (e *Engine) InvalidateIfChanged(decks []models.Deck, tags []models.Tag, mode models.Mode) bool {
	return e.cache.InvalidateIfChanged(decks, tags, mode)
}

// CacheStats exposes the memoization counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Compute runs the pipeline without the cache:
// resolve view, filter by date, filter by tags, snapshot the breakdown,
// filter by opponent class, aggregate, paginate.
func (e *Engine) Compute(spec models.ViewFilterSpec, decks []models.Deck, tags []models.Tag, t i18n.Translator, mode models.Mode) *Result {
	if t == nil {
		t = i18n.For(i18n.DefaultLanguage)
	}
	view, ok := ResolveView(spec.Deck, decks)
	if !ok {
		e.log.Debug("deck selector %s did not resolve", spec.Deck)
		return nil
	}

	class := spec.Class
	if class != "" && !class.Valid() {
		e.log.Warn("ignoring unknown opponent class filter %q", class)
		class = ""
	}
	if !spec.Date.IsZero() {
		if start, end := spec.Date.Bounds(e.loc); (spec.Date.Start != "" && start == nil) || (spec.Date.End != "" && end == nil) {
			e.log.Warn("ignoring unparseable date bound start=%q end=%q", spec.Date.Start, spec.Date.End)
		}
	}

	games := FilterByDate(view.Games, spec.Date, e.loc)
	games = FilterByTags(games, spec.Tags, tags)
	pie := Aggregate(games)
	games = FilterByClass(games, class)
	summary := Aggregate(games)

	res := &Result{
		Deck: view,
		Headline: Headline{
			Summary:           summary,
			WinRate:           FormatRate(summary.Wins, summary.Total, t),
			FirstTurnWinRate:  FormatRate(summary.FirstTurnWins, summary.FirstTurnTotal, t),
			SecondTurnWinRate: FormatRate(summary.SecondTurnWins, summary.SecondTurnTotal, t),
		},
		BreakdownTotal:       pie.Total,
		Breakdown:            make([]ClassBreakdown, 0, len(models.Classes)),
		OpponentDistribution: pie.OpponentDistribution,
		WinRateByClass:       make(map[models.Class]string, len(models.Classes)),
		Games:                Paginate(sortNewestFirst(games), spec.GamePage, e.gamesPageSize),
		TotalGames:           len(view.Games),
		FilteredGames:        len(games),
	}

	for _, c := range models.Classes {
		rec := pie.WinLossByOpponent[c]
		row := ClassBreakdown{
			Class:    c,
			Games:    pie.OpponentDistribution[c],
			PlayRate: FormatRate(pie.OpponentDistribution[c], pie.Total, t),
			Wins:     rec.Wins,
			WinRate:  FormatRate(rec.Wins, rec.Total, t),
		}
		res.Breakdown = append(res.Breakdown, row)
		res.WinRateByClass[c] = row.WinRate
	}

	if mode == models.ModeTakeTwo {
		runs := FilterByDate(view.Runs, spec.Date, e.loc)
		page := Paginate(sortNewestFirst(runs), spec.RunPage, e.runsPageSize)
		runStats := SummarizeRuns(runs, t)
		res.Runs = &page
		res.RunStats = &runStats
		res.TotalRuns = len(view.Runs)
		res.FilteredRuns = len(runs)
	}
	return res
}

type cacheKey struct {
	Deck       string       `json:"deck"`
	Start      string       `json:"start"`
	End        string       `json:"end"`
	MyInclude  []string     `json:"myInclude"`
	MyExclude  []string     `json:"myExclude"`
	OppInclude []string     `json:"oppInclude"`
	OppExclude []string     `json:"oppExclude"`
	Class      models.Class `json:"class"`
	GamePage   int          `json:"gamePage"`
	RunPage    int          `json:"runPage"`
	Language   string       `json:"language"`
	Mode       models.Mode  `json:"mode"`
}

// CacheKey serializes everything a view depends on besides the source
// collections. Tag sets are sorted and deduplicated so their order does not
// matter, and pages below 1 share the key of page 1.
func CacheKey(spec models.ViewFilterSpec, lang string, mode models.Mode) string {
	k := cacheKey{
		Deck:       spec.Deck.String(),
		Start:      spec.Date.Start,
		End:        spec.Date.End,
		MyInclude:  canonicalIDs(spec.Tags.My.Include),
		MyExclude:  canonicalIDs(spec.Tags.My.Exclude),
		OppInclude: canonicalIDs(spec.Tags.Opp.Include),
		OppExclude: canonicalIDs(spec.Tags.Opp.Exclude),
		Class:      spec.Class,
		GamePage:   max(spec.GamePage, 1),
		RunPage:    max(spec.RunPage, 1),
		Language:   lang,
		Mode:       mode,
	}
	// Marshalling strings, ints and string slices cannot fail.
	b, _ := json.Marshal(k)
	return string(b)
}

func canonicalIDs(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return []string{}
	}
	return out
}
