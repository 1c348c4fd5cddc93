package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/vytor/matchlog/internal/errors"
	"github.com/vytor/matchlog/internal/models"
)

// filterParams are the query parameters that make up a view filter.
var filterParams = []string{
	"deck", "start", "end", "class",
	"myInclude", "myExclude", "oppInclude", "oppExclude",
}

// hasFilterParams reports whether the query names any filter parameter.
// Page numbers alone do not count.
func hasFilterParams(q url.Values) bool {
	for _, p := range filterParams {
		if q.Has(p) {
			return true
		}
	}
	return false
}

// parseFilter builds a view filter from query parameters. Tag sets are
// comma separated ids.
func parseFilter(q url.Values) (models.ViewFilterSpec, error) {
	var spec models.ViewFilterSpec

	if raw := q.Get("deck"); raw != "" {
		sel, err := models.ParseDeckSelector(raw)
		if err != nil {
			return spec, errors.NewBadRequestError(err.Error())
		}
		spec.Deck = sel
	}
	spec.Date = models.DateFilter{Start: q.Get("start"), End: q.Get("end")}

	if raw := q.Get("class"); raw != "" {
		if c, ok := models.ParseClass(raw); ok {
			spec.Class = c
		} else {
			spec.Class = models.Class(raw)
		}
	}

	spec.Tags.My.Include = splitIDs(q.Get("myInclude"))
	spec.Tags.My.Exclude = splitIDs(q.Get("myExclude"))
	spec.Tags.Opp.Include = splitIDs(q.Get("oppInclude"))
	spec.Tags.Opp.Exclude = splitIDs(q.Get("oppExclude"))

	spec.GamePage, spec.RunPage = 1, 1
	return applyPages(q, spec)
}

// applyPages overrides the page numbers of the filter with those in q.
func applyPages(q url.Values, spec models.ViewFilterSpec) (models.ViewFilterSpec, error) {
	var err error
	if spec.GamePage, err = parsePage(q, "gamePage", spec.GamePage); err != nil {
		return spec, err
	}
	if spec.RunPage, err = parsePage(q, "runPage", spec.RunPage); err != nil {
		return spec, err
	}
	return spec, nil
}

func parsePage(q url.Values, name string, fallback int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid " + name)
	}
	return n, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseMode reads the optional mode parameter. Empty means the saved mode.
func parseMode(q url.Values) (models.Mode, error) {
	mode := models.Mode(q.Get("mode"))
	if mode != "" && !mode.Valid() {
		return "", errors.NewBadRequestError("mode must be normal or take_two")
	}
	return mode, nil
}
