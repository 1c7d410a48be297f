package catalog

import (
	"sort"
	"time"

	"github.com/unikiala/unikiala-api/internal/model"
)

const dateLayout = "2006-01-02"

// Merge concatenates the sources in order and deduplicates by id. A later
// occurrence replaces an earlier one in place, so with Merge(seed, local,
// remote) the remote row wins. The result is stably sorted by date
// ascending; events with an unparseable date come last in input order.
func Merge(sources ...[]model.Event) []model.Event {
	var (
		out []model.Event
		pos = make(map[string]int)
	)
	for _, src := range sources {
		for _, e := range src {
			if i, ok := pos[e.ID]; ok {
				out[i] = e
				continue
			}
			pos[e.ID] = len(out)
			out = append(out, e)
		}
	}

	keys := make([]dateKey, len(out))
	for i, e := range out {
		keys[i] = parseDateKey(e.Date)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].less(keys[idx[b]])
	})

	sorted := make([]model.Event, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

type dateKey struct {
	t  time.Time
	ok bool
}

func parseDateKey(s string) dateKey {
	t, err := time.Parse(dateLayout, s)
	return dateKey{t: t, ok: err == nil}
}

func (k dateKey) less(o dateKey) bool {
	switch {
	case k.ok && o.ok:
		return k.t.Before(o.t)
	case k.ok:
		return true
	default:
		return false
	}
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	return parseDateKey(s).ok
}
