package analytics

import (
	"sort"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// Filter is the active slice of the data: a date set (empty means all days
// present), a viewer gender, and a viewer tier. Gender and tier default to
// pass-through. A Filter is recreated per interaction and owns no state.
type Filter struct {
	// Dates are "2006-01-02" day keys. Order is irrelevant on input; views
	// always iterate dates ascending.
	Dates []string `json:"dates,omitempty"`

	// Gender restricts rows to viewers of this gender. Empty means any.
	// Viewers with unknown gender only survive the pass-through case.
	Gender domain.Gender `json:"gender,omitempty"`

	// Tier restricts rows to viewers of this tier. TierUnknown means any.
	Tier domain.Tier `json:"tier,omitempty"`
}

// Row is one match row with the viewer's and candidate's attributes already
// resolved. Resolution failures classify as unknown rather than excluding
// the row.
type Row struct {
	M               *domain.MatchRecord
	ViewerGender    domain.Gender
	ViewerTier      domain.Tier
	CandidateGender domain.Gender
	CandidateTier   domain.Tier
}

// Day returns the row's date bucket key.
func (r Row) Day() string { return r.M.Day() }

// View is a derived, read-only subset of the store. It never aliases into
// store internals that could be mutated and is safe to use concurrently
// with other views over the same store.
type View struct {
	Filter Filter

	// Rows are the match rows surviving the filter, in store order.
	Rows []Row

	// Dates is the active date set ascending: the filter's dates when given
	// (kept even when a date has no rows, so dynamic-arity metrics see the
	// declared N), otherwise every day present in the store.
	Dates []string

	store *Store
}

// Filter applies f and returns the derived view. Filtering never fails; an
// empty result set is a valid view and every metric degrades to zeros on it.
func (s *Store) Filter(f Filter) *View {
	v := &View{Filter: f, store: s}

	var wantDay map[string]struct{}
	if len(f.Dates) > 0 {
		wantDay = make(map[string]struct{}, len(f.Dates))
		v.Dates = make([]string, 0, len(f.Dates))
		for _, d := range f.Dates {
			if _, dup := wantDay[d]; dup {
				continue
			}
			wantDay[d] = struct{}{}
			v.Dates = append(v.Dates, d)
		}
		sort.Strings(v.Dates)
	} else {
		v.Dates = append([]string(nil), s.dates...)
	}

	v.Rows = make([]Row, 0, len(s.matches))
	for i := range s.matches {
		m := &s.matches[i]
		if wantDay != nil {
			if _, ok := wantDay[m.Day()]; !ok {
				continue
			}
		}
		vg, vt := s.Profile(m.ViewerID)
		if f.Gender == domain.GenderMale || f.Gender == domain.GenderFemale {
			if vg != f.Gender {
				continue
			}
		}
		if f.Tier.Known() && vt != f.Tier {
			continue
		}
		cg, ct := s.Profile(m.CandidateID)
		v.Rows = append(v.Rows, Row{
			M:               m,
			ViewerGender:    vg,
			ViewerTier:      vt,
			CandidateGender: cg,
			CandidateTier:   ct,
		})
	}
	return v
}

// withGender re-filters the view's underlying store with the gender axis
// overridden, keeping dates and tier. Used by the snapshot assembler's
// global/male/female triple views.
func (v *View) withGender(g domain.Gender) *View {
	f := v.Filter
	f.Gender = g
	return v.store.Filter(f)
}
