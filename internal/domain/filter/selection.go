// Package filter applies sidebar selections to the enriched athlete table.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/podium/internal/domain/model"
)

// ErrInvalidMedal is returned for a medal name outside Gold, Silver, Bronze.
var ErrInvalidMedal = errors.New("invalid medal")

// Selection holds the chosen values per dimension. An empty set means no
// restriction on that dimension, so "nothing selected" and "no filter" are
// the same thing.
type Selection struct {
	Sports  map[string]struct{}
	Regions map[string]struct{}
	Medals  map[model.Medal]struct{}
}

// NewSelection builds a Selection from raw values. Blank values are dropped
// and medal names are validated.
func NewSelection(sports, regions, medals []string) (Selection, error) {
	ms, err := ParseMedals(medals)
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{
		Sports:  toSet(sports),
		Regions: toSet(regions),
		Medals:  make(map[model.Medal]struct{}, len(ms)),
	}
	for _, m := range ms {
		sel.Medals[m] = struct{}{}
	}
	return sel, nil
}

// ParseMedals validates medal names. Blank entries are skipped; NA is not a
// selectable medal.
func ParseMedals(names []string) ([]model.Medal, error) {
	out := make([]model.Medal, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		m, err := model.ParseMedal(n)
		if err != nil || !m.Won() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMedal, n)
		}
		out = append(out, m)
	}
	return out, nil
}

// IsEmpty reports whether no dimension is restricted.
func (s Selection) IsEmpty() bool {
	return len(s.Sports) == 0 && len(s.Regions) == 0 && len(s.Medals) == 0
}

// Key returns a canonical form of the selection. Equal selections have
// equal keys regardless of the order values were chosen in.
func (s Selection) Key() string {
	names := make([]string, 0, len(s.Medals))
	for m := range s.Medals {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return keyPart(s.SportList()) + "\x1e" + keyPart(s.RegionList()) + "\x1e" + keyPart(names)
}

// keyPart prefixes the values with their count so a blank value is told
// apart from no value.
func keyPart(values []string) string {
	return strconv.Itoa(len(values)) + ":" + strings.Join(values, "\x1f")
}

// SportList returns the selected sports, sorted.
func (s Selection) SportList() []string { return sortedKeys(s.Sports) }

// RegionList returns the selected regions, sorted.
func (s Selection) RegionList() []string { return sortedKeys(s.Regions) }

// MedalList returns the selected medals in podium order.
func (s Selection) MedalList() []model.Medal {
	out := make([]model.Medal, 0, len(s.Medals))
	for _, m := range model.Medals {
		if _, ok := s.Medals[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
