package model

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/v2/sets/hashset"
)

// AllModules markiert alle Teilmodelle als trainierbar
const AllModules = "all"

// TrainableSet ist die validierte Auswahl trainierbarer Teilmodelle
type TrainableSet struct {
	all bool
	set *hashset.Set[string]
}

// ParseTrainable validiert modules gegen die bekannten Teilmodelle.
// Leere Auswahl bedeutet "all". "all" darf nur allein stehen.
func ParseTrainable(modules []string, known ...string) (TrainableSet, error) {
	if len(modules) == 0 || slices.Equal(modules, []string{AllModules}) {
		return TrainableSet{all: true}, nil
	}

	valid := hashset.New(known...)
	set := hashset.New[string]()
	for _, m := range modules {
		if m == AllModules {
			return TrainableSet{}, fmt.Errorf("%w: %q must be the only entry", ErrUnknownTrainableModule, AllModules)
		}
		if !valid.Contains(m) {
			known := valid.Values()
			slices.Sort(known)
			if s := closest(m, known); s != "" {
				return TrainableSet{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownTrainableModule, m, s)
			}
			return TrainableSet{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownTrainableModule, m, known)
		}
		set.Add(m)
	}

	return TrainableSet{set: set}, nil
}

// All meldet ob alle Teilmodelle trainierbar sind (kein Freeze noetig)
func (t TrainableSet) All() bool {
	return t.all
}

// Contains meldet ob module trainierbar ist
func (t TrainableSet) Contains(module string) bool {
	return t.all || t.set.Contains(module)
}
