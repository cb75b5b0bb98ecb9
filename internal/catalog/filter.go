package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// PetFilter narrows a pet listing. Breed matches the whole breed ignoring case,
// and the age bounds are inclusive. The zero value matches every pet.
type PetFilter struct {
	Breed  string
	AgeMin *int
	AgeMax *int
}

// Empty reports whether the filter matches every pet.
func (f PetFilter) Empty() bool {
	return f.Breed == "" && f.AgeMin == nil && f.AgeMax == nil
}

// String renders the filter in the syntax ParsePetSearch accepts.
func (f PetFilter) String() string {
	var parts []string
	if f.Breed != "" {
		parts = append(parts, "breed:"+f.Breed)
	}
	switch {
	case f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin == *f.AgeMax:
		parts = append(parts, fmt.Sprintf("age:%d", *f.AgeMin))
	case f.AgeMin != nil || f.AgeMax != nil:
		var lo, hi string
		if f.AgeMin != nil {
			lo = strconv.Itoa(*f.AgeMin)
		}
		if f.AgeMax != nil {
			hi = strconv.Itoa(*f.AgeMax)
		}
		parts = append(parts, "age:"+lo+"-"+hi)
	}
	return strings.Join(parts, " ")
}

// ParsePetSearch splits search text into free text and a filter. Recognized
// terms are "breed:<words>" and "age:N", "age:N-M", "age:N-", "age:-M".
// A breed runs until the next term, so "breed:Golden Retriever age:2-4" works.
func ParsePetSearch(text string) (string, PetFilter, error) {
	var (
		filter  PetFilter
		free    []string
		breed   []string
		inBreed bool
	)
	for _, word := range strings.Fields(text) {
		key, value, ok := strings.Cut(word, ":")
		switch {
		case ok && strings.EqualFold(key, "breed"):
			inBreed = true
			if value != "" {
				breed = append(breed, value)
			}
		case ok && strings.EqualFold(key, "age"):
			inBreed = false
			lo, hi, err := parseAgeRange(value)
			if err != nil {
				return "", PetFilter{}, err
			}
			filter.AgeMin, filter.AgeMax = lo, hi
		case inBreed:
			breed = append(breed, word)
		default:
			free = append(free, word)
		}
	}
	filter.Breed = strings.Join(breed, " ")
	return strings.Join(free, " "), filter, nil
}

func parseAgeRange(value string) (*int, *int, error) {
	if value == "" {
		return nil, nil, fmt.Errorf("age needs a number or a range like 2-5")
	}
	loText, hiText, isRange := strings.Cut(value, "-")
	if !isRange {
		hiText = loText
	}
	lo, err := parseAge(loText)
	if err != nil {
		return nil, nil, err
	}
	hi, err := parseAge(hiText)
	if err != nil {
		return nil, nil, err
	}
	if lo == nil && hi == nil {
		return nil, nil, fmt.Errorf("age needs a number or a range like 2-5")
	}
	if lo != nil && hi != nil && *lo > *hi {
		return nil, nil, fmt.Errorf("age range %s is backwards", value)
	}
	return lo, hi, nil
}

func parseAge(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("age %q is not a whole number of years", s)
	}
	return &n, nil
}
