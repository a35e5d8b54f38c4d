package parking

import (
	"fmt"
	"strings"
)

type Category int

const (
	categoryUnknown Category = iota
	Handicapped
	SmallMidsize
	Large
)

// Categories returns every category in scan order.
func Categories() []Category {
	return []Category{Handicapped, SmallMidsize, Large}
}

func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "handicapped":
		return Handicapped, nil
	case "smallmidsize", "small_midsize", "small-midsize":
		return SmallMidsize, nil
	case "large":
		return Large, nil
	}
	return categoryUnknown, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

func (c Category) Valid() bool {
	return c >= Handicapped && c <= Large
}

func (c Category) String() string {
	switch c {
	case Handicapped:
		return "handicapped"
	case SmallMidsize:
		return "smallMidsize"
	case Large:
		return "large"
	}
	return "unknown"
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
