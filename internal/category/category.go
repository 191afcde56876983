package category

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the fixed expense labels.
type Category string

const (
	Food          Category = "FOOD"
	Rent          Category = "RENT"
	Transport     Category = "TRANSPORT"
	Groceries     Category = "GROCERIES"
	Utilities     Category = "UTILITIES"
	Entertainment Category = "ENTERTAINMENT"
	Health        Category = "HEALTH"
	Education     Category = "EDUCATION"
	Shopping      Category = "SHOPPING"
	Travel        Category = "TRAVEL"
	Other         Category = "OTHER"
)

// ErrInvalid is returned by Parse for labels outside the fixed set.
var ErrInvalid = errors.New("invalid category")

var all = []Category{
	Food,
	Rent,
	Transport,
	Groceries,
	Utilities,
	Entertainment,
	Health,
	Education,
	Shopping,
	Travel,
	Other,
}

// All returns every category in canonical order. The returned slice is a copy.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Names returns All as plain strings.
func Names() []string {
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = string(c)
	}
	return out
}

// Parse normalises s to uppercase and checks it against the fixed set.
func Parse(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w %q: must be one of: %s", ErrInvalid, s, strings.Join(Names(), ", "))
	}
	return c, nil
}

func (c Category) IsValid() bool {
	for _, v := range all {
		if c == v {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
