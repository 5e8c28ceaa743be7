package procgen

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownKind is returned for procedure kinds outside the five CRUD kinds.
var ErrUnknownKind = errors.New("unknown procedure kind")

// Kind is one of the CRUD procedure templates.
type Kind int

const (
	KindList Kind = iota
	KindAdd
	KindRead
	KindUpdate
	KindDelete
)

// AllKinds lists every kind in generation order.
var AllKinds = []Kind{KindList, KindAdd, KindRead, KindUpdate, KindDelete}

var kindNames = [...]string{
	KindList:   "list",
	KindAdd:    "add",
	KindRead:   "read",
	KindUpdate: "update",
	KindDelete: "delete",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Title returns the capitalized kind name used as a procedure name suffix.
func (k Kind) Title() string {
	// A Caser keeps state, so each call gets its own.
	return cases.Title(language.English).String(k.String())
}

// ParseKind resolves a kind name, ignoring case.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseKinds resolves a list of kind names. An empty list yields AllKinds.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return AllKinds, nil
	}
	kinds := make([]Kind, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
