package immutability

import (
	"errors"
	"fmt"
	"strings"
)

// Classification is a trust level describing how confident the engine is
// that a value is deeply immutable.
//
// Levels are totally ordered, weakest first:
//
//	Unverified < LatchGuarded < ConstructionInvariant < PlatformConstant
//
// Aggregation over a composite takes the weakest level of its parts.
type Classification uint8

const (
	// Unverified means no trust signal was found. Treat the value as mutable.
	Unverified Classification = iota

	// LatchGuarded means the value is trusted only once the one-way latch on
	// the specific instance has closed (see Latch).
	LatchGuarded

	// ConstructionInvariant means the type guarantees all observable state is
	// fixed by the end of every constructor path (see Invariant).
	ConstructionInvariant

	// PlatformConstant means the language and runtime guarantee immutability:
	// scalars, strings, enum-like named scalars, and registered intrinsics.
	PlatformConstant
)

// ErrUnknownClassification is returned when parsing a level name fails.
var ErrUnknownClassification = errors.New("unknown classification")

var classificationNames = [...]string{
	Unverified:            "unverified",
	LatchGuarded:          "latch-guarded",
	ConstructionInvariant: "construction-invariant",
	PlatformConstant:      "platform-constant",
}

var classificationDescriptions = [...]string{
	Unverified:            "owner not trusted to have enforced any level of immutability",
	LatchGuarded:          "owner trusted to enforce immutability once the instance latch has closed",
	ConstructionInvariant: "owner trusted to have fixed all observable state before construction returns",
	PlatformConstant:      "language and runtime guarantee immutability",
}

// Levels returns every classification, weakest first.
func Levels() []Classification {
	return []Classification{Unverified, LatchGuarded, ConstructionInvariant, PlatformConstant}
}

// Valid reports whether c is one of the four defined levels.
func (c Classification) Valid() bool {
	return c <= PlatformConstant
}

// IsClassified reports whether c is strictly above Unverified.
func (c Classification) IsClassified() bool {
	return c != Unverified
}

// AtLeast reports whether c is as strong as min or stronger.
func (c Classification) AtLeast(min Classification) bool {
	return c >= min
}

func (c Classification) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Classification(%d)", uint8(c))
	}
	return classificationNames[c]
}

// Description returns a one-line explanation of the level.
func (c Classification) Description() string {
	if !c.Valid() {
		return ""
	}
	return classificationDescriptions[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal %s: %w", c, ErrUnknownClassification)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Classification) UnmarshalText(text []byte) error {
	parsed, err := ParseClassification(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseClassification accepts the kebab-case level names produced by String,
// case-insensitively, with underscores allowed in place of hyphens.
func ParseClassification(s string) (Classification, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range classificationNames {
		if name == norm {
			return Classification(i), nil
		}
	}
	return Unverified, fmt.Errorf("parse %q: %w", s, ErrUnknownClassification)
}

// Weaker returns the lower of the two levels.
func Weaker(a, b Classification) Classification {
	if b < a {
		return b
	}
	return a
}
