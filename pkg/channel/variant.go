// Package channel models voltage-gated ion channels: gene variants, their
// segment tables, and the mutations placed on them.
package channel

import (
	"fmt"
	"strconv"
	"strings"
)

// Family selects which topology cartoon a variant uses.
type Family int

const (
	Sodium    Family = iota // four-domain Nav channels
	Potassium               // single-domain Kv7 channels
)

func (f Family) String() string {
	if f == Potassium {
		return "potassium"
	}
	return "sodium"
}

// Variant is a gene identifier such as "scn1a" or "kcnq2".
type Variant string

// Supported variants, in the order they are offered to users.
const (
	SCN1A  Variant = "scn1a"
	SCN2A  Variant = "scn2a"
	SCN3A  Variant = "scn3a"
	SCN4A  Variant = "scn4a"
	SCN5A  Variant = "scn5a"
	SCN8A  Variant = "scn8a"
	SCN9A  Variant = "scn9a"
	SCN10A Variant = "scn10a"
	SCN11A Variant = "scn11a"
	KCNQ1  Variant = "kcnq1"
	KCNQ2  Variant = "kcnq2"
	KCNQ3  Variant = "kcnq3"
	KCNQ4  Variant = "kcnq4"
	KCNQ5  Variant = "kcnq5"
)

// DefaultVariant is selected when nothing else is configured.
const DefaultVariant = SCN1A

var allVariants = []Variant{
	SCN1A, SCN2A, SCN3A, SCN4A, SCN5A, SCN8A, SCN9A, SCN10A, SCN11A,
	KCNQ1, KCNQ2, KCNQ3, KCNQ4, KCNQ5,
}

// Variants returns every supported variant.
func Variants() []Variant {
	out := make([]Variant, len(allVariants))
	copy(out, allVariants)
	return out
}

// ParseVariant accepts a gene name in any case ("SCN1A", "kcnq2").
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allVariants {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Family reports the channel family of the variant.
func (v Variant) Family() Family {
	if strings.HasPrefix(string(v), "kcnq") {
		return Potassium
	}
	return Sodium
}

// Number is the gene number: 1 for scn1a, 10 for scn10a.
func (v Variant) Number() int {
	s := strings.TrimPrefix(strings.TrimPrefix(string(v), "scn"), "kcnq")
	s = strings.TrimSuffix(s, "a")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Title is the full gene product name shown in the diagram header.
func (v Variant) Title() string {
	if v.Family() == Potassium {
		return fmt.Sprintf("Potassium Voltage-Gated Channel Subfamily Q Member %d", v.Number())
	}
	return fmt.Sprintf("Sodium Voltage-Gated Channel Alpha Subunit %d", v.Number())
}

// Protein is the channel name, e.g. "Nav1.1" or "Kv7.2".
// SCN6A and SCN7A are not Nav channels, so higher genes shift down by two.
func (v Variant) Protein() string {
	n := v.Number()
	if v.Family() == Potassium {
		return fmt.Sprintf("Kv7.%d", n)
	}
	if n >= 6 {
		n -= 2
	}
	return fmt.Sprintf("Nav1.%d", n)
}

// Gene is the upper-case gene symbol.
func (v Variant) Gene() string {
	return strings.ToUpper(string(v))
}

func (v Variant) String() string {
	return string(v)
}
