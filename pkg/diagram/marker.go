package diagram

import (
	"fmt"

	"github.com/ha1tch/chanmap/pkg/channel"
)

// ColourLookup resolves palette keys to colours.
type ColourLookup interface {
	Get(key string) (string, bool)
}

// UnassignedColourError reports a phenotype without a palette entry.
type UnassignedColourError struct {
	Key string
}

func (e *UnassignedColourError) Error() string {
	return fmt.Sprintf("no colour assigned to %q", e.Key)
}

// Marker is a projected mutation.
type Marker struct {
	Mutation channel.Mutation
	At       Point // bounds coordinates
	Symbol   Symbol
	Size     float64
	Fill     string
}

// Project places one mutation on the diagram. The position is parsed from
// the label and must lie within the variant. Project never assigns colours.
func Project(m channel.Mutation, ss *ScaleSet, shapes ShapeTable, colours ColourLookup, size int) (Marker, error) {
	pos, err := channel.ParsePosition(m.Label)
	if err != nil {
		return Marker{}, err
	}
	if !ss.Contains(pos) {
		return Marker{}, fmt.Errorf("position %d: %w", pos, channel.ErrOutOfRange)
	}
	fill, ok := colours.Get(m.ColourKey())
	if !ok || fill == "" {
		return Marker{}, &UnassignedColourError{Key: m.ColourKey()}
	}
	return Marker{
		Mutation: m,
		At:       ss.Point(pos),
		Symbol:   shapes.Lookup(m.Type),
		Size:     float64(ClampMutationSize(size)),
		Fill:     fill,
	}, nil
}
