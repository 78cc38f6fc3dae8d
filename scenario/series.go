package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/christianmorkeberg/group25/core/params"
)

// FlexSeries decodes a yaml node that is either a single scalar or a list of
// per-hour values into a params.Series. A missing node leaves the series
// absent.
type FlexSeries struct {
	Series params.Series
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FlexSeries) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("series value: %w", err)
		}
		f.Series = params.ScalarSeries(v)
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := node.Decode(&vs); err != nil {
			return fmt.Errorf("series values: %w", err)
		}
		f.Series = params.ListSeries(vs)
		return nil
	default:
		return fmt.Errorf("series must be a number or a list, got yaml kind %d", node.Kind)
	}
}
