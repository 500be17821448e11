package valueobject

import (
	"fmt"
	"strings"
)

// Strategy names a classifier fitting strategy.
type Strategy struct {
	value string
}

var (
	StrategyLogisticRegression = Strategy{value: "logistic_regression"}
	StrategyRandomForest       = Strategy{value: "random_forest"}
	StrategyGradientBoosting   = Strategy{value: "gradient_boosting"}
)

var strategyAliases = map[string]Strategy{
	"logistic_regression": StrategyLogisticRegression,
	"logreg":              StrategyLogisticRegression,
	"baseline":            StrategyLogisticRegression,
	"random_forest":       StrategyRandomForest,
	"rf":                  StrategyRandomForest,
	"gradient_boosting":   StrategyGradientBoosting,
	"xgboost":             StrategyGradientBoosting,
	"gbt":                 StrategyGradientBoosting,
}

// NewStrategy parses a strategy name or one of its aliases.
func NewStrategy(s string) (Strategy, error) {
	v, ok := strategyAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Strategy{}, fmt.Errorf("invalid strategy: %q", s)
	}
	return v, nil
}

func (s Strategy) String() string { return s.value }

// IsZero returns true if the strategy has not been set.
func (s Strategy) IsZero() bool { return s.value == "" }

// Equal returns true when both strategies carry the same value.
func (s Strategy) Equal(other Strategy) bool { return s.value == other.value }
