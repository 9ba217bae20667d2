package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/shopspring/decimal"
)

// MissingBaselineAdvisory is attached to a comparison whose baseline cannot be resolved.
const MissingBaselineAdvisory = "no EAT rule for the selected baseline structure: annual saving and 10-year effect are unavailable"

// CalculationEngine orchestrates the structure comparison
type CalculationEngine struct {
	Structures *StructureCalculator
	Logger     Logger
	// Now stamps generated comparisons; overridable in tests.
	Now func() time.Time
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Structures: NewStructureCalculator(),
		Logger:     NopLogger{},
		Now:        time.Now,
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.Logger = l
	ce.Structures.Logger = l
}

// Compare computes every structure for the input bundle and the savings
// relative to the baseline.
func (ce *CalculationEngine) Compare(ctx context.Context, in domain.Inputs) (*domain.Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inputs: %w", err)
	}

	rows := make([]domain.StructureRow, 0, len(domain.AllStructures))
	for _, s := range domain.AllStructures {
		row, err := ce.Structures.Calculate(s, in)
		if err != nil {
			return nil, fmt.Errorf("calculate %s: %w", s.ID(), err)
		}
		rows = append(rows, row)
	}

	comparison := &domain.Comparison{
		Inputs:      in,
		Rows:        rows,
		GeneratedAt: ce.now(),
	}
	ce.applyBaseline(comparison)
	return comparison, nil
}

// applyBaseline fills Saving and Effect10 for every row when the baseline resolves.
func (ce *CalculationEngine) applyBaseline(c *domain.Comparison) {
	baseline, ok := domain.ParseStructure(c.Inputs.Baseline)
	var baselineRow domain.StructureRow
	if ok {
		baselineRow, ok = c.Row(baseline)
	}
	if !ok {
		ce.Logger.Warnf("baseline %q not found among structures", c.Inputs.Baseline)
		c.BaselineAvailable = false
		c.Advisory = MissingBaselineAdvisory
		return
	}

	baselineEAT := baselineRow.EAT
	c.BaselineAvailable = true
	c.BaselineEAT = &baselineEAT

	rate := c.Inputs.KeyRate()
	bestEffect := decimal.Zero
	for i := range c.Rows {
		saving := c.Rows[i].EAT.Sub(baselineEAT)
		effect := EffectFromSaving(saving, rate)
		c.Rows[i].Saving = &saving
		c.Rows[i].Effect10 = &effect

		if effect.GreaterThan(bestEffect) {
			bestEffect = effect
			best := c.Rows[i].Structure
			c.Best = &best
		}
	}
}

func (ce *CalculationEngine) now() time.Time {
	if ce.Now == nil {
		return time.Now()
	}
	return ce.Now()
}
