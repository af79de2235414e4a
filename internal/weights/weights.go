package weights

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"pavecraft/internal/diag"
	"pavecraft/internal/network"
	"pavecraft/internal/pave"
)

const (
	ContinuousMin = -1.0
	ContinuousMax = 1.0
)

// Domain is the set of legal weights of a weight mode. Values is ordered;
// the order decides ties when rounding.
type Domain struct {
	Mode   network.WeightMode
	Values []float64
	Labels []string
}

func (d Domain) Continuous() bool {
	return d.Mode == network.WeightContinuous
}

var domains = map[network.WeightMode]Domain{
	network.WeightDiscrete3: {
		Mode:   network.WeightDiscrete3,
		Values: []float64{1, 0, -1},
		Labels: []string{"+1 (Positive)", "0 (No effect)", "-1 (Negative)"},
	},
	network.WeightDiscrete5: {
		Mode:   network.WeightDiscrete5,
		Values: []float64{3, 1, 0, -1, -3},
		Labels: []string{"+3 (Strong positive)", "+1 (Positive)", "0 (No effect)", "-1 (Negative)", "-3 (Strong negative)"},
	},
	network.WeightDiscrete7: {
		Mode:   network.WeightDiscrete7,
		Values: []float64{5, 3, 1, 0, -1, -3, -5},
		Labels: []string{"+5 (Strong positive)", "+3", "+1", "0 (No effect)", "-1", "-3", "-5 (Strong negative)"},
	},
	network.WeightContinuous: {
		Mode: network.WeightContinuous,
	},
}

// Modes lists the supported weight modes.
var Modes = []network.WeightMode{
	network.WeightDiscrete3,
	network.WeightDiscrete5,
	network.WeightDiscrete7,
	network.WeightContinuous,
}

func DomainFor(mode network.WeightMode) (Domain, bool) {
	d, ok := domains[mode]
	return d, ok
}

// ParseMode accepts a weight mode token in any case.
func ParseMode(token string) (network.WeightMode, bool) {
	mode := network.WeightMode(strings.ToLower(strings.TrimSpace(token)))
	_, ok := domains[mode]
	return mode, ok
}

type Action int

const (
	ActionKept Action = iota
	ActionDefaulted
	ActionIgnored
	ActionCoerced
	ActionClamped
	ActionRounded
)

// Result is the outcome of normalizing one edge weight. Weight is nil when
// the edge carries no weight at all.
type Result struct {
	Weight   *float64
	Action   Action
	Original any
}

// Input is a supplied edge weight together with the endpoint layers.
type Input struct {
	Raw       any
	Present   bool
	FromLayer network.Layer
	ToLayer   network.Layer
}

// Normalize fits a supplied weight into mode's domain. Weights on
// undirected layer pairs are dropped.
func Normalize(in Input, mode network.WeightMode) Result {
	if pave.IsUndirected(in.FromLayer, in.ToLayer) {
		if in.Present && !isZero(in.Raw) {
			return Result{Action: ActionIgnored, Original: in.Raw}
		}
		return Result{Action: ActionKept}
	}
	if !in.Present {
		return Result{Weight: network.Float(0), Action: ActionDefaulted}
	}

	value, ok := toNumber(in.Raw)
	if !ok {
		return Result{Weight: network.Float(0), Action: ActionCoerced, Original: in.Raw}
	}

	domain, ok := DomainFor(mode)
	if !ok || domain.Continuous() {
		clamped := math.Max(ContinuousMin, math.Min(ContinuousMax, value))
		if clamped != value {
			return Result{Weight: network.Float(clamped), Action: ActionClamped, Original: value}
		}
		return Result{Weight: network.Float(value), Action: ActionKept}
	}

	nearest := Nearest(value, domain.Values)
	if nearest != value {
		return Result{Weight: network.Float(nearest), Action: ActionRounded, Original: value}
	}
	return Result{Weight: network.Float(value), Action: ActionKept}
}

// Nearest returns the value in values closest to w. The earliest value wins
// a tie.
func Nearest(w float64, values []float64) float64 {
	if len(values) == 0 {
		return w
	}
	nearest := values[0]
	minDist := math.Abs(w - nearest)
	for _, v := range values {
		if dist := math.Abs(w - v); dist < minDist {
			minDist = dist
			nearest = v
		}
	}
	return nearest
}

// Conforms reports whether w is a legal weight in mode.
func Conforms(w float64, mode network.WeightMode) bool {
	domain, ok := DomainFor(mode)
	if !ok {
		return false
	}
	if domain.Continuous() {
		return w >= ContinuousMin && w <= ContinuousMax
	}
	for _, v := range domain.Values {
		if v == w {
			return true
		}
	}
	return false
}

// Diagnostic describes the correction applied, if any was worth reporting.
func (r Result) Diagnostic(fromLabel, toLabel string) (diag.Diagnostic, bool) {
	var d diag.Diagnostic
	switch r.Action {
	case ActionIgnored:
		d = diag.Infof(diag.CodeWeightIgnored, "V-E and E-E edges are undirected; weight ignored")
	case ActionCoerced:
		d = diag.Warnf(diag.CodeWeightNotNumeric, "weight %v is not a number; set to 0", formatRaw(r.Original))
	case ActionClamped:
		d = diag.Warnf(diag.CodeWeightClamped, "weight %s limited to %s", formatFloat(r.Original), formatFloat(*r.Weight))
	case ActionRounded:
		d = diag.Warnf(diag.CodeWeightRounded, "weight %s rounded to nearest valid value %s", formatFloat(r.Original), formatFloat(*r.Weight))
	default:
		return diag.Diagnostic{}, false
	}
	return d.WithEdge(fromLabel, toLabel), true
}

func toNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func isZero(raw any) bool {
	switch v := raw.(type) {
	case float64:
		return v == 0
	case int:
		return v == 0
	default:
		return false
	}
}

func formatRaw(raw any) string {
	if s, ok := raw.(string); ok {
		return strconv.Quote(s)
	}
	if f, ok := raw.(float64); ok {
		return formatFloat(f)
	}
	return strconv.Quote(fmt.Sprint(raw))
}

func formatFloat(value any) string {
	f, _ := value.(float64)
	return strconv.FormatFloat(f, 'g', -1, 64)
}
