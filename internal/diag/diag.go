package diag

import "fmt"

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
	SeverityInfo  Severity = "info"
)

const (
	CodeInputEmpty          = "input_empty"
	CodeParseFailed         = "parse_failed"
	CodeNotObject           = "not_object"
	CodeWrapperDetected     = "wrapper_detected"
	CodeWeightModeUnknown   = "weight_mode_unknown"
	CodeNodesMissing        = "nodes_missing"
	CodeNodeNotObject       = "node_not_object"
	CodeLabelMissing        = "label_missing"
	CodeLayerMissing        = "layer_missing"
	CodeLayerUnknown        = "layer_unknown"
	CodeLabelDuplicate      = "label_duplicate"
	CodePerformanceNotFound = "performance_not_found"
	CodeEdgesNotArray       = "edges_not_array"
	CodeEdgesEmpty          = "edges_empty"
	CodeEdgeNotObject       = "edge_not_object"
	CodeEdgeEndpointMissing = "edge_endpoint_missing"
	CodeEdgeNodeUnknown     = "edge_node_unknown"
	CodeEdgeSelfLoop        = "edge_self_loop"
	CodeEdgeDuplicate       = "edge_duplicate"
	CodePaveViolation       = "pave_violation"
	CodeWeightIgnored       = "weight_ignored"
	CodeWeightNotNumeric    = "weight_not_numeric"
	CodeWeightClamped       = "weight_clamped"
	CodeWeightRounded       = "weight_rounded"
	CodeWeightOutOfDomain   = "weight_out_of_domain"
	CodeWeightLegacy        = "weight_legacy_format"
)

type Diagnostic struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	NodeLabel  string   `json:"nodeLabel,omitempty"`
	EdgeLabels string   `json:"edgeLabels,omitempty"`
}

func Errorf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Warnf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarn, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Infof(code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityInfo, Code: code, Message: fmt.Sprintf(format, args...)}
}

func (d Diagnostic) WithNode(label string) Diagnostic {
	d.NodeLabel = label
	return d
}

func (d Diagnostic) WithEdge(from, to string) Diagnostic {
	d.EdgeLabels = EdgeLabel(from, to)
	return d
}

func (d Diagnostic) String() string {
	location := d.NodeLabel
	if d.EdgeLabels != "" {
		location = d.EdgeLabels
	}
	if location == "" {
		return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Code)
	}
	return fmt.Sprintf("%s: %s: %s (%s)", d.Severity, location, d.Message, d.Code)
}

func EdgeLabel(from, to string) string {
	return from + " → " + to
}

// List collects diagnostics in emission order. The zero value is ready to use.
type List struct {
	items []Diagnostic
}

func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

func (l *List) All() []Diagnostic {
	return append([]Diagnostic{}, l.items...)
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) Errors() []Diagnostic   { return l.filter(SeverityError) }
func (l *List) Warnings() []Diagnostic { return l.filter(SeverityWarn) }
func (l *List) Infos() []Diagnostic    { return l.filter(SeverityInfo) }

func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (l *List) filter(severity Severity) []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, d := range l.items {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

// HasCode reports whether any diagnostic in ds carries code.
func HasCode(ds []Diagnostic, code string) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}
