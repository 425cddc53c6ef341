package types

// LabelTable interns labels into float64 codes so label fields can share the
// numeric window machinery. Code 0 is reserved for "no label".
type LabelTable struct {
	codes  map[string]float64
	labels []string
}

func NewLabelTable() *LabelTable {
	return &LabelTable{
		codes:  make(map[string]float64),
		labels: []string{""},
	}
}

// Code returns the code of label, interning it on first use.
func (t *LabelTable) Code(label string) float64 {
	if label == "" {
		return 0
	}

	if code, ok := t.codes[label]; ok {
		return code
	}

	code := float64(len(t.labels))
	t.codes[label] = code
	t.labels = append(t.labels, label)

	return code
}

// Label returns the label for code, or "" for unknown codes.
func (t *LabelTable) Label(code float64) string {
	idx := int(code)
	if float64(idx) != code || idx <= 0 || idx >= len(t.labels) {
		return ""
	}

	return t.labels[idx]
}

// Encode converts a label column into codes.
func (t *LabelTable) Encode(labels []string) []float64 {
	out := make([]float64, len(labels))
	for i, label := range labels {
		out[i] = t.Code(label)
	}

	return out
}

// Len returns the number of interned labels.
func (t *LabelTable) Len() int {
	return len(t.labels) - 1
}
