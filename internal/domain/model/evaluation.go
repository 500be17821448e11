package model

import (
	"fmt"
	"strings"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// ConfusionMatrix counts held-out outcomes with label 1 as positive.
type ConfusionMatrix struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

// Total returns the number of scored examples.
func (c ConfusionMatrix) Total() int { return c.TN + c.FP + c.FN + c.TP }

// ClassMetrics holds precision, recall and F1 for one class.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// EvaluationReport summarises a classifier on the held-out partition.
type EvaluationReport struct {
	Classes     [2]ClassMetrics `json:"classes"`
	MacroAvg    ClassMetrics    `json:"macro_avg"`
	WeightedAvg ClassMetrics    `json:"weighted_avg"`
	Matrix      ConfusionMatrix `json:"confusion_matrix"`
	Accuracy    float64         `json:"accuracy"`
}

// NewEvaluationReport scores predictions against ground truth. Metrics
// with a zero denominator are reported as 0.
func NewEvaluationReport(yTrue, yPred []valueobject.Label) (EvaluationReport, error) {
	if len(yTrue) != len(yPred) {
		return EvaluationReport{}, fmt.Errorf("label length mismatch: %d true, %d predicted", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return EvaluationReport{}, fmt.Errorf("no examples to evaluate")
	}

	var cm ConfusionMatrix
	for i := range yTrue {
		switch {
		case yTrue[i] == valueobject.LabelDefault && yPred[i] == valueobject.LabelDefault:
			cm.TP++
		case yTrue[i] == valueobject.LabelDefault:
			cm.FN++
		case yPred[i] == valueobject.LabelDefault:
			cm.FP++
		default:
			cm.TN++
		}
	}

	r := EvaluationReport{Matrix: cm}
	r.Classes[valueobject.LabelNoDefault] = classMetrics(cm.TN, cm.FN, cm.FP)
	r.Classes[valueobject.LabelDefault] = classMetrics(cm.TP, cm.FP, cm.FN)
	r.Accuracy = ratio(cm.TP+cm.TN, cm.Total())

	total := float64(cm.Total())
	for _, c := range r.Classes {
		r.MacroAvg.Precision += c.Precision / 2
		r.MacroAvg.Recall += c.Recall / 2
		r.MacroAvg.F1 += c.F1 / 2
		w := float64(c.Support) / total
		r.WeightedAvg.Precision += c.Precision * w
		r.WeightedAvg.Recall += c.Recall * w
		r.WeightedAvg.F1 += c.F1 * w
	}
	r.MacroAvg.Support = cm.Total()
	r.WeightedAvg.Support = cm.Total()

	return r, nil
}

func classMetrics(tp, fp, fn int) ClassMetrics {
	m := ClassMetrics{
		Precision: ratio(tp, tp+fp),
		Recall:    ratio(tp, tp+fn),
		Support:   tp + fn,
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// String renders the confusion matrix and classification report as console text.
func (r EvaluationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Confusion Matrix:\n[[%d %d]\n [%d %d]]\n\n", r.Matrix.TN, r.Matrix.FP, r.Matrix.FN, r.Matrix.TP)
	fmt.Fprintf(&b, "%12s %9s %9s %9s %9s\n\n", "", "precision", "recall", "f1-score", "support")
	for i, c := range r.Classes {
		fmt.Fprintf(&b, "%12d %9.2f %9.2f %9.2f %9d\n", i, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Matrix.Total())
	fmt.Fprintf(&b, "%12s %9.2f %9.2f %9.2f %9d\n", "macro avg", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	fmt.Fprintf(&b, "%12s %9.2f %9.2f %9.2f %9d\n", "weighted avg", r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)
	return b.String()
}
