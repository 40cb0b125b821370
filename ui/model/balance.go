package model

import (
	"fmt"

	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

// balanceRatio flags a region whose sample count falls this far below
// the best-trained region.
const balanceRatio = 0.5

// BalanceAdvice inspects training progress and returns a short hint for
// the setup screen, or "" when the dataset looks healthy. Unbalanced
// classes skew the nearest-neighbour vote toward the heavy labels.
func BalanceAdvice(regions []inspect.Region, backgroundExamples int) string {
	if len(regions) == 0 {
		return ""
	}
	max := 0
	for _, r := range regions {
		if r.Samples > max {
			max = r.Samples
		}
	}
	if max == 0 {
		return ""
	}
	if backgroundExamples == 0 {
		return "Capture fundo: sem amostras de fundo"
	}
	for _, r := range regions {
		if float64(r.Samples) < float64(max)*balanceRatio {
			return fmt.Sprintf("Treino desbalanceado: %s tem %d amostras (máx %d)", r.Name, r.Samples, max)
		}
	}
	return ""
}
