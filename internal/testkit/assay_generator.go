package testkit

import (
	"math/rand"
	"strconv"
)

// AssayGeneratorConfig configures the synthetic two-factor assay generator
type AssayGeneratorConfig struct {
	Factor1       string    `json:"factor1"`
	Factor2       string    `json:"factor2"`
	Response      string    `json:"response"`
	Levels1       []string  `json:"levels1"`
	Levels2       []string  `json:"levels2"`
	Replicates    int       `json:"replicates"`
	BaseMean      float64   `json:"base_mean"`
	Effect1       []float64 `json:"effect1"` // per level of factor 1
	Effect2       []float64 `json:"effect2"` // per level of factor 2
	Interaction   float64   `json:"interaction"`
	Noise         float64   `json:"noise"`
	OutlierEvery  int       `json:"outlier_every"` // 0 disables
	OutlierOffset float64   `json:"outlier_offset"`
	Seed          int64     `json:"seed"`
}

// DefaultAssayConfig returns a genotype by treatment design with a clear
// treatment effect
func DefaultAssayConfig() AssayGeneratorConfig {
	return AssayGeneratorConfig{
		Factor1:     "genotype",
		Factor2:     "treatment",
		Response:    "value",
		Levels1:     []string{"WT", "KO"},
		Levels2:     []string{"ctrl", "drug"},
		Replicates:  8,
		BaseMean:    10,
		Effect1:     []float64{0, 1},
		Effect2:     []float64{0, 4},
		Interaction: 1.5,
		Noise:       1,
		Seed:        42,
	}
}

// AssayGenerator generates reproducible normal responses per cell
type AssayGenerator struct {
	config AssayGeneratorConfig
	rng    *rand.Rand
}

// NewAssayGenerator creates a new assay generator
func NewAssayGenerator(config AssayGeneratorConfig) *AssayGenerator {
	return &AssayGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces the design in level order, replicates innermost.
// The interaction term is added to the last level of both factors.
func (g *AssayGenerator) Generate() Fixture {
	c := g.config
	f := Fixture{Headers: []string{c.Factor1, c.Factor2, c.Response}}

	row := 0
	for i, l1 := range c.Levels1 {
		for j, l2 := range c.Levels2 {
			mean := c.BaseMean + effectAt(c.Effect1, i) + effectAt(c.Effect2, j)
			if i == len(c.Levels1)-1 && j == len(c.Levels2)-1 {
				mean += c.Interaction
			}
			for r := 0; r < c.Replicates; r++ {
				v := mean + g.rng.NormFloat64()*c.Noise
				row++
				if c.OutlierEvery > 0 && row%c.OutlierEvery == 0 {
					v += c.OutlierOffset
				}
				f.Records = append(f.Records, []string{l1, l2, strconv.FormatFloat(v, 'f', 4, 64)})
			}
		}
	}
	return f
}

func effectAt(effects []float64, i int) float64 {
	if i < len(effects) {
		return effects[i]
	}
	return 0
}
