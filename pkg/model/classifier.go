package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Tree is one fitted decision tree in the layout of scikit-learn's tree_
// arrays. Leaves have children_left == -1.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Classifier is either a linear model ("linear": one row of coef per class,
// a single row for binary problems) or a tree ensemble ("forest"). Classes
// holds the encoded label per output column.
type Classifier struct {
	Kind      string      `json:"kind"`
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef,omitempty"`
	Intercept []float64   `json:"intercept,omitempty"`
	NClasses  int         `json:"n_classes,omitempty"`
	Trees     []Tree      `json:"trees,omitempty"`

	coef *mat.Dense
}

func (c *Classifier) prepare() error {
	switch c.Kind {
	case "linear":
		if len(c.Coef) == 0 {
			return fmt.Errorf("classifier: empty coef")
		}
		if len(c.Intercept) != len(c.Coef) {
			return fmt.Errorf("classifier: %d intercepts for %d coef rows", len(c.Intercept), len(c.Coef))
		}
		data := make([]float64, 0, len(c.Coef)*FeatureCount)
		for i, row := range c.Coef {
			if len(row) != FeatureCount {
				return fmt.Errorf("classifier: coef row %d has %d entries, want %d", i, len(row), FeatureCount)
			}
			data = append(data, row...)
		}
		c.coef = mat.NewDense(len(c.Coef), FeatureCount, data)
		n := len(c.Coef)
		if n == 1 {
			n = 2
		}
		c.defaultClasses(n)
	case "forest":
		if len(c.Trees) == 0 {
			return fmt.Errorf("classifier: no trees")
		}
		if c.NClasses == 0 && len(c.Trees[0].Value) > 0 {
			c.NClasses = len(c.Trees[0].Value[0])
		}
		if c.NClasses == 0 {
			return fmt.Errorf("classifier: no classes")
		}
		for i, t := range c.Trees {
			if err := t.validate(c.NClasses); err != nil {
				return fmt.Errorf("classifier: tree %d: %w", i, err)
			}
		}
		c.defaultClasses(c.NClasses)
	default:
		return fmt.Errorf("classifier: unknown kind %q", c.Kind)
	}
	return nil
}

func (c *Classifier) defaultClasses(n int) {
	if len(c.Classes) > 0 {
		return
	}
	c.Classes = make([]int, n)
	for i := range c.Classes {
		c.Classes[i] = i
	}
}

// Predict returns the encoded class for a scaled feature vector.
func (c *Classifier) Predict(x *mat.VecDense) (int, error) {
	if x.Len() != FeatureCount {
		return 0, fmt.Errorf("%w: got %d", ErrFeatureCount, x.Len())
	}
	var idx int
	switch c.Kind {
	case "linear":
		scores := mat.NewVecDense(c.coef.RawMatrix().Rows, nil)
		scores.MulVec(c.coef, x)
		scores.AddVec(scores, mat.NewVecDense(len(c.Intercept), c.Intercept))
		if scores.Len() == 1 {
			if scores.AtVec(0) > 0 {
				idx = 1
			}
		} else {
			idx = floats.MaxIdx(scores.RawVector().Data)
		}
	case "forest":
		proba := make([]float64, c.NClasses)
		for _, t := range c.Trees {
			leaf := append([]float64(nil), t.leaf(x)...)
			if sum := floats.Sum(leaf); sum > 0 {
				floats.Scale(1/sum, leaf)
			}
			floats.Add(proba, leaf)
		}
		idx = floats.MaxIdx(proba)
	}
	if idx >= len(c.Classes) {
		return 0, fmt.Errorf("%w: column %d", ErrLabelOutRange, idx)
	}
	return c.Classes[idx], nil
}

func (t Tree) validate(nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("ragged node arrays")
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != nClasses {
			return fmt.Errorf("node %d: %d class values, want %d", i, len(t.Value[i]), nClasses)
		}
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == -1 {
			continue
		}
		if l <= i || r <= i || l >= n || r >= n {
			return fmt.Errorf("node %d: bad children %d/%d", i, l, r)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= FeatureCount {
			return fmt.Errorf("node %d: bad feature %d", i, t.Feature[i])
		}
	}
	return nil
}

func (t Tree) leaf(x *mat.VecDense) []float64 {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if x.AtVec(t.Feature[node]) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}
