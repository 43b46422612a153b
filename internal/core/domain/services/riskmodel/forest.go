package riskmodel

import (
	"errors"
	"fmt"
)

// Classifier is the trained model behind Predict.
//
// Classify runs the model once and returns the index of the predicted class
// and the probability of every class, both in the order of Classes.
type Classifier interface {
	Classes() []string
	Classify(vector FeatureVector) (predicted int, probabilities []float64, err error)
}

// Forest is a random-forest classifier: the class distribution is the mean
// of the normalized leaf distributions of its trees, and the predicted class
// is the most probable one.
type Forest struct {
	classes []string
	trees   []Tree
}

// Tree is one decision tree stored as a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node
}

// Node is a split when Left >= 0, otherwise a leaf carrying class counts in Value.
// Samples go left when vector[Feature] <= Threshold.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     []float64
}

// IsLeaf reports whether the node terminates a path.
func (n Node) IsLeaf() bool {
	return n.Left < 0
}

// NewForest validates the tree structure against the class list.
func NewForest(classes []string, trees []Tree) (*Forest, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("forest needs at least two classes, got %d", len(classes))
	}
	if len(trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	for ti, tree := range trees {
		if err := validateTree(tree, len(classes)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
	}
	return &Forest{classes: classes, trees: trees}, nil
}

func validateTree(tree Tree, nClasses int) error {
	if len(tree.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range tree.Nodes {
		if n.IsLeaf() {
			if len(n.Value) != nClasses {
				return fmt.Errorf("leaf %d has %d values for %d classes", i, len(n.Value), nClasses)
			}
			total := 0.0
			for _, v := range n.Value {
				if v < 0 {
					return fmt.Errorf("leaf %d has a negative class count", i)
				}
				total += v
			}
			if total == 0 {
				return fmt.Errorf("leaf %d is empty", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= FeatureCount {
			return fmt.Errorf("node %d splits on feature %d", i, n.Feature)
		}
		// children must come after their parent, which also rules out cycles
		if n.Left <= i || n.Left >= len(tree.Nodes) || n.Right <= i || n.Right >= len(tree.Nodes) {
			return fmt.Errorf("node %d has children out of range", i)
		}
	}
	return nil
}

func (f *Forest) Classes() []string {
	return f.classes
}

func (f *Forest) Classify(vector FeatureVector) (int, []float64, error) {
	probabilities := make([]float64, len(f.classes))
	for _, tree := range f.trees {
		leaf := tree.leaf(vector)
		total := 0.0
		for _, v := range leaf.Value {
			total += v
		}
		for c, v := range leaf.Value {
			probabilities[c] += v / total
		}
	}

	predicted := 0
	for c := range probabilities {
		probabilities[c] /= float64(len(f.trees))
		if probabilities[c] > probabilities[predicted] {
			predicted = c
		}
	}
	return predicted, probabilities, nil
}

func (t Tree) leaf(vector FeatureVector) Node {
	n := t.Nodes[0]
	for !n.IsLeaf() {
		if vector[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n
}
