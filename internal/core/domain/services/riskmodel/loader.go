package riskmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"logistics/internal/pkg/errs"
)

// Artifact file names inside a model directory.
const (
	ModelFile        = "delay_prediction_model.json"
	EncodersFile     = "label_encoders.json"
	FeatureNamesFile = "feature_names.json"
	MetricsFile      = "model_metrics.json"
)

type forestDTO struct {
	Classes []string  `json:"classes"`
	Trees   []treeDTO `json:"trees"`
}

type treeDTO struct {
	Nodes []nodeDTO `json:"nodes"`
}

type nodeDTO struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// Load reads the four model artifacts from dir and assembles a Model.
//
// A missing artifact is reported as errs.ErrObjectNotFound; a malformed one as
// errs.ErrValueIsInvalid.
//
// Example:
//
//	model, err := riskmodel.Load("./models", riskmodel.WithLogger(logger))
//	if err != nil {
//	    logger.Error("Delay model unavailable", "error", err)
//	}
func Load(dir string, opts ...Option) (*Model, error) {
	var forest forestDTO
	if err := readArtifact(dir, ModelFile, &forest); err != nil {
		return nil, err
	}
	trees := make([]Tree, 0, len(forest.Trees))
	for _, t := range forest.Trees {
		nodes := make([]Node, 0, len(t.Nodes))
		for _, n := range t.Nodes {
			nodes = append(nodes, Node(n))
		}
		trees = append(trees, Tree{Nodes: nodes})
	}
	classifier, err := NewForest(forest.Classes, trees)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(ModelFile, err)
	}

	var tables map[string][]string
	if err := readArtifact(dir, EncodersFile, &tables); err != nil {
		return nil, err
	}
	encoders := make(map[string]*Encoder, len(tables))
	for feature, classes := range tables {
		enc, err := NewEncoder(feature, classes)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(EncodersFile, err)
		}
		encoders[feature] = enc
	}

	var names []string
	if err := readArtifact(dir, FeatureNamesFile, &names); err != nil {
		return nil, err
	}
	if !slices.Equal(names, FeatureNames()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(FeatureNamesFile,
			fmt.Errorf("model was trained on %v, want %v", names, FeatureNames()))
	}

	var metrics Metrics
	if err := readArtifact(dir, MetricsFile, &metrics); err != nil {
		return nil, err
	}

	model, err := New(classifier, encoders, metrics, opts...)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(dir, err)
	}
	return model, nil
}

func readArtifact(dir, name string, target any) error {
	path := filepath.Join(dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.NewObjectNotFoundErrorWithCause("model artifact", path, err)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}
