package riskmodel

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"
)

// ErrModelUnavailable is returned when no trained model could be loaded.
var ErrModelUnavailable = errors.New("delay prediction model is not available")

// positiveLabels are the class labels that mean "the shipment will be late".
var positiveLabels = []string{"delayed", "delay", "1", "true"}

// Metrics are the evaluation figures recorded when the model was trained.
type Metrics struct {
	Accuracy  float64  `json:"accuracy"`
	Precision float64  `json:"precision"`
	Recall    float64  `json:"recall"`
	F1        *float64 `json:"f1_score,omitempty"`
	CVMean    *float64 `json:"cv_mean,omitempty"`
	CVStd     *float64 `json:"cv_std,omitempty"`
}

// Validate checks that every mandatory figure is a probability.
func (m Metrics) Validate() error {
	for name, v := range map[string]float64{"accuracy": m.Accuracy, "precision": m.Precision, "recall": m.Recall} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("metric %s is %v, want a value in [0, 1]", name, v)
		}
	}
	return nil
}

// RiskScore is the outcome of one prediction.
type RiskScore struct {
	WillDelay        bool     `json:"will_delay"`
	Confidence       float64  `json:"confidence"`
	DelayProbability float64  `json:"delay_probability"`
	RiskFactors      []string `json:"risk_factors"`
	Recommendation   string   `json:"recommendation"`
	ModelAccuracy    float64  `json:"model_accuracy"`
}

// Info describes the loaded model.
type Info struct {
	ModelType    string   `json:"model_type"`
	Classes      []string `json:"classes"`
	FeatureNames []string `json:"features"`
	Metrics      Metrics  `json:"metrics"`
}

// Option customizes a Model.
type Option func(*Model)

// WithClock sets the time source used when a shipment has no usable departure.
func WithClock(clock func() time.Time) Option {
	return func(m *Model) {
		m.clock = clock
	}
}

// WithLogger sets the logger for encoding fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// Model turns shipment attributes into a delay risk score.
// It is immutable after construction and safe for concurrent use.
type Model struct {
	classifier   Classifier
	encoders     map[string]*Encoder
	featureNames []string
	metrics      Metrics
	positive     int
	clock        func() time.Time
	logger       *slog.Logger
}

// New assembles a Model from its trained parts.
//
// The positive class is looked up by label among the classifier classes, so
// the order the classes were stored in does not matter.
func New(classifier Classifier, encoders map[string]*Encoder, metrics Metrics, opts ...Option) (*Model, error) {
	if classifier == nil {
		return nil, ErrModelUnavailable
	}
	classes := classifier.Classes()
	if len(classes) != 2 {
		return nil, fmt.Errorf("delay model must be binary, got classes %v", classes)
	}
	positive := -1
	for i, c := range classes {
		if slices.Contains(positiveLabels, strings.ToLower(strings.TrimSpace(c))) {
			positive = i
			break
		}
	}
	if positive < 0 {
		return nil, fmt.Errorf("no delayed class among %v", classes)
	}
	for _, name := range []string{EncoderOriginPort, EncoderDestinationPort, EncoderCarrierName, EncoderContainerType} {
		if encoders[name] == nil {
			return nil, fmt.Errorf("missing label encoder %s", name)
		}
	}
	if err := metrics.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		classifier:   classifier,
		encoders:     encoders,
		featureNames: FeatureNames(),
		metrics:      metrics,
		positive:     positive,
		clock:        time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "risk_model")
	return m, nil
}

// Predict scores one shipment. A nil Model reports ErrModelUnavailable.
func (m *Model) Predict(attrs ShipmentAttributes) (RiskScore, error) {
	if m == nil {
		return RiskScore{}, ErrModelUnavailable
	}
	vector, err := m.ExtractFeatures(attrs)
	if err != nil {
		return RiskScore{}, fmt.Errorf("extract features: %w", err)
	}
	predicted, probabilities, err := m.classifier.Classify(vector)
	if err != nil {
		return RiskScore{}, fmt.Errorf("classify: %w", err)
	}
	if len(probabilities) != 2 || predicted < 0 || predicted > 1 {
		return RiskScore{}, fmt.Errorf("classifier returned class %d with %d probabilities", predicted, len(probabilities))
	}

	confidence := clamp01(max(probabilities[0], probabilities[1]))
	delayProbability := clamp01(probabilities[m.positive])
	willDelay := predicted == m.positive

	return RiskScore{
		WillDelay:        willDelay,
		Confidence:       confidence,
		DelayProbability: delayProbability,
		RiskFactors:      RiskFactors(vector),
		Recommendation:   Recommendation(willDelay, confidence, delayProbability),
		ModelAccuracy:    m.metrics.Accuracy,
	}, nil
}

// Info reports what the model was trained on and how well it did.
func (m *Model) Info() (Info, error) {
	if m == nil {
		return Info{}, ErrModelUnavailable
	}
	return Info{
		ModelType:    "RandomForestClassifier",
		Classes:      slices.Clone(m.classifier.Classes()),
		FeatureNames: slices.Clone(m.featureNames),
		Metrics:      m.metrics,
	}, nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
