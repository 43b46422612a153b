package riskmodel_test

import (
	"testing"

	"logistics/internal/core/domain/services/riskmodel"

	"github.com/stretchr/testify/assert"
)

func TestRiskFactors(t *testing.T) {
	t.Run("should fall back to historical analysis", func(t *testing.T) {
		var v riskmodel.FeatureVector
		v[riskmodel.FeatureCarrierReliability] = 0.9
		v[riskmodel.FeatureTransitDays] = 20

		assert.Equal(t, []string{"Historical route performance analysis"}, riskmodel.RiskFactors(v))
	})

	t.Run("should list every triggered factor in order", func(t *testing.T) {
		var v riskmodel.FeatureVector
		v[riskmodel.FeatureRiskFlag] = 1
		v[riskmodel.FeatureSeasonalFactor] = 0.15
		v[riskmodel.FeatureWeekdayFactor] = 0.05
		v[riskmodel.FeatureTransitDays] = 35
		v[riskmodel.FeatureCarrierReliability] = 0.80

		assert.Equal(t, []string{
			"High-risk shipment flagged",
			"Peak shipping season (higher congestion)",
			"Weekend port operations (slower processing)",
			"Long-haul route (higher delay risk)",
			"Carrier with lower reliability score",
		}, riskmodel.RiskFactors(v))
	})

	t.Run("should treat bounds as exclusive", func(t *testing.T) {
		var v riskmodel.FeatureVector
		v[riskmodel.FeatureSeasonalFactor] = 0.08
		v[riskmodel.FeatureWeekdayFactor] = 0.03
		v[riskmodel.FeatureTransitDays] = 30
		v[riskmodel.FeatureCarrierReliability] = 0.85

		assert.Equal(t, []string{"Historical route performance analysis"}, riskmodel.RiskFactors(v))
	})
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		name        string
		willDelay   bool
		confidence  float64
		probability float64
		want        string
	}{
		{
			name: "high risk", willDelay: true, confidence: 0.86, probability: 0.86,
			want: "HIGH RISK: 86% chance of delay. Consider: (1) Notify customer proactively, " +
				"(2) Explore alternative routing, (3) Monitor closely for early intervention.",
		},
		{
			name: "moderate risk", willDelay: true, confidence: 0.75, probability: 0.75,
			want: "MODERATE RISK: 75% chance of delay. Recommend increased monitoring and customer communication.",
		},
		{
			name: "possible delay", willDelay: true, confidence: 0.55, probability: 0.55,
			want: "POSSIBLE DELAY: 55% chance. Continue normal monitoring.",
		},
		{
			name: "on track", willDelay: false, confidence: 0.95, probability: 0.05,
			want: "Low delay risk - shipment on track for on-time delivery.",
		},
		{
			name: "moderate on time", willDelay: false, confidence: 0.65, probability: 0.35,
			want: "Moderate confidence in on-time delivery - continue monitoring.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, riskmodel.Recommendation(tt.willDelay, tt.confidence, tt.probability))
		})
	}
}
