package riskmodel

import "fmt"

const (
	factorHighRisk       = "High-risk shipment flagged"
	factorPeakSeason     = "Peak shipping season (higher congestion)"
	factorWeekend        = "Weekend port operations (slower processing)"
	factorLongHaul       = "Long-haul route (higher delay risk)"
	factorLowReliability = "Carrier with lower reliability score"
	factorHistorical     = "Historical route performance analysis"
)

// Bounds of the explanatory factors.
const (
	peakSeasonFactor       = 0.08
	weekendFactor          = 0.03
	longHaulTransitDays    = 30
	reliableCarrierScore   = 0.85
	highRiskConfidence     = 0.80
	moderateRiskConfidence = 0.60
	onTrackConfidence      = 0.90
)

// RiskFactors explains a feature vector in human terms. It never returns an
// empty list.
func RiskFactors(v FeatureVector) []string {
	var factors []string
	if v[FeatureRiskFlag] != 0 {
		factors = append(factors, factorHighRisk)
	}
	if v[FeatureSeasonalFactor] > peakSeasonFactor {
		factors = append(factors, factorPeakSeason)
	}
	if v[FeatureWeekdayFactor] > weekendFactor {
		factors = append(factors, factorWeekend)
	}
	if v[FeatureTransitDays] > longHaulTransitDays {
		factors = append(factors, factorLongHaul)
	}
	if v[FeatureCarrierReliability] < reliableCarrierScore {
		factors = append(factors, factorLowReliability)
	}
	if len(factors) == 0 {
		factors = append(factors, factorHistorical)
	}
	return factors
}

// Recommendation maps a prediction onto an action band.
func Recommendation(willDelay bool, confidence, delayProbability float64) string {
	percent := fmt.Sprintf("%.0f%%", delayProbability*100)
	if willDelay {
		switch {
		case confidence > highRiskConfidence:
			return "HIGH RISK: " + percent + " chance of delay. Consider: (1) Notify customer proactively, " +
				"(2) Explore alternative routing, (3) Monitor closely for early intervention."
		case confidence > moderateRiskConfidence:
			return "MODERATE RISK: " + percent + " chance of delay. Recommend increased monitoring and customer communication."
		default:
			return "POSSIBLE DELAY: " + percent + " chance. Continue normal monitoring."
		}
	}
	if confidence > onTrackConfidence {
		return "Low delay risk - shipment on track for on-time delivery."
	}
	return "Moderate confidence in on-time delivery - continue monitoring."
}
