// Package riskmodel scores how likely a shipment is to arrive late.
//
// A Model is built once from four trained artifacts (see Load): a random
// forest serialized as JSON, the categorical encoding tables, the ordered
// feature names and the evaluation metrics. Predict then turns the raw
// shipment attributes into a FeatureVector, runs the forest once and wraps
// the class probabilities into a RiskScore with human-readable risk factors
// and a recommendation band.
//
// Categories the model never saw during training are encoded as DefaultCode
// rather than failing the prediction.
package riskmodel
