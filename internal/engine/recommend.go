package engine

// Advisory thresholds for the recommendation rules.
const (
	lowMoistureThreshold  = 0.30
	lowRainfallThreshold  = 2.0
	highTempThreshold     = 30.0
	wetMoistureThreshold  = 0.50
	highRainfallThreshold = 5.0
)

// Recommend evaluates the advisory rules against a summary. Rules are
// independent and every matching rule fires, in fixed priority order; when
// nothing fires a single all-clear message is emitted, so the result is
// never empty.
func Recommend(s Summary) []string {
	var recs []string

	if s.AvgSoilMoisture < lowMoistureThreshold {
		recs = append(recs, "Low soil moisture detected - consider increasing irrigation")
	}
	if s.AvgPrecipitation < lowRainfallThreshold {
		recs = append(recs, "Low rainfall period - crops may need supplemental water")
	}
	if s.AvgTemperature > highTempThreshold {
		recs = append(recs, "High temperatures - increase irrigation to compensate")
	}
	if s.AvgSoilMoisture > wetMoistureThreshold && s.AvgPrecipitation > highRainfallThreshold {
		recs = append(recs, "High moisture levels - reduce irrigation to prevent overwatering")
	}
	if len(recs) == 0 {
		recs = append(recs, "Conditions are optimal for current crop")
	}

	return recs
}
