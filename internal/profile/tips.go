package profile

import "math/rand/v2"

// HealthTips are general suggestions shown on the dashboard.
var HealthTips = []string{
	"Try to walk at least 10,000 steps a day for better cardiovascular health.",
	"Burning more calories can help you maintain a healthy weight. Aim for 500 calories a day.",
	"Ensure you get at least 7-8 hours of sleep each night for optimal recovery.",
	"Drink at least 2 liters of water daily to stay hydrated.",
	"Maintain a healthy heart rate by engaging in regular physical activity.",
}

// RandomTip returns one of HealthTips.
func RandomTip() string {
	return HealthTips[rand.IntN(len(HealthTips))]
}
