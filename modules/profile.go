package modules

import "math"

// Hourly weather and demand profiles of a typical day.

func daylight(hour int) float64 {
	return math.Sin(math.Pi * float64(hour-6) / 12)
}

// irradiance in W/m²
func irradiance(hour int) float64 {
	return math.Max(0, daylight(hour)) * 800
}

func externalTemperature(hour int) float64 {
	return 10 + 10*daylight(hour)
}

func groundTemperature(hour int) float64 {
	return 15 + 5*daylight(hour)
}

// hot water demand in liters per hour
var hotWaterDemand = [24]float64{
	1, 1, 0, 1, 1, 1,
	20, 30, 25,
	5, 3, 6, 4, 3, 6, 3, 6,
	0,
	25, 35, 30,
	3, 3, 1,
}
