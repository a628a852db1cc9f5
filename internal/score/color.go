package score

// HeatColor maps a fractional score in [0,1] to a hex colour, green at the
// top of the scale through amber to red at the bottom. Values outside every
// band (including anything below 0.1) fall through to red.
func HeatColor(fraction float64) string {
	switch {
	case fraction >= 0.9 && fraction <= 1:
		return "#4caf50"
	case fraction >= 0.8:
		return "#8bc34a"
	case fraction >= 0.7:
		return "#cddc39"
	case fraction >= 0.6:
		return "#ffeb3b"
	case fraction >= 0.5:
		return "#ffc107"
	case fraction >= 0.4:
		return "#ff9800"
	case fraction >= 0.3:
		return "#ff5722"
	case fraction >= 0.1:
		return "#f57c00"
	default:
		return "#f44336"
	}
}
