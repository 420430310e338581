package models

// Timeframe is a symbolic sampling window token governing how many samples and
// what date spacing a generated series has.
type Timeframe string

const (
	Timeframe1H  Timeframe = "1H"
	Timeframe4H  Timeframe = "4H"
	Timeframe1D  Timeframe = "1D"
	Timeframe7D  Timeframe = "7D"
	Timeframe1M  Timeframe = "1M"
	Timeframe3M  Timeframe = "3M"
	Timeframe1Y  Timeframe = "1Y"
	TimeframeMax Timeframe = "MAX" // display only
)

// AllTimeframes lists the selectable sampling tokens in display order.
var AllTimeframes = []Timeframe{
	Timeframe1H, Timeframe4H, Timeframe1D, Timeframe7D,
	Timeframe1M, Timeframe3M, Timeframe1Y,
}

func (tf Timeframe) String() string {
	return string(tf)
}
