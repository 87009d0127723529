package models

// Unit is a typed view of one normalized output row, used for reporting.
type Unit struct {
	ID        string
	Bedrooms  int
	Area      float64
	Allocated bool
	Price     float64
}

// InsightReport holds the computed summary over one run's output table.
type InsightReport struct {
	TotalUnits       int
	AllocatedUnits   int
	AvailableUnits   int
	AverageArea      float64
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	LargestUnit      *Unit
	UnitsByBedrooms  map[int]int
	DocumentsMissing int
}
