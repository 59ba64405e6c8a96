package settings

import "time"

// Settings is the singleton attendance configuration row.
type Settings struct {
	CheckInStart  string
	CheckInEnd    string
	CheckOutTime  string
	LateTolerance string
	RadiusMeters  int
	OfficeAddress string
	OfficeLat     float64
	OfficeLon     float64
	UpdatedAt     time.Time

	// IsDefault marks values that came from configuration because no row exists yet.
	IsDefault bool
}

// Defaults are the values used until an admin or hr saves settings for the first time.
type Defaults struct {
	CheckInStart  string
	CheckInEnd    string
	CheckOutTime  string
	LateTolerance string
	RadiusMeters  int
	OfficeAddress string
	OfficeLat     float64
	OfficeLon     float64
}

func (d Defaults) Settings() Settings {
	return Settings{
		CheckInStart:  d.CheckInStart,
		CheckInEnd:    d.CheckInEnd,
		CheckOutTime:  d.CheckOutTime,
		LateTolerance: d.LateTolerance,
		RadiusMeters:  d.RadiusMeters,
		OfficeAddress: d.OfficeAddress,
		OfficeLat:     d.OfficeLat,
		OfficeLon:     d.OfficeLon,
		IsDefault:     true,
	}
}
