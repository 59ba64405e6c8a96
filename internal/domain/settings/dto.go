package settings

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

type UpdateSettingsRequest struct {
	CheckInStart  string  `json:"check_in_start"`
	CheckInEnd    string  `json:"check_in_end"`
	CheckOutTime  string  `json:"check_out_time"`
	LateTolerance string  `json:"late_tolerance"`
	RadiusMeters  int     `json:"radius_meters"`
	OfficeAddress string  `json:"office_address"`
	OfficeLat     float64 `json:"office_latitude"`
	OfficeLon     float64 `json:"office_longitude"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	r.OfficeAddress = strings.TrimSpace(r.OfficeAddress)

	clocks := []struct {
		field string
		value string
	}{
		{"check_in_start", r.CheckInStart},
		{"check_in_end", r.CheckInEnd},
		{"check_out_time", r.CheckOutTime},
		{"late_tolerance", r.LateTolerance},
	}
	for _, c := range clocks {
		if validator.IsEmpty(c.value) {
			errs.Add(c.field, c.field+" is required")
		} else if !validator.IsValidClock(c.value) {
			errs.Add(c.field, c.field+" must be in HH:MM format")
		}
	}

	// Zero-padded HH:MM compares correctly as a string.
	if validator.IsValidClock(r.CheckInStart) && validator.IsValidClock(r.CheckInEnd) && r.CheckInStart >= r.CheckInEnd {
		errs.Add("check_in_end", "check_in_end must be after check_in_start")
	}

	if r.RadiusMeters < 10 {
		errs.Add("radius_meters", "radius_meters must be at least 10")
	}

	if validator.IsEmpty(r.OfficeAddress) {
		errs.Add("office_address", "office_address is required")
	} else if len(r.OfficeAddress) > 255 {
		errs.Add("office_address", "office_address must not exceed 255 characters")
	}

	if !validator.IsValidLatitude(r.OfficeLat) {
		errs.Add("office_latitude", "office_latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(r.OfficeLon) {
		errs.Add("office_longitude", "office_longitude must be between -180 and 180")
	}

	return errs.Err()
}

func (r UpdateSettingsRequest) ToSettings() Settings {
	return Settings{
		CheckInStart:  r.CheckInStart,
		CheckInEnd:    r.CheckInEnd,
		CheckOutTime:  r.CheckOutTime,
		LateTolerance: r.LateTolerance,
		RadiusMeters:  r.RadiusMeters,
		OfficeAddress: r.OfficeAddress,
		OfficeLat:     r.OfficeLat,
		OfficeLon:     r.OfficeLon,
	}
}

type SettingsResponse struct {
	CheckInStart  string  `json:"check_in_start"`
	CheckInEnd    string  `json:"check_in_end"`
	CheckOutTime  string  `json:"check_out_time"`
	LateTolerance string  `json:"late_tolerance"`
	RadiusMeters  int     `json:"radius_meters"`
	OfficeAddress string  `json:"office_address"`
	OfficeLat     float64 `json:"office_latitude"`
	OfficeLon     float64 `json:"office_longitude"`
	IsDefault     bool    `json:"is_default"`
	UpdatedAt     *string `json:"updated_at,omitempty"`
}

func NewSettingsResponse(s Settings) SettingsResponse {
	resp := SettingsResponse{
		CheckInStart:  s.CheckInStart,
		CheckInEnd:    s.CheckInEnd,
		CheckOutTime:  s.CheckOutTime,
		LateTolerance: s.LateTolerance,
		RadiusMeters:  s.RadiusMeters,
		OfficeAddress: s.OfficeAddress,
		OfficeLat:     s.OfficeLat,
		OfficeLon:     s.OfficeLon,
		IsDefault:     s.IsDefault,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	return resp
}
