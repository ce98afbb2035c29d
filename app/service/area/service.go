package area

import (
	"fmt"
	"strconv"
	"strings"

	"sahaya/app/config"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const (
	trustedScore = 98
	defaultScore = 92
	nightScore   = 85

	trustedAnalysis = "This location is a Verified Trusted Zone. Security is active 24/7."
	defaultAnalysis = "This area is generally considered safe. Maintain normal awareness."
	nightAnalysis   = "It is night time. Areas are generally less safe than day. Stay alert."
)

// Assessment is computed fresh per request and never cached.
type Assessment struct {
	LocationName string
	TimeString   string
	SafetyScore  int
	Analysis     string
}

type LocationAnalysis struct {
	Location Location `json:"location"`
	Analysis string   `json:"analysis"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radius"`
}

type Service struct {
	cfg *config.Config
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg: do.MustInvoke[*config.Config](di),
	}, nil
}

// Assess scores a named location for a given 12-hour clock time. A trusted
// zone match short-circuits the time check entirely.
func (s *Service) Assess(locationName, timeString string) Assessment {
	folded := strings.ToLower(locationName)

	zoneIndex := pie.FindFirstUsing(s.cfg.Safety.TrustedZones, func(zone string) bool {
		return strings.Contains(folded, strings.ToLower(zone))
	})
	if zoneIndex >= 0 {
		return Assessment{
			LocationName: locationName,
			TimeString:   timeString,
			SafetyScore:  trustedScore,
			Analysis:     trustedAnalysis,
		}
	}

	result := Assessment{
		LocationName: locationName,
		TimeString:   timeString,
		SafetyScore:  defaultScore,
		Analysis:     defaultAnalysis,
	}

	if isNight(timeString) {
		result.SafetyScore = nightScore
		result.Analysis = nightAnalysis
	}

	return result
}

func (s *Service) AnalyzeCoordinates(latitude, longitude float64, radius int) LocationAnalysis {
	return LocationAnalysis{
		Location: Location{
			Latitude:  latitude,
			Longitude: longitude,
			Radius:    radius,
		},
		Analysis: fmt.Sprintf("Area analysis for location (%v, %v)", latitude, longitude),
	}
}

// isNight parses a 12-hour clock with AM/PM suffix. Both 12 AM and 12 PM are
// treated as hour 0, so "12:30 PM" counts as night. Anything that does not
// parse counts as daytime.
func isNight(timeString string) bool {
	hourPart := strings.TrimSpace(strings.Split(timeString, ":")[0])

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return false
	}

	if hour == 12 {
		hour = 0
	}

	upper := strings.ToUpper(timeString)
	switch {
	case strings.Contains(upper, "PM"):
		return hour >= 8 || hour == 0
	case strings.Contains(upper, "AM"):
		return hour < 6
	}

	return false
}
