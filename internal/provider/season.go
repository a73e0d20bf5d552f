package provider

import (
	"fmt"
	"strconv"
	"time"
)

// Clock supplies the current time so season defaults can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard time package.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SeasonStartYear returns the calendar year a season started in. Seasons
// start in October: any date before October belongs to the season that
// started the previous year.
func SeasonStartYear(now time.Time) int {
	if now.Month() >= time.October {
		return now.Year()
	}
	return now.Year() - 1
}

// CurrentSeason returns the 8-digit season id for now, e.g. "20242025".
func CurrentSeason(now time.Time) string {
	y := SeasonStartYear(now)
	return fmt.Sprintf("%d%d", y, y+1)
}

// CurrentSeasonStartYear returns the single-year season id for now, e.g. "2024".
func CurrentSeasonStartYear(now time.Time) string {
	return strconv.Itoa(SeasonStartYear(now))
}

// ExpandSeason turns a start year ("2024") into an 8-digit season id
// ("20242025"). 8-digit input is returned unchanged.
func ExpandSeason(season string) (string, error) {
	switch len(season) {
	case 8:
		if _, err := strconv.Atoi(season); err != nil {
			return "", fmt.Errorf("invalid season %q", season)
		}
		return season, nil
	case 4:
		y, err := strconv.Atoi(season)
		if err != nil {
			return "", fmt.Errorf("invalid season %q", season)
		}
		return fmt.Sprintf("%d%d", y, y+1), nil
	default:
		return "", fmt.Errorf("invalid season %q", season)
	}
}

// SeasonYear returns the start year of an 8-digit or 4-digit season id.
func SeasonYear(season string) (string, error) {
	expanded, err := ExpandSeason(season)
	if err != nil {
		return "", err
	}
	return expanded[:4], nil
}
