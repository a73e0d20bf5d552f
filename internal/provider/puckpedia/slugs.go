package puckpedia

import "sort"

// TeamSlugs maps team codes to their URL slug on the site.
var TeamSlugs = map[string]string{
	"ANA": "anaheim-ducks",
	"BOS": "boston-bruins",
	"BUF": "buffalo-sabres",
	"CAR": "carolina-hurricanes",
	"CBJ": "columbus-blue-jackets",
	"CGY": "calgary-flames",
	"CHI": "chicago-blackhawks",
	"COL": "colorado-avalanche",
	"DAL": "dallas-stars",
	"DET": "detroit-red-wings",
	"EDM": "edmonton-oilers",
	"FLA": "florida-panthers",
	"LAK": "los-angeles-kings",
	"MIN": "minnesota-wild",
	"MTL": "montreal-canadiens",
	"NJD": "new-jersey-devils",
	"NSH": "nashville-predators",
	"NYI": "new-york-islanders",
	"NYR": "new-york-rangers",
	"OTT": "ottawa-senators",
	"PHI": "philadelphia-flyers",
	"PIT": "pittsburgh-penguins",
	"SEA": "seattle-kraken",
	"SJS": "san-jose-sharks",
	"STL": "st-louis-blues",
	"TBL": "tampa-bay-lightning",
	"TOR": "toronto-maple-leafs",
	"UTA": "utah-hockey-club",
	"VAN": "vancouver-canucks",
	"VGK": "vegas-golden-knights",
	"WPG": "winnipeg-jets",
	"WSH": "washington-capitals",
}

// Teams returns the codes in TeamSlugs in sorted order.
func Teams() []string {
	codes := make([]string, 0, len(TeamSlugs))
	for code := range TeamSlugs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
