package riot

import (
	"sort"
	"strings"
)

const (
	americas = "https://americas.api.riotgames.com"
	europe   = "https://europe.api.riotgames.com"
	asia     = "https://asia.api.riotgames.com"
	sea      = "https://sea.api.riotgames.com"
)

// regional routing serves account-v1 and match-v5
var regionalRouting = map[string]string{
	"NA":   americas,
	"BR":   americas,
	"LAN":  americas,
	"LAS":  americas,
	"OCE":  americas,
	"PBE":  americas,
	"EUW":  europe,
	"EUNE": europe,
	"TR":   europe,
	"RU":   europe,
	"KR":   asia,
	"JP":   asia,
	"PH":   sea,
	"SG":   sea,
	"TW":   sea,
	"TH":   sea,
	"VN":   sea,
}

// platform routing serves league-v4
var platformRouting = map[string]string{
	"NA":   "https://na1.api.riotgames.com",
	"BR":   "https://br1.api.riotgames.com",
	"LAN":  "https://la1.api.riotgames.com",
	"LAS":  "https://la2.api.riotgames.com",
	"OCE":  "https://oc1.api.riotgames.com",
	"EUW":  "https://euw1.api.riotgames.com",
	"EUNE": "https://eun1.api.riotgames.com",
	"TR":   "https://tr1.api.riotgames.com",
	"RU":   "https://ru.api.riotgames.com",
	"KR":   "https://kr.api.riotgames.com",
	"JP":   "https://jp1.api.riotgames.com",
	"PH":   "https://ph2.api.riotgames.com",
	"SG":   "https://sg2.api.riotgames.com",
	"TH":   "https://th2.api.riotgames.com",
	"TW":   "https://tw2.api.riotgames.com",
	"VN":   "https://vn2.api.riotgames.com",
}

func NormalizeRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}

func ValidRegion(region string) bool {
	_, ok := regionalRouting[NormalizeRegion(region)]
	return ok
}

// Regions lists the known region codes, sorted
func Regions() []string {
	output := make([]string, 0, len(regionalRouting))
	for region := range regionalRouting {
		output = append(output, region)
	}

	sort.Strings(output)

	return output
}

// SplitRiotID splits `Name#Tag`
func SplitRiotID(riotID string) (string, string, bool) {
	name, tag, ok := strings.Cut(strings.TrimSpace(riotID), "#")
	if !ok || len(name) == 0 || len(tag) == 0 {
		return "", "", false
	}

	return name, tag, true
}
