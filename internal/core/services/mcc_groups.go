package services

import "strconv"

type mccRange struct {
	from, to    int
	description string
}

// Coarse MCC groups surfaced as hints in rationale and model prompts.
var mccGroups = []mccRange{
	{3000, 3299, "airlines"},
	{3351, 3500, "car rental"},
	{3501, 3999, "lodging"},
	{4111, 4131, "local and commuter transport"},
	{4121, 4121, "taxis and rideshare"},
	{4215, 4215, "courier services"},
	{4511, 4511, "airlines"},
	{4812, 4816, "telecommunications and internet services"},
	{4899, 4899, "cable and streaming services"},
	{4900, 4900, "utilities"},
	{5045, 5045, "computers and peripherals"},
	{5111, 5111, "office supplies wholesale"},
	{5200, 5299, "home supply and hardware"},
	{5411, 5411, "grocery stores"},
	{5541, 5542, "fuel"},
	{5732, 5734, "electronics and software"},
	{5811, 5814, "eating places and restaurants"},
	{5912, 5912, "pharmacies"},
	{5943, 5943, "office and stationery supplies"},
	{6011, 6011, "cash withdrawal"},
	{7011, 7011, "lodging"},
	{7311, 7311, "advertising services"},
	{7372, 7372, "computer programming and data processing"},
	{7399, 7399, "business services"},
	{8111, 8111, "legal services"},
	{8931, 8931, "accounting and bookkeeping"},
	{9311, 9311, "tax payments"},
}

// MCCGroupDescription returns a short description of the group an MCC belongs to.
// The narrowest matching range wins.
func MCCGroupDescription(mcc string) (string, bool) {
	code, err := strconv.Atoi(mcc)
	if err != nil {
		return "", false
	}
	best := -1
	for i, g := range mccGroups {
		if code < g.from || code > g.to {
			continue
		}
		if best < 0 || (g.to-g.from) < (mccGroups[best].to-mccGroups[best].from) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return mccGroups[best].description, true
}
