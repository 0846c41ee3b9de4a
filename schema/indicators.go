package schema

// Indicator is a World Bank indicator code with its human-readable label.
type Indicator struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Indicator codes referenced directly by the scoring engine.
const (
	GDPIndicator          = "NY.GDP.MKTP.CD"
	PopulationIndicator   = "SP.POP.TOTL"
	ImportsIndicator      = "NE.IMP.GNFS.CD"
	MerchImportsIndicator = "TM.VAL.MRCH.CD.WT"
	TariffIndicator       = "TM.TAX.MRCH.WM.AR.ZS"
	LogisticsIndicator    = "LP.LPI.OVRL.XQ"
)

var macroIndicators = [...]Indicator{
	{Code: GDPIndicator, Label: "GDP (current US$)"},
	{Code: PopulationIndicator, Label: "Population, total"},
}

var tradeIndicators = [...]Indicator{
	{Code: ImportsIndicator, Label: "Imports of goods and services (current US$)"},
	{Code: MerchImportsIndicator, Label: "Merchandise imports (current US$)"},
}

var policyIndicators = [...]Indicator{
	{Code: TariffIndicator, Label: "Tariff rate, applied, weighted mean, all products (%)"},
	{Code: LogisticsIndicator, Label: "Logistics performance index (overall)"},
}

// MacroIndicators returns the macro indicators fetched for country targets.
func MacroIndicators() []Indicator {
	out := make([]Indicator, len(macroIndicators))
	copy(out, macroIndicators[:])
	return out
}

// TradeIndicators returns the tracked trade indicators in reporting order.
func TradeIndicators() []Indicator {
	out := make([]Indicator, len(tradeIndicators))
	copy(out, tradeIndicators[:])
	return out
}

// PolicyIndicators returns the tracked policy indicators in reporting order.
func PolicyIndicators() []Indicator {
	out := make([]Indicator, len(policyIndicators))
	copy(out, policyIndicators[:])
	return out
}

// hsCategory maps a product category keyword to HS heading codes.
type hsCategory struct {
	key   string
	codes []string
}

var hsCategories = [...]hsCategory{
	{key: "crumb_rubber", codes: []string{"4004"}},
	{key: "rubber_granules", codes: []string{"4004"}},
	{key: "recycled_rubber", codes: []string{"4003", "4004"}},
	{key: "reclaimed_rubber", codes: []string{"4003"}},
	{key: "rubber_powder", codes: []string{"4004"}},
	{key: "rubber_tiles", codes: []string{"4016"}},
	{key: "rubber_mats", codes: []string{"4016"}},
	{key: "rubber_flooring", codes: []string{"4016"}},
	{key: "retreaded_tyres", codes: []string{"4012"}},
	{key: "used_tyres", codes: []string{"4012"}},
	{key: "tyres", codes: []string{"4011"}},
	{key: "tires", codes: []string{"4011"}},
	{key: "synthetic_rubber", codes: []string{"4002"}},
	{key: "natural_rubber", codes: []string{"4001"}},
}

// HSCategory is an exported view of one HS code table entry.
type HSCategory struct {
	Key   string   `json:"key"`
	Codes []string `json:"codes"`
}

// HSCategories returns a copy of the static HS category table in lookup order.
func HSCategories() []HSCategory {
	out := make([]HSCategory, 0, len(hsCategories))
	for _, c := range hsCategories {
		out = append(out, HSCategory{Key: c.key, Codes: append([]string(nil), c.codes...)})
	}
	return out
}
