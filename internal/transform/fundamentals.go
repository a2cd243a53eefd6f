package transform

import (
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/jlenormand/equity-metrics/internal/model"
)

// fundamentalFields maps overview keys onto record fields. Fraction-unit
// ratios carry scale 100 so they land as percentages; the rest pass through
// in their natural unit.
var fundamentalFields = []struct {
	key    string
	scale  float64
	assign func(*model.MetricsRecord, null.Float)
}{
	{"MarketCapitalization", 1, func(r *model.MetricsRecord, v null.Float) { r.MarketCap = v }},
	{"PERatio", 1, func(r *model.MetricsRecord, v null.Float) { r.PERatio = v }},
	{"EPS", 1, func(r *model.MetricsRecord, v null.Float) { r.EPS = v }},
	{"DilutedEPSTTM", 1, func(r *model.MetricsRecord, v null.Float) { r.DilutedEPSTTM = v }},
	{"RevenueTTM", 1, func(r *model.MetricsRecord, v null.Float) { r.RevenueTTM = v }},
	{"GrossProfitTTM", 1, func(r *model.MetricsRecord, v null.Float) { r.GrossProfitTTM = v }},
	{"DividendYield", 100, func(r *model.MetricsRecord, v null.Float) { r.DividendYieldPct = v }},
	{"ProfitMargin", 100, func(r *model.MetricsRecord, v null.Float) { r.ProfitMarginPct = v }},
	{"OperatingMarginTTM", 100, func(r *model.MetricsRecord, v null.Float) { r.OperatingMarginPct = v }},
	{"ReturnOnAssetsTTM", 100, func(r *model.MetricsRecord, v null.Float) { r.ReturnOnAssetsPct = v }},
	{"ReturnOnEquityTTM", 100, func(r *model.MetricsRecord, v null.Float) { r.ReturnOnEquityPct = v }},
}

// applyFundamentals parses the overview snapshot onto the record. A field
// that is absent, empty, "None", "-", or unparseable stays null; one bad
// field never affects the others.
func applyFundamentals(rec *model.MetricsRecord, snap model.FundamentalsSnapshot) {
	for _, f := range fundamentalFields {
		f.assign(rec, parseFundamental(snap[f.key], f.scale))
	}
}

func parseFundamental(raw string, scale float64) null.Float {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "None" || raw == "-" {
		return null.Float{}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return null.Float{}
	}

	return null.FloatFrom(v * scale)
}
