package transform

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/jlenormand/equity-metrics/internal/model"
)

// pct scales a fraction to percent with the same runtime arithmetic the
// engine uses.
func pct(v float64) float64 { return v * 100 }

func TestApplyFundamentals(t *testing.T) {
	t.Run("full snapshot", func(t *testing.T) {
		snap := model.FundamentalsSnapshot{
			"MarketCapitalization": "3745000000000",
			"PERatio":              "52.4",
			"EPS":                  "2.58",
			"DilutedEPSTTM":        "2.54",
			"RevenueTTM":           "130497000000",
			"GrossProfitTTM":       "97858000000",
			"DividendYield":        "0.0003",
			"ProfitMargin":         "0.558",
			"OperatingMarginTTM":   "0.6142",
			"ReturnOnAssetsTTM":    "0.573",
			"ReturnOnEquityTTM":    "1.1946",
		}

		var rec model.MetricsRecord
		applyFundamentals(&rec, snap)

		checks := []struct {
			name string
			got  null.Float
			want float64
		}{
			{"MarketCap", rec.MarketCap, 3745000000000},
			{"PERatio", rec.PERatio, 52.4},
			{"EPS", rec.EPS, 2.58},
			{"DilutedEPSTTM", rec.DilutedEPSTTM, 2.54},
			{"RevenueTTM", rec.RevenueTTM, 130497000000},
			{"GrossProfitTTM", rec.GrossProfitTTM, 97858000000},
			{"DividendYieldPct", rec.DividendYieldPct, pct(0.0003)},
			{"ProfitMarginPct", rec.ProfitMarginPct, pct(0.558)},
			{"OperatingMarginPct", rec.OperatingMarginPct, pct(0.6142)},
			{"ReturnOnAssetsPct", rec.ReturnOnAssetsPct, pct(0.573)},
			{"ReturnOnEquityPct", rec.ReturnOnEquityPct, pct(1.1946)},
		}
		for _, c := range checks {
			if !c.got.Valid {
				t.Errorf("%s is null, want %v", c.name, c.want)
				continue
			}
			if c.got.Float64 != c.want {
				t.Errorf("%s = %v, want %v", c.name, c.got.Float64, c.want)
			}
		}
	})

	t.Run("partial snapshot", func(t *testing.T) {
		var rec model.MetricsRecord
		applyFundamentals(&rec, model.FundamentalsSnapshot{"PERatio": "30.1"})

		if !rec.PERatio.Valid || rec.PERatio.Float64 != 30.1 {
			t.Errorf("PERatio = %+v, want 30.1", rec.PERatio)
		}
		if rec.MarketCap.Valid {
			t.Error("MarketCap set without a source field, want null")
		}
		if rec.DividendYieldPct.Valid {
			t.Error("DividendYieldPct set without a source field, want null")
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		var rec model.MetricsRecord
		applyFundamentals(&rec, nil)

		if rec.PERatio.Valid || rec.MarketCap.Valid {
			t.Error("fields set from nil snapshot, want all null")
		}
	})
}

func TestParseFundamental(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		scale float64
		want  null.Float
	}{
		{"plain value", "52.4", 1, null.FloatFrom(52.4)},
		{"scaled value", "0.25", 100, null.FloatFrom(25)},
		{"negative", "-0.012", 1, null.FloatFrom(-0.012)},
		{"whitespace", " 7.5 ", 1, null.FloatFrom(7.5)},
		{"zero", "0", 1, null.FloatFrom(0)},
		{"empty", "", 1, null.Float{}},
		{"none sentinel", "None", 1, null.Float{}},
		{"dash sentinel", "-", 1, null.Float{}},
		{"garbage", "n/a", 1, null.Float{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFundamental(tt.raw, tt.scale); got != tt.want {
				t.Errorf("parseFundamental(%q, %v) = %+v, want %+v", tt.raw, tt.scale, got, tt.want)
			}
		})
	}
}
