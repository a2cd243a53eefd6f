package alphavantage

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jlenormand/equity-metrics/internal/model"
)

const dateLayout = "2006-01-02"

// toPriceBars converts a daily response into bars sorted newest first.
// Bar dates are parsed to real calendar dates; a malformed date or value
// fails the whole series rather than silently dropping bars.
func toPriceBars(resp *DailyResponse) ([]model.PriceBar, error) {
	bars := make([]model.PriceBar, 0, len(resp.TimeSeries))

	for dateStr, day := range resp.TimeSeries {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse bar date %q: %w", dateStr, err)
		}

		open, err := parsePrice("open", day.Open)
		if err != nil {
			return nil, err
		}
		high, err := parsePrice("high", day.High)
		if err != nil {
			return nil, err
		}
		low, err := parsePrice("low", day.Low)
		if err != nil {
			return nil, err
		}
		closePrice, err := parsePrice("close", day.Close)
		if err != nil {
			return nil, err
		}
		volume, err := strconv.ParseInt(day.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse volume %q: %w", day.Volume, err)
		}

		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.After(bars[j].Date)
	})

	return bars, nil
}

func parsePrice(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return f, nil
}
