package report

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"fuelog/internal/core"
	"fuelog/internal/labels"
)

// Unavailable is how a statistic without a defined value renders.
const Unavailable = "-"

// cssClass tags every element of the table so stylesheets can scope to it.
const cssClass = "month"

// UnitContext supplies the unit label strings for the measurement
// system in effect. The table never branches on which system that is.
type UnitContext interface {
	DistanceLabel() string
	DistanceRatioLabel() string
	LiquidVolumeLabel() string
	LiquidVolumeRatioLabel() string
	MileageLabel() string
}

// CurrencyFormatter renders a monetary amount for the active locale.
type CurrencyFormatter interface {
	Format(amount float64) string
}

// LabelProvider resolves symbolic keys to localized row labels.
type LabelProvider interface {
	Resolve(key labels.Key) string
}

// MonthTable is one month of refueling statistics rendered as an HTML
// table: a title header spanning both columns, then one label/value row
// per statistic in a fixed order. It is immutable once constructed.
type MonthTable struct {
	title    string
	labels   LabelProvider
	units    UnitContext
	currency CurrencyFormatter
	html     string
}

// NewMonthTable builds the table from the month's records and trip
// summary. All formatting happens here; HTML afterwards just returns
// the finished string.
func NewMonthTable(records []core.GasRecord, trip core.TripSummary, title string,
	lp LabelProvider, units UnitContext, cur CurrencyFormatter) *MonthTable {

	t := &MonthTable{
		title:    title,
		labels:   lp,
		units:    units,
		currency: cur,
	}
	t.html = t.render(Aggregate(records, trip))
	return t
}

// HTML returns the rendered table.
func (t *MonthTable) HTML() string {
	return t.html
}

type tableRow struct {
	label string
	value string
}

func (t *MonthTable) render(stats Stats) string {
	var b strings.Builder
	b.WriteString("<table" + property("class", cssClass) + ">\n")
	t.writeHeaderRow(&b, t.title, 2)
	for i, row := range t.rows(stats) {
		t.writeRow(&b, i, row)
	}
	b.WriteString("</table>\n")
	return b.String()
}

// rows assembles the statistic rows in their fixed display order.
func (t *MonthTable) rows(stats Stats) []tableRow {
	return []tableRow{
		{t.labels.Resolve(labels.StatsMileageAvg), t.mileage(stats.MileageAvg)},
		{t.labels.Resolve(labels.StatsMileageMin), t.mileage(stats.MileageMin)},
		{t.labels.Resolve(labels.StatsMileageMax), t.mileage(stats.MileageMax)},
		{t.labels.Resolve(labels.StatsDistance), fmt.Sprintf("%.2f %s", stats.Distance, t.units.DistanceLabel())},
		{t.labels.Resolve(labels.StatsCost), t.cost(stats)},
		{t.labels.Resolve(labels.StatsGallons), fmt.Sprintf("%.2f %s", stats.Gallons, t.units.LiquidVolumeLabel())},
		{t.labels.Resolve(labels.StatsPrice), t.price(stats.PricePerGallon)},
	}
}

func (t *MonthTable) mileage(m Metric) string {
	if !m.Valid {
		return Unavailable
	}
	return fmt.Sprintf("%.2f %s", m.Value, t.units.MileageLabel())
}

// cost renders the month total with the cost per distance unit in
// parentheses. A line break goes in front of every open parenthesis so
// the two parts do not run together in narrow layouts.
func (t *MonthTable) cost(stats Stats) string {
	value := fmt.Sprintf("%s (%s %s)",
		t.currency.Format(stats.Cost),
		t.currency.Format(stats.CostPerDistance),
		t.units.DistanceRatioLabel())
	return strings.ReplaceAll(value, "(", "<br/>(")
}

func (t *MonthTable) price(m Metric) string {
	if !m.Valid {
		return Unavailable
	}
	return fmt.Sprintf("%s %s", t.currency.Format(m.Value), t.units.LiquidVolumeRatioLabel())
}

func (t *MonthTable) writeHeaderRow(b *strings.Builder, cell string, colspan int) {
	b.WriteString("<tr" + property("class", cssClass) + ">\n")
	b.WriteString("  <th" + property("class", cssClass) + property("colspan", strconv.Itoa(colspan)) + ">" +
		template.HTMLEscapeString(cell) + "</th>\n")
	b.WriteString("</tr>\n")
}

// writeRow emits one label/value row. Odd numbered rows carry an extra
// class so stylesheets without :nth-child support can alternate colors.
func (t *MonthTable) writeRow(b *strings.Builder, index int, row tableRow) {
	class := cssClass
	if isAlternate(index) {
		class += " odd"
	}
	b.WriteString("<tr" + property("class", class) + ">\n")
	b.WriteString("  <td" + property("class", cssClass) + ">" + template.HTMLEscapeString(row.label) + "</td>\n")
	b.WriteString("  <td" + property("class", cssClass) + ">" + row.value + "</td>\n")
	b.WriteString("</tr>\n")
}

func isAlternate(rowIndex int) bool {
	return rowIndex%2 == 1
}

// property formats an HTML attribute assignment, leading space included.
func property(attribute, value string) string {
	return fmt.Sprintf(" %s=%q", attribute, value)
}
