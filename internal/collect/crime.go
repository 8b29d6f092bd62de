package collect

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sunbelt-research/market-cli/internal/geo"
	"github.com/sunbelt-research/market-cli/internal/model"
	"github.com/sunbelt-research/market-cli/pkg/citydata"
)

// Crime cells look like "1,234 (567.8)": an absolute count followed by an
// optional per-100k rate in parentheses.
var (
	crimeCountRe = regexp.MustCompile(`^([\d,]+)`)
	crimeRateRe  = regexp.MustCompile(`\(([^)]+)\)`)

	countPrinter = message.NewPrinter(language.English)
)

// crimeIndexNoise is the directory-site branding row dropped from city
// tables; the real index arrives via the table footer.
const crimeIndexNoise = "city-data.com crime index"

// CrimeResult carries scraped crime tables plus the requested cities that no
// directory row matched.
type CrimeResult struct {
	Records   []model.CrimeRecord
	Unmatched []string
}

// CrimeCollector scrapes city crime tables from the city-data directory, one
// state directory page plus one page per matched city.
type CrimeCollector struct {
	client *citydata.Client
	states *geo.StateTable
}

// NewCrimeCollector returns a collector backed by the given city-data client
// and state table.
func NewCrimeCollector(client *citydata.Client, states *geo.StateTable) *CrimeCollector {
	return &CrimeCollector{client: client, states: states}
}

// Collect scrapes crime tables for the requested cities, grouped by state so
// each state directory is fetched once. Directory rows match a request only
// on exact city name (case-insensitive, state suffix stripped); requested
// cities without a match are reported in Unmatched rather than guessed at. A
// failed state directory marks all its cities unmatched, and a failed city
// page skips just that city. Only context cancellation aborts the sweep.
//
// Record city keys keep the directory's display form ("Orlando, FL") so the
// reconciliation step can see both the city and its state.
func (c *CrimeCollector) Collect(ctx context.Context, cities []model.CityQuery) (*CrimeResult, error) {
	log := zap.L().With(zap.String("component", "crime"))

	var stateOrder []string
	byState := make(map[string][]model.CityQuery)
	for _, query := range cities {
		if _, ok := byState[query.State]; !ok {
			stateOrder = append(stateOrder, query.State)
		}
		byState[query.State] = append(byState[query.State], query)
	}

	result := &CrimeResult{}
	for _, state := range stateOrder {
		queries := byState[state]
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "crime: collection aborted")
		}

		stateName, known := c.states.URLName(state)
		if !known {
			log.Warn("unknown state abbreviation", zap.String("state", state))
			markUnmatched(result, queries)
			continue
		}

		directory, err := c.client.StateDirectory(ctx, stateName)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(err, "crime: collection aborted")
			}
			log.Warn("state directory fetch failed",
				zap.String("state", state), zap.Error(err))
			markUnmatched(result, queries)
			continue
		}

		entries := directoryEntries(directory)
		if entries == nil {
			log.Warn("no city table on state directory", zap.String("state", state))
			markUnmatched(result, queries)
			continue
		}

		matched, unmatched := matchDirectory(entries, queries, state)
		result.Unmatched = append(result.Unmatched, unmatched...)

		for _, entry := range matched {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "crime: collection aborted")
			}
			page, err := c.client.Page(ctx, entry.href)
			if err != nil {
				if ctx.Err() != nil {
					return nil, eris.Wrap(err, "crime: collection aborted")
				}
				log.Warn("city page fetch failed, skipping city",
					zap.String("city", entry.name), zap.Error(err))
				continue
			}

			records := parseCrimeTable(page, entry.name)
			if len(records) == 0 {
				log.Warn("no crime table on city page", zap.String("city", entry.name))
				continue
			}
			log.Info("scraped crime table",
				zap.String("city", entry.name),
				zap.Int("categories", len(records)))
			result.Records = append(result.Records, records...)
		}
	}

	result.Records = dedupeCrimeRecords(result.Records)
	return result, nil
}

type directoryEntry struct {
	name string
	href string
}

// directoryEntries pulls the city rows out of a state directory page. A nil
// return means the page had no recognizable city table.
func directoryEntries(doc *goquery.Document) []directoryEntry {
	table := doc.Find("table.tabBlue.tblsort.tblsticky").First()
	if table.Length() == 0 {
		return nil
	}

	entries := []directoryEntry{}
	table.Find("tr.rB").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		link := cells.Eq(1).Find("a").First()
		href, ok := link.Attr("href")
		name := strings.TrimSpace(link.Text())
		if !ok || name == "" {
			return
		}
		entries = append(entries, directoryEntry{name: name, href: href})
	})
	return entries
}

// matchDirectory pairs directory rows with requested cities. A row matches
// when its display name, minus the ", ST" suffix, equals a requested city
// ignoring case. Matches keep directory order; unmatched requests keep input
// order.
func matchDirectory(entries []directoryEntry, queries []model.CityQuery, state string) ([]directoryEntry, []string) {
	found := make([]bool, len(queries))
	var matched []directoryEntry
	for _, entry := range entries {
		cleaned := strings.ToLower(strings.TrimSpace(
			strings.ReplaceAll(entry.name, ", "+state, "")))
		for i, query := range queries {
			if cleaned == strings.ToLower(query.City) {
				matched = append(matched, entry)
				found[i] = true
				break
			}
		}
	}

	var unmatched []string
	for i, query := range queries {
		if !found[i] {
			unmatched = append(unmatched, query.Label())
		}
	}
	return matched, unmatched
}

// parseCrimeTable extracts one record per category row from a city page's
// crime table, keyed by the directory display name. Body rows carry
// reformatted "count (rate)" values; the footer becomes the Crime Index row
// with its cells kept verbatim, added only when no body row already claimed
// that category. Every record for the city ends up with the same year keys,
// padding gaps with the not-found marker.
func parseCrimeTable(doc *goquery.Document, city string) []model.CrimeRecord {
	table := doc.Find("table.table.tabBlue.tblsort.tblsticky.sortable").First()
	if table.Length() == 0 {
		return nil
	}

	var headers []string
	table.Find("thead tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})

	var records []model.CrimeRecord
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		category := strings.TrimSpace(cells.Eq(0).Find("b").First().Text())
		if category == "" || strings.Contains(strings.ToLower(category), crimeIndexNoise) {
			return
		}

		years := make(map[string]string)
		for i := 1; i < cells.Length() && i < len(headers); i++ {
			year := headers[i]
			if !allDigits(year) {
				continue
			}
			years[year] = formatCrimeCell(strings.TrimSpace(cells.Eq(i).Text()))
		}
		records = append(records, model.CrimeRecord{City: city, Category: category, Years: years})
	})

	footer := table.Find("tfoot tr").First().Find("td")
	if footer.Length() >= 2 && !hasCrimeIndex(records) {
		years := make(map[string]string)
		for i := 1; i < footer.Length() && i < len(headers); i++ {
			year := headers[i]
			if !allDigits(year) {
				continue
			}
			value := strings.TrimSpace(footer.Eq(i).Text())
			if value == "" {
				value = model.CrimeValueNotFound
			}
			years[year] = value
		}
		records = append(records, model.CrimeRecord{
			City:     city,
			Category: model.CrimeIndexCategory,
			Years:    years,
		})
	}

	fillMissingYears(records)
	return records
}

// formatCrimeCell normalizes a body cell to "count" or "count (rate)" form.
// The count is the leading digit run with separators re-applied; absent or
// unreadable counts become zero. An empty cell is plain "0".
func formatCrimeCell(text string) string {
	if text == "" {
		return "0"
	}
	count := 0
	if m := crimeCountRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			count = n
		}
	}
	formatted := countPrinter.Sprintf("%d", count)
	if m := crimeRateRe.FindStringSubmatch(text); m != nil {
		formatted += " (" + m[1] + ")"
	}
	return formatted
}

func hasCrimeIndex(records []model.CrimeRecord) bool {
	for _, rec := range records {
		if rec.Category == model.CrimeIndexCategory {
			return true
		}
	}
	return false
}

// fillMissingYears pads each record up to the union of year keys seen across
// the city's rows, so short table rows still line up column-wise.
func fillMissingYears(records []model.CrimeRecord) {
	union := make(map[string]struct{})
	for _, rec := range records {
		for year := range rec.Years {
			union[year] = struct{}{}
		}
	}
	for _, rec := range records {
		for year := range union {
			if _, ok := rec.Years[year]; !ok {
				rec.Years[year] = model.CrimeValueNotFound
			}
		}
	}
}

// dedupeCrimeRecords keeps only the last record for each (city, category)
// pair, preserving the surviving rows' relative order.
func dedupeCrimeRecords(records []model.CrimeRecord) []model.CrimeRecord {
	type pair struct{ city, category string }
	seen := make(map[pair]struct{}, len(records))
	kept := make([]model.CrimeRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		key := pair{records[i].City, records[i].Category}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, records[i])
	}
	for left, right := 0, len(kept)-1; left < right; left, right = left+1, right-1 {
		kept[left], kept[right] = kept[right], kept[left]
	}
	return kept
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func markUnmatched(result *CrimeResult, queries []model.CityQuery) {
	for _, query := range queries {
		result.Unmatched = append(result.Unmatched, query.Label())
	}
}
