package analytics

import (
	"sort"
	"time"
)

const (
	RecentLimit    = 5
	SeriesDays     = 7
	TopCompagnies  = 7
	OtherCompagnie = "Autre"
)

var statusLabels = []struct {
	statut string
	label  string
}{
	{"en_attente", "En attente"},
	{"confirmee", "Confirmée"},
	{"annulee", "Annulée"},
	{"expiree", "Expirée"},
}

// ApplyStatusCounts fills the per-statut fields and the reservation total
func ApplyStatusCounts(c *Counts, rows []StatusCount) {
	for _, r := range rows {
		c.Reservations += r.Total
		switch r.Statut {
		case "en_attente":
			c.EnAttente = r.Total
		case "confirmee":
			c.Confirmees = r.Total
		case "annulee":
			c.Annulees = r.Total
		case "expiree":
			c.Expirees = r.Total
		}
	}
}

// StatusDistribution lists statuts in lifecycle order, omitting zero entries
func StatusDistribution(c Counts) []StatusShare {
	values := map[string]int64{
		"en_attente": c.EnAttente,
		"confirmee":  c.Confirmees,
		"annulee":    c.Annulees,
		"expiree":    c.Expirees,
	}
	out := []StatusShare{}
	for _, s := range statusLabels {
		if v := values[s.statut]; v > 0 {
			out = append(out, StatusShare{Statut: s.statut, Name: s.label, Value: v})
		}
	}
	return out
}

// DailySeries buckets rows into the `days` calendar days ending today in loc.
// Revenue only counts approved payments.
func DailySeries(rows []ActivityRow, now time.Time, loc *time.Location, days int) []DailyPoint {
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	points := make([]DailyPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		points[i] = DailyPoint{Date: d.Format("2006-01-02"), Label: d.Format("02/01")}
		index[points[i].Date] = i
	}

	for _, r := range rows {
		i, ok := index[r.CreatedAt.In(loc).Format("2006-01-02")]
		if !ok {
			continue
		}
		points[i].Reservations++
		if r.Statut == "confirmee" {
			points[i].Confirmees++
		}
		if r.StatutPaiement == "approved" {
			points[i].Revenue += r.MontantTotal
		}
	}
	return points
}

// FoldCompagnies merges unnamed rows into "Autre", sorts by count and keeps the top n
func FoldCompagnies(rows []CompagnieShare, n int) []CompagnieShare {
	merged := map[string]int64{}
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = OtherCompagnie
		}
		merged[name] += r.Count
	}

	out := make([]CompagnieShare, 0, len(merged))
	for name, count := range merged {
		out = append(out, CompagnieShare{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
