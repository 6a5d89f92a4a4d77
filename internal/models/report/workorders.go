package report

import (
	"crmTracker/internal/models/workorder"
	"sort"
	"strings"
)

// AllTypes в фильтре означает любой тип работ
const AllTypes = "Toate"

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ProjectTypeFilter struct {
	Type     string
	Client   string
	Location string
}

func (f ProjectTypeFilter) match(w *workorder.WorkOrder) bool {
	if t := strings.TrimSpace(f.Type); t != "" && t != AllTypes && w.TypeLabel() != t {
		return false
	}
	if c := strings.TrimSpace(f.Client); c != "" && w.ClientLabel() != c {
		return false
	}
	if l := strings.TrimSpace(f.Location); l != "" && w.LocationLabel() != l {
		return false
	}
	return true
}

type ProjectTypes struct {
	Total     int            `json:"total"`
	ByType    map[string]int `json:"by_type"`
	ByStatus  map[string]int `json:"by_status"`
	Clients   []NamedCount   `json:"clients"`
	Locations []NamedCount   `json:"locations"`
}

// BuildProjectTypes считает работы по типу, статусу, клиенту и локации.
// Клиенты и локации отсортированы по убыванию количества.
func BuildProjectTypes(orders []*workorder.WorkOrder, filter ProjectTypeFilter) ProjectTypes {
	res := ProjectTypes{
		ByType:   map[string]int{},
		ByStatus: map[string]int{},
	}
	clients := map[string]int{}
	locations := map[string]int{}

	for _, w := range orders {
		if !filter.match(w) {
			continue
		}
		res.Total++
		res.ByType[w.TypeLabel()]++
		res.ByStatus[w.StatusLabel()]++
		clients[w.ClientLabel()]++
		locations[w.LocationLabel()]++
	}

	res.Clients = sortedCounts(clients)
	res.Locations = sortedCounts(locations)
	return res
}

func sortedCounts(counts map[string]int) []NamedCount {
	out := make([]NamedCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NamedCount{Name: name, Count: n})
	}
	// при равенстве - по имени
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type MonthValue struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

type ClientSales struct {
	Client string  `json:"client"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

type Sales struct {
	Year          int           `json:"year"`
	IncludeVAT    bool          `json:"include_vat"`
	Monthly       [12]float64   `json:"monthly"`
	Total         float64       `json:"total"`
	MonthlyAvg    float64       `json:"monthly_avg"`
	BestMonth     MonthValue    `json:"best_month"`
	WorstMonth    MonthValue    `json:"worst_month"`
	ClientDetails []ClientSales `json:"client_details"`
}

// BuildSales суммирует принятые оферты за год по месяцам и клиентам.
// Лучший и худший месяц - первые по порядку при равных суммах.
func BuildSales(orders []*workorder.WorkOrder, year int, includeVAT bool) Sales {
	res := Sales{Year: year, IncludeVAT: includeVAT, ClientDetails: []ClientSales{}}
	details := make(map[string]int)

	for _, w := range orders {
		if !w.Accepted() {
			continue
		}
		at := w.SaleDate()
		if at.IsZero() || at.UTC().Year() != year {
			continue
		}

		value := w.OfferTotal(includeVAT)
		res.Monthly[at.UTC().Month()-1] += value
		res.Total += value

		name := strings.TrimSpace(w.Client)
		if name == "" {
			name = "Necunoscut"
		}
		idx, ok := details[name]
		if !ok {
			idx = len(res.ClientDetails)
			details[name] = idx
			res.ClientDetails = append(res.ClientDetails, ClientSales{Client: name})
		}
		res.ClientDetails[idx].Total += value
		res.ClientDetails[idx].Count++
	}

	res.MonthlyAvg = res.Total / 12
	for i, v := range res.Monthly {
		if v > res.Monthly[res.BestMonth.Index] {
			res.BestMonth.Index = i
		}
		if v < res.Monthly[res.WorstMonth.Index] {
			res.WorstMonth.Index = i
		}
	}
	res.BestMonth.Value = res.Monthly[res.BestMonth.Index]
	res.WorstMonth.Value = res.Monthly[res.WorstMonth.Index]

	sort.SliceStable(res.ClientDetails, func(i, j int) bool {
		return res.ClientDetails[i].Total > res.ClientDetails[j].Total
	})
	return res
}
