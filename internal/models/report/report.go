package report

import (
	"crmTracker/internal/models/client"
	"sort"
	"time"
)

// SourceLabels - подписи источников в отчётах
var SourceLabels = map[client.Source]string{
	client.SourceReferral:      "Recomandare",
	client.SourceOrganicSEO:    "Organic (SEO)",
	client.SourceOrganicSocial: "Organic (Social Media)",
	client.SourcePaidCampaign:  "Campanii de marketing plătit",
}

type ClientAcquisition struct {
	Client    string   `json:"client"`
	Sources   []string `json:"sources"`
	TotalCost float64  `json:"total_cost"`
	Entries   int      `json:"entries"`
}

type Acquisition struct {
	Year              int                   `json:"year"`
	Counts            map[client.Source]int `json:"counts"`
	TotalCount        int                   `json:"total_count"`
	MonthlyCounts     [12]int               `json:"monthly_counts"`
	PaidTotalCost     float64               `json:"paid_total_cost"`
	PaidCount         int                   `json:"paid_count"`
	PaidCostPerClient float64               `json:"paid_cost_per_client"`
	ClientDetails     []ClientAcquisition   `json:"client_details"`
}

type ClientCost struct {
	Client    string  `json:"client"`
	Total     float64 `json:"total"`
	Campaigns int     `json:"campaigns"`
}

type MarketingCosts struct {
	Year          int          `json:"year"`
	Total         float64      `json:"total"`
	Monthly       [12]float64  `json:"monthly"`
	ClientDetails []ClientCost `json:"client_details"`
}

// BuildAcquisition сворачивает записи о привлечении клиентов за год.
// Месяц считается для любой записи года, источник - только для известных.
// Клиенты без записей учитываются по устаревшим плоским полям.
func BuildAcquisition(clients []*client.Client, year int) Acquisition {
	res := Acquisition{
		Year:          year,
		Counts:        make(map[client.Source]int, len(client.Sources)),
		ClientDetails: []ClientAcquisition{},
	}
	for _, src := range client.Sources {
		res.Counts[src] = 0
	}

	// детали ключуются по имени клиента, одноимённые клиенты перезаписывают друг друга
	details := make(map[string]int)

	for _, c := range clients {
		seen := make(map[string]bool)
		var sources []string
		var clientCost float64
		var clientEntries int

		count := func(src client.Source, cost float64, at time.Time) {
			if label, ok := SourceLabels[src]; ok {
				res.Counts[src]++
				if !seen[label] {
					seen[label] = true
					sources = append(sources, label)
				}
				clientEntries++
			}
			res.MonthlyCounts[at.Month()-1]++
			if src == client.SourcePaidCampaign {
				if cost > 0 {
					res.PaidTotalCost += cost
					clientCost += cost
				}
				res.PaidCount++
			}
		}

		if len(c.AcquisitionEntries) > 0 {
			for _, e := range c.AcquisitionEntries {
				at := c.EntryDate(e)
				if at == nil || at.UTC().Year() != year {
					continue
				}
				count(e.Source, e.Cost, at.UTC())
			}
		} else {
			created := c.FallbackDate()
			if created == nil || created.UTC().Year() != year {
				continue
			}
			var src client.Source
			if c.AcquisitionSource != nil {
				src = *c.AcquisitionSource
			}
			var cost float64
			if c.CampaignCost != nil {
				cost = *c.CampaignCost
			}
			count(src, cost, created.UTC())
		}

		if len(sources) == 0 {
			continue
		}
		row := ClientAcquisition{
			Client:    c.DisplayName(),
			Sources:   sources,
			TotalCost: clientCost,
			Entries:   clientEntries,
		}
		if idx, ok := details[row.Client]; ok {
			res.ClientDetails[idx] = row
			continue
		}
		details[row.Client] = len(res.ClientDetails)
		res.ClientDetails = append(res.ClientDetails, row)
	}

	for _, n := range res.Counts {
		res.TotalCount += n
	}
	if res.PaidCount > 0 {
		res.PaidCostPerClient = res.PaidTotalCost / float64(res.PaidCount)
	}

	sort.SliceStable(res.ClientDetails, func(i, j int) bool {
		a, b := res.ClientDetails[i], res.ClientDetails[j]
		if a.TotalCost != b.TotalCost {
			return a.TotalCost > b.TotalCost
		}
		return a.Entries > b.Entries
	})
	return res
}

// BuildMarketingCosts считает только платные кампании с положительной стоимостью
func BuildMarketingCosts(clients []*client.Client, year int) MarketingCosts {
	res := MarketingCosts{Year: year, ClientDetails: []ClientCost{}}
	details := make(map[string]int)

	for _, c := range clients {
		var clientTotal float64
		var campaigns int

		add := func(cost float64, at time.Time) {
			res.Monthly[at.Month()-1] += cost
			res.Total += cost
			clientTotal += cost
			campaigns++
		}

		if len(c.AcquisitionEntries) > 0 {
			for _, e := range c.AcquisitionEntries {
				if e.Source != client.SourcePaidCampaign || !(e.Cost > 0) {
					continue
				}
				at := c.EntryDate(e)
				if at == nil || at.UTC().Year() != year {
					continue
				}
				add(e.Cost, at.UTC())
			}
		} else if c.AcquisitionSource != nil && *c.AcquisitionSource == client.SourcePaidCampaign &&
			c.CampaignCost != nil && *c.CampaignCost > 0 {
			if created := c.FallbackDate(); created != nil && created.UTC().Year() == year {
				add(*c.CampaignCost, created.UTC())
			}
		}

		if !(clientTotal > 0) {
			continue
		}
		row := ClientCost{Client: c.DisplayName(), Total: clientTotal, Campaigns: campaigns}
		if idx, ok := details[row.Client]; ok {
			res.ClientDetails[idx] = row
			continue
		}
		details[row.Client] = len(res.ClientDetails)
		res.ClientDetails = append(res.ClientDetails, row)
	}

	sort.SliceStable(res.ClientDetails, func(i, j int) bool {
		return res.ClientDetails[i].Total > res.ClientDetails[j].Total
	})
	return res
}
