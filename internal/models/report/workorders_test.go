package report_test

import (
	"crmTracker/internal/models/report"
	"crmTracker/internal/models/workorder"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureWorkOrders() []*workorder.WorkOrder {
	return []*workorder.WorkOrder{
		{Type: "Instalare", Status: "Finalizat", Client: "Alfa", Location: "Cluj"},
		{Type: "Instalare", Status: "În lucru", Client: "Alfa", Location: "Cluj"},
		{Type: "Service", Status: "Finalizat", Client: "Beta", Location: "Iași"},
		{Type: " ", Status: "", Client: "", Location: "Cluj"},
		{Type: "Service", Status: "Finalizat", Client: "Alfa", Location: "Arad"},
	}
}

func TestBuildProjectTypes(t *testing.T) {
	tests := []struct {
		name      string
		filter    report.ProjectTypeFilter
		total     int
		byType    map[string]int
		clients   []report.NamedCount
		locations []report.NamedCount
	}{
		{
			name:   "no filter",
			filter: report.ProjectTypeFilter{},
			total:  5,
			byType: map[string]int{"Instalare": 2, "Service": 2, workorder.UnknownType: 1},
			clients: []report.NamedCount{
				{Name: "Alfa", Count: 3}, {Name: "Beta", Count: 1}, {Name: workorder.UnknownClient, Count: 1},
			},
			locations: []report.NamedCount{
				{Name: "Cluj", Count: 3}, {Name: "Arad", Count: 1}, {Name: "Iași", Count: 1},
			},
		},
		{
			name:      "all types keyword",
			filter:    report.ProjectTypeFilter{Type: report.AllTypes, Location: "Arad"},
			total:     1,
			byType:    map[string]int{"Service": 1},
			clients:   []report.NamedCount{{Name: "Alfa", Count: 1}},
			locations: []report.NamedCount{{Name: "Arad", Count: 1}},
		},
		{
			name:      "type and client",
			filter:    report.ProjectTypeFilter{Type: "Instalare", Client: "Alfa"},
			total:     2,
			byType:    map[string]int{"Instalare": 2},
			clients:   []report.NamedCount{{Name: "Alfa", Count: 2}},
			locations: []report.NamedCount{{Name: "Cluj", Count: 2}},
		},
		{
			name:      "unknown type label",
			filter:    report.ProjectTypeFilter{Type: workorder.UnknownType},
			total:     1,
			byType:    map[string]int{workorder.UnknownType: 1},
			clients:   []report.NamedCount{{Name: workorder.UnknownClient, Count: 1}},
			locations: []report.NamedCount{{Name: "Cluj", Count: 1}},
		},
		{
			name:      "nothing matches",
			filter:    report.ProjectTypeFilter{Client: "Gamma"},
			total:     0,
			byType:    map[string]int{},
			clients:   []report.NamedCount{},
			locations: []report.NamedCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := report.BuildProjectTypes(fixtureWorkOrders(), tt.filter)

			assert.Equal(t, tt.total, res.Total)
			assert.Equal(t, tt.byType, res.ByType)
			if diff := cmp.Diff(tt.clients, res.Clients); diff != "" {
				t.Errorf("clients mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.locations, res.Locations); diff != "" {
				t.Errorf("locations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildProjectTypes_ByStatus(t *testing.T) {
	res := report.BuildProjectTypes(fixtureWorkOrders(), report.ProjectTypeFilter{})

	assert.Equal(t, map[string]int{"Finalizat": 3, "În lucru": 1, workorder.UnknownStatus: 1}, res.ByStatus)
}

func acceptedOrder(client string, total float64, acceptedAt *time.Time) *workorder.WorkOrder {
	return &workorder.WorkOrder{
		Client:          client,
		Products:        []workorder.Product{{Quantity: 1, Price: total}},
		OfferVATPercent: cost(10),
		OfferResponse:   &workorder.OfferResponse{Status: "accept", At: acceptedAt},
	}
}

func fixtureSales() []*workorder.WorkOrder {
	offerDateOnly := acceptedOrder("Beta", 300, nil)
	offerDateOnly.OfferDate = at(2024, time.April, 3)

	updatedOnly := acceptedOrder("", 50, nil)
	updatedOnly.UpdatedAt = *at(2024, time.April, 20)

	rejected := acceptedOrder("Alfa", 9999, at(2024, time.March, 1))
	rejected.OfferResponse.Status = "reject"

	pending := &workorder.WorkOrder{Client: "Alfa", Products: []workorder.Product{{Quantity: 1, Price: 9999}}}

	return []*workorder.WorkOrder{
		acceptedOrder("Alfa", 1000, at(2024, time.January, 15)),
		acceptedOrder("Alfa", 200, at(2024, time.March, 2)),
		offerDateOnly,
		updatedOnly,
		acceptedOrder("Alfa", 500, at(2023, time.December, 30)),
		rejected,
		pending,
	}
}

func TestBuildSales(t *testing.T) {
	tests := []struct {
		name       string
		includeVAT bool
		total      float64
		january    float64
		april      float64
		clients    []report.ClientSales
	}{
		{
			name:       "with vat",
			includeVAT: true,
			total:      1705,
			january:    1100,
			april:      385,
			clients: []report.ClientSales{
				{Client: "Alfa", Total: 1320, Count: 2},
				{Client: "Beta", Total: 330, Count: 1},
				{Client: "Necunoscut", Total: 55, Count: 1},
			},
		},
		{
			name:       "without vat",
			includeVAT: false,
			total:      1550,
			january:    1000,
			april:      350,
			clients: []report.ClientSales{
				{Client: "Alfa", Total: 1200, Count: 2},
				{Client: "Beta", Total: 300, Count: 1},
				{Client: "Necunoscut", Total: 50, Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := report.BuildSales(fixtureSales(), 2024, tt.includeVAT)

			assert.Equal(t, 2024, res.Year)
			assert.Equal(t, tt.includeVAT, res.IncludeVAT)
			assert.InDelta(t, tt.total, res.Total, 1e-6)
			assert.InDelta(t, tt.total/12, res.MonthlyAvg, 1e-6)
			assert.InDelta(t, tt.january, res.Monthly[time.January-1], 1e-6)
			assert.InDelta(t, tt.april, res.Monthly[time.April-1], 1e-6)

			assert.Equal(t, 0, res.BestMonth.Index)
			assert.InDelta(t, tt.january, res.BestMonth.Value, 1e-6)
			// первый месяц без продаж
			assert.Equal(t, 1, res.WorstMonth.Index)
			assert.Zero(t, res.WorstMonth.Value)

			require.Len(t, res.ClientDetails, len(tt.clients))
			for i, want := range tt.clients {
				assert.Equal(t, want.Client, res.ClientDetails[i].Client)
				assert.InDelta(t, want.Total, res.ClientDetails[i].Total, 1e-6)
				assert.Equal(t, want.Count, res.ClientDetails[i].Count)
			}
		})
	}
}

func TestBuildSales_Empty(t *testing.T) {
	res := report.BuildSales(nil, 2024, true)

	assert.Zero(t, res.Total)
	assert.Zero(t, res.BestMonth.Index)
	assert.Zero(t, res.WorstMonth.Index)
	assert.NotNil(t, res.ClientDetails)
}
