package engine

import (
	"testing"

	"github.com/onsi/gomega"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

func newTestCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}

func pricedInstance(name string, hourly float64) schema.CloudInstance {
	return schema.CloudInstance{
		Provider:        schema.ProviderHetzner,
		Kind:            schema.KindCloudServer,
		InstanceType:    name,
		PriceUSDHourly:  hourly,
		PriceUSDMonthly: hourly * 730.44,
	}
}

func TestSortByPriceAscending(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	instances := []schema.CloudInstance{
		pricedInstance("mid", 0.02),
		pricedInstance("cheap", 0.01),
		pricedInstance("dear", 0.05),
	}

	sortInstances(instances, FilterState{SortField: "priceUSD_hourly"})
	g.Expect(names(instances)).To(gomega.Equal([]string{"cheap", "mid", "dear"}))
}

func TestSortToggledDirectionReverses(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	asc := []schema.CloudInstance{
		pricedInstance("b", 0.02),
		pricedInstance("a", 0.01),
		pricedInstance("c", 0.03),
	}
	desc := make([]schema.CloudInstance, len(asc))
	copy(desc, asc)

	sortInstances(asc, FilterState{SortField: "priceUSD_hourly"})
	sortInstances(desc, FilterState{SortField: "priceUSD_hourly", SortDesc: true})

	g.Expect(names(desc)).To(gomega.Equal([]string{"c", "b", "a"}))
	g.Expect(names(asc)).To(gomega.Equal([]string{"a", "b", "c"}))
}

func TestSortFullyReversedInput(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	// every element has to move, so any drift between an instance and its
	// comparison key shows up as a misplaced entry
	instances := []schema.CloudInstance{
		pricedInstance("e", 0.05),
		pricedInstance("d", 0.04),
		pricedInstance("c", 0.03),
		pricedInstance("b", 0.02),
		pricedInstance("a", 0.01),
	}

	sortInstances(instances, FilterState{SortField: "priceUSD_hourly"})
	g.Expect(names(instances)).To(gomega.Equal([]string{"a", "b", "c", "d", "e"}))
}

func TestSortStableOnTies(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	instances := []schema.CloudInstance{
		pricedInstance("first", 0.01),
		pricedInstance("second", 0.01),
		pricedInstance("third", 0.01),
	}

	for _, desc := range []bool{false, true} {
		sorted := make([]schema.CloudInstance, len(instances))
		copy(sorted, instances)
		sortInstances(sorted, FilterState{SortField: "priceUSD_hourly", SortDesc: desc})

		// tied elements keep insertion order in both directions
		g.Expect(names(sorted)).To(gomega.Equal([]string{"first", "second", "third"}))
	}
}

func TestSortUnresolvablePriceLast(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	instances := []schema.CloudInstance{
		{Provider: schema.ProviderHetzner, InstanceType: "no-price"},
		pricedInstance("priced", 0.01),
	}

	for _, desc := range []bool{false, true} {
		sorted := make([]schema.CloudInstance, len(instances))
		copy(sorted, instances)
		sortInstances(sorted, FilterState{SortField: "priceUSD_hourly", SortDesc: desc})

		g.Expect(sorted[len(sorted)-1].InstanceType).To(gomega.Equal("no-price"))
	}
}

func TestSortNullsLastBothDirections(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	withDesc := pricedInstance("described", 0.01)
	withDesc.Description = "Alpha"

	withDesc2 := pricedInstance("described-2", 0.01)
	withDesc2.Description = "Beta"

	without := pricedInstance("bare", 0.01)

	for _, desc := range []bool{false, true} {
		instances := []schema.CloudInstance{without, withDesc2, withDesc}
		sortInstances(instances, FilterState{SortField: "description", SortDesc: desc})

		g.Expect(instances[2].InstanceType).To(gomega.Equal("bare"))
	}
}

func TestSortDotPathField(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	a := pricedInstance("a", 0.01)
	a.OriginalPrice = &schema.OriginalPrice{Monthly: 9.0, Currency: "EUR"}

	b := pricedInstance("b", 0.02)
	b.OriginalPrice = &schema.OriginalPrice{Monthly: 3.0, Currency: "EUR"}

	instances := []schema.CloudInstance{a, b}
	sortInstances(instances, FilterState{SortField: "originalPrice.monthly"})

	g.Expect(names(instances)).To(gomega.Equal([]string{"b", "a"}))
}

func TestSortNumericNotLexicographic(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	two := pricedInstance("two-core", 0.01)
	two.VCPU = intPtr(2)

	sixteen := pricedInstance("sixteen-core", 0.02)
	sixteen.VCPU = intPtr(16)

	// "16" < "2" lexicographically; numeric comparison must win
	instances := []schema.CloudInstance{two, sixteen}
	sortInstances(instances, FilterState{SortField: "vCPU"})

	g.Expect(names(instances)).To(gomega.Equal([]string{"two-core", "sixteen-core"}))
}

func TestSortLocaleAwareStrings(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	a := pricedInstance("upper", 0.01)
	a.Description = "Zurich"

	b := pricedInstance("accented", 0.01)
	b.Description = "ärhus"

	instances := []schema.CloudInstance{a, b}
	sortInstances(instances, FilterState{SortField: "description"})

	// collation puts ä with a, before z; byte comparison would not
	g.Expect(names(instances)).To(gomega.Equal([]string{"accented", "upper"}))
}

func TestCompareValuesMixedNumericString(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	collator := newTestCollator()

	g.Expect(compareValues(float64(2), "16", collator)).To(gomega.BeNumerically("<", 0))
	g.Expect(compareValues("3", float64(2), collator)).To(gomega.BeNumerically(">", 0))
	g.Expect(compareValues(false, true, collator)).To(gomega.BeNumerically("<", 0))
}
