package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"darna/internal/catalog"
	"darna/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func st(id uint, fr, ar, en string) models.ServiceType {
	return models.ServiceType{ID: id, NameFr: fr, NameAr: ar, NameEn: en}
}

func ids(records []models.ServiceType) []uint {
	out := make([]uint, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestClassifier_QuickExcludesComplete(t *testing.T) {
	c := catalog.MustDefault()
	records := []models.ServiceType{
		st(1, "Nettoyage rapide", "تنظيف سريع", "Quick cleaning"),
		st(2, "Nettoyage complet", "تنظيف كامل", "Complete cleaning"),
		st(3, "Nettoyage rapide et complet", "", ""),
		st(4, "", "", "Express clean"),
		st(5, "Nettoyage complet", "", "Quick clean"),
	}

	quick := c.Filter(catalog.BucketQuickCleaning, records)
	assert.Equal(t, []uint{1, 4}, ids(quick))
	for _, r := range quick {
		assert.NotContains(t, strings.ToLower(r.NameFr), "complet")
	}

	deep := c.Filter(catalog.BucketDeepCleaning, records)
	assert.Equal(t, []uint{2}, ids(deep))
}

func TestClassifier_ArabicAndAccentFolding(t *testing.T) {
	c := catalog.MustDefault()
	records := []models.ServiceType{
		st(1, "", "تنظيف الأرضيات", ""),
		st(2, "Nettoyage de CANAPÉ", "", ""),
		st(3, "", "", "  Sneaker Care  "),
		st(4, "", "غسيل الأحذية", ""),
	}

	assert.Equal(t, []uint{1}, ids(c.Filter(catalog.BucketFloors, records)))
	assert.Equal(t, []uint{2}, ids(c.Filter(catalog.BucketTextiles, records)))
	assert.Equal(t, []uint{3, 4}, ids(c.Filter(catalog.BucketShoes, records)))
	assert.Empty(t, c.Filter(catalog.BucketLaundry, records), "shoe washing is not laundry")
}

func TestClassifier_ParentCategoryGate(t *testing.T) {
	c := catalog.MustDefault()
	offices := &models.Menage{ID: 10, NameFr: "Bureaux et Usines", NameEn: "Offices and Factories"}
	airbnb := &models.Menage{ID: 11, NameFr: "Ménage Airbnb"}

	inOffices := st(1, "Nettoyage de bureau", "", "")
	inOffices.Menage = offices
	elsewhere := st(2, "Nettoyage de bureau", "", "")
	elsewhere.Menage = airbnb
	orphan := st(3, "Nettoyage de bureau", "", "")

	got := c.Filter(catalog.BucketOffices, []models.ServiceType{inOffices, elsewhere, orphan})
	assert.Equal(t, []uint{1}, ids(got))
}

func TestClassifier_EmptyNamesNeverMatch(t *testing.T) {
	c := catalog.MustDefault()
	empty := st(1, "", "  ", "")
	assert.Empty(t, c.Tags(empty))
	for _, b := range c.Buckets() {
		assert.False(t, c.Matches(b, empty))
	}
}

func TestClassifier_ClassifyDedupesAndKeepsOrder(t *testing.T) {
	c := catalog.MustDefault()
	records := []models.ServiceType{
		st(7, "Lavage de tapis", "", ""),
		st(3, "Tapis persan", "", ""),
		st(7, "Lavage de tapis", "", ""),
		st(9, "Repassage", "", ""),
	}

	buckets := c.Classify(records)
	assert.Equal(t, []uint{7, 3}, ids(buckets[catalog.BucketCarpets]))
	assert.Equal(t, []uint{9}, ids(buckets[catalog.BucketLaundry]))
	assert.NotNil(t, buckets[catalog.BucketKitchen])
	assert.Empty(t, buckets[catalog.BucketKitchen])
	assert.Len(t, buckets, len(c.Buckets()))
}

func TestClassifier_ExcludeKeywordsMatchWholeWords(t *testing.T) {
	c := catalog.MustDefault()
	records := []models.ServiceType{
		st(1, "Lavage et soin du linge", "", "Laundry and garment care"),
		st(2, "", "", "Scar-free ironing"),
		st(3, "", "", "Laundry cart service"),
		st(4, "Lavage voiture", "", ""),
		st(5, "", "", "Car washing"),
		st(6, "", "", "Washing (car)"),
	}

	assert.Contains(t, c.Tags(records[0]), catalog.BucketLaundry)
	assert.Equal(t, []uint{1, 2, 3}, ids(c.Filter(catalog.BucketLaundry, records)))
}

func TestClassifier_Tags(t *testing.T) {
	c := catalog.MustDefault()
	assert.Equal(t, []string{catalog.BucketQuickCleaning, catalog.BucketAirbnb},
		c.Tags(st(1, "Airbnb rapide", "", "")))
	assert.Nil(t, c.Filter("unknown", []models.ServiceType{st(1, "tapis", "", "")}))
	assert.False(t, c.HasBucket("unknown"))
}

func TestNewClassifier_Invalid(t *testing.T) {
	_, err := catalog.NewClassifier([]catalog.Rule{{Bucket: ""}})
	assert.Error(t, err)

	_, err = catalog.NewClassifier([]catalog.Rule{
		{Bucket: "a", Include: catalog.Keywords{catalog.French: {"x"}}},
		{Bucket: "a", Include: catalog.Keywords{catalog.French: {"y"}}},
	})
	assert.ErrorContains(t, err, "duplicate")

	_, err = catalog.NewClassifier([]catalog.Rule{{Bucket: "a", Include: catalog.Keywords{catalog.French: {"  "}}}})
	assert.ErrorContains(t, err, "no include keywords")
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `rules:
  - bucket: pools
    include:
      fr: ["piscine"]
      en: ["pool"]
    exclude:
      en: ["table"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	rules, err := catalog.LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "pools", rules[0].Bucket)
	assert.Equal(t, []string{"piscine"}, rules[0].Include[catalog.French])

	c, err := catalog.NewClassifier(rules)
	require.NoError(t, err)
	records := []models.ServiceType{st(1, "Nettoyage piscine", "", ""), st(2, "", "", "Pool table repair")}
	assert.Equal(t, []uint{1}, ids(c.Filter("pools", records)))

	_, err = catalog.LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
