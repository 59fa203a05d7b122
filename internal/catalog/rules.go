package catalog

import (
	"fmt"

	"github.com/spf13/viper"
)

// Locale identifies one of the language variants of a catalog record.
type Locale string

const (
	French  Locale = "fr"
	Arabic  Locale = "ar"
	English Locale = "en"
)

// Locales lists the language variants every record carries.
var Locales = []Locale{French, Arabic, English}

// Keywords holds keyword lists per locale.
type Keywords map[Locale][]string

// Rule assigns records to Bucket. A record matches when the name of some locale
// contains one of that locale's Include keywords and no locale's name contains one
// of its Exclude keywords.
// A keyword with a leading or trailing space only matches at a word boundary on
// that side, so " car " matches "car wash" but not "garment care".
// With ParentInclude set, the record's parent category must contain one of those
// keywords (in any locale) before the record itself is tested.
type Rule struct {
	Bucket        string   `mapstructure:"bucket"`
	Include       Keywords `mapstructure:"include"`
	Exclude       Keywords `mapstructure:"exclude"`
	ParentInclude Keywords `mapstructure:"parent_include"`
}

// Bucket names of the default rule table.
const (
	BucketQuickCleaning = "quick_cleaning"
	BucketDeepCleaning  = "deep_cleaning"
	BucketAirbnb        = "airbnb"
	BucketOffices       = "offices"
	BucketCarpets       = "carpets"
	BucketFloors        = "floors"
	BucketTextiles      = "textiles"
	BucketLaundry       = "laundry"
	BucketShoes         = "shoes"
	BucketKitchen       = "kitchen"
)

// DefaultRules returns the storefront's rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Bucket: BucketQuickCleaning,
			Include: Keywords{
				French:  {"rapide", "express"},
				Arabic:  {"سريع"},
				English: {"quick", "express"},
			},
			Exclude: Keywords{
				French:  {"complet", "approfondi"},
				Arabic:  {"كامل", "شامل", "عميق"},
				English: {"complete", "deep", "full"},
			},
		},
		{
			Bucket: BucketDeepCleaning,
			Include: Keywords{
				French:  {"complet", "approfondi", "grand menage"},
				Arabic:  {"كامل", "شامل", "عميق"},
				English: {"complete", "deep", "full"},
			},
			Exclude: Keywords{
				French:  {"rapide"},
				Arabic:  {"سريع"},
				English: {"quick"},
			},
		},
		{
			Bucket: BucketAirbnb,
			Include: Keywords{
				French:  {"airbnb", "location courte"},
				Arabic:  {"airbnb", "ايربنب"},
				English: {"airbnb", "short stay"},
			},
		},
		{
			Bucket: BucketOffices,
			Include: Keywords{
				French:  {"bureau", "usine", "entreprise"},
				Arabic:  {"مكتب", "مكاتب", "مصنع", "شركة"},
				English: {"office", "factory", "company"},
			},
			ParentInclude: Keywords{
				French:  {"bureaux", "usines"},
				Arabic:  {"مكاتب", "مصانع"},
				English: {"offices", "factories"},
			},
		},
		{
			Bucket: BucketCarpets,
			Include: Keywords{
				French:  {"tapis", "moquette"},
				Arabic:  {"زربية", "زرابي", "سجاد"},
				English: {"carpet", "rug"},
			},
		},
		{
			Bucket: BucketFloors,
			Include: Keywords{
				French:  {"sols", "de sol", "parquet", "marbre", "carrelage"},
				Arabic:  {"ارضية", "ارضيات", "رخام", "زليج"},
				English: {"floor", "parquet", "marble", "tiles"},
			},
		},
		{
			Bucket: BucketTextiles,
			Include: Keywords{
				French:  {"canape", "rideau", "matelas", "fauteuil", "textile"},
				Arabic:  {"كنبة", "صالون", "ستائر", "ستارة", "فراش", "مرتبة"},
				English: {"sofa", "couch", "curtain", "mattress", "upholstery", "textile"},
			},
		},
		{
			Bucket: BucketLaundry,
			Include: Keywords{
				French:  {"lavage", "linge", "blanchisserie", "repassage", "pressing"},
				Arabic:  {"غسيل", "تصبين", "كوي"},
				English: {"laundry", "ironing", "washing", "dry cleaning"},
			},
			Exclude: Keywords{
				French:  {"chaussure", "tapis", "voiture"},
				Arabic:  {"حذاء", "احذية", "زربية", "سيارة"},
				English: {"shoe", "carpet", "vehicle", " car "},
			},
		},
		{
			Bucket: BucketShoes,
			Include: Keywords{
				French:  {"chaussure", "basket", "cirage"},
				Arabic:  {"حذاء", "احذية"},
				English: {"shoe", "sneaker", "boot"},
			},
		},
		{
			Bucket: BucketKitchen,
			Include: Keywords{
				French:  {"cuisine", "cuisinier", "traiteur"},
				Arabic:  {"مطبخ", "طبخ", "طباخ"},
				English: {"kitchen", "cook", "catering"},
			},
		},
	}
}

// LoadRules reads a rule table from a YAML, JSON or TOML file with a top-level "rules" list.
func LoadRules(path string) ([]Rule, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog rules %s: %w", path, err)
	}

	var rules []Rule
	if err := v.UnmarshalKey("rules", &rules); err != nil {
		return nil, fmt.Errorf("decode catalog rules %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("catalog rules %s: no rules defined", path)
	}
	return rules, nil
}
