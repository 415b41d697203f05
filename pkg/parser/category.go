package parser

import (
	"strings"

	"github.com/ccollicutt/babylog/pkg/record"
)

// categoryRule maps any of its keywords to a category.
type categoryRule struct {
	keywords []string
	category record.Category
}

// categoryRules are checked in order and the first keyword hit wins.
// Measurements precede bath so "お風呂前に体重" is a weight entry.
var categoryRules = []categoryRule{
	{keywords: []string{"起きる"}, category: record.CategoryWake},
	{keywords: []string{"寝る"}, category: record.CategorySleep},
	{keywords: []string{"ミルク"}, category: record.CategoryMilk},
	{keywords: []string{"母乳"}, category: record.CategoryBreastfeed},
	{keywords: []string{"おしっこ"}, category: record.CategoryPee},
	{keywords: []string{"うんち"}, category: record.CategoryPoop},
	{keywords: []string{"吐く"}, category: record.CategoryVomit},
	{keywords: []string{"体重"}, category: record.CategoryWeight},
	{keywords: []string{"身長"}, category: record.CategoryHeight},
	{keywords: []string{"体温"}, category: record.CategoryTemperature},
	{keywords: []string{"お風呂"}, category: record.CategoryBath},
	{keywords: []string{"病院"}, category: record.CategoryHospital},
	{keywords: []string{"予防接種"}, category: record.CategoryVaccination},
	{keywords: []string{"離乳食"}, category: record.CategoryFood},
	{keywords: []string{"くすり", "薬"}, category: record.CategoryMedicine},
	{keywords: []string{"検査", "処置"}, category: record.CategoryMedical},
	{keywords: []string{"診察"}, category: record.CategoryExamination},
}

// Categorize classifies an event by the keywords in its type text.
func Categorize(typeText string) record.Category {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(typeText, kw) {
				return rule.category
			}
		}
	}
	return record.CategoryOther
}
