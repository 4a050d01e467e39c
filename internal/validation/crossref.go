package validation

import (
	"github.com/granite-reporting/granite/internal/records"
)

var projectTypes = map[string]bool{
	"ec1": true, "ec2": true, "ec3": true,
	"ec4": true, "ec5": true, "ec7": true,
}

// ValidateCrossReferences checks referential integrity across a workbook's
// sheets: awards and aggregates must point at declared projects,
// expenditures at declared awards, and award recipients at subrecipient
// rows. Dangling references are warnings except for a workbook with no
// projects at all, which has nothing to report and fails outright.
func ValidateCrossReferences(vctx *Context, recs []records.Record) []Item {
	var items []Item

	projectIDs := make(map[string]int)
	awardNumbers := make(map[string]int)
	subIdentifiers := make(map[string]int)
	subRecords := make([]records.Record, 0)
	referencedSubs := make(map[string]bool)
	projects := 0

	for _, rec := range recs {
		switch {
		case projectTypes[rec.Type]:
			projects++
			if id := NormalizeIdentifier(rec.Content.Get("Project_Identification_Number__c").Text()); id != "" {
				projectIDs[id]++
			}
		case rec.Type == "awards50k":
			if no := NormalizeIdentifier(rec.Content.Get("Award_No__c").Text()); no != "" {
				awardNumbers[no]++
			}
		case rec.Type == "subrecipient":
			subRecords = append(subRecords, rec)
			if uei := NormalizeIdentifier(rec.Content.Get("Unique_Entity_Identifier__c").Text()); uei != "" {
				subIdentifiers[uei]++
			}
			if tin := NormalizeIdentifier(rec.Content.Get("EIN__c").Text()); tin != "" {
				subIdentifiers[tin]++
			}
		}
	}

	if projects == 0 {
		items = append(items, Item{
			Severity: SeverityError,
			Message:  "Upload contains no project records",
		})
	}

	for id, count := range projectIDs {
		if count > 1 {
			items = append(items, Item{
				Severity: SeverityWarning,
				Message:  "Duplicate project identification number " + id,
			})
		}
	}
	for no, count := range awardNumbers {
		if count > 1 {
			items = append(items, Item{
				Severity: SeverityWarning,
				Message:  "Duplicate award number " + no,
			})
		}
	}
	for id, count := range subIdentifiers {
		if count > 1 {
			items = append(items, Item{
				Severity: SeverityWarning,
				Message:  "Duplicate subrecipient identifier " + id,
			})
		}
	}

	for _, rec := range recs {
		switch rec.Type {
		case "awards50k":
			items = append(items, checkAwardReferences(vctx, rec, projectIDs, subIdentifiers, referencedSubs)...)
		case "expenditures50k":
			lookup := rec.Content.Get("Sub_Award_Lookup__c").Text()
			if no := NormalizeIdentifier(lookup); no != "" && awardNumbers[no] == 0 {
				rule, _ := vctx.Catalog.Rule("expenditures50k", "Sub_Award_Lookup__c")
				items = append(items, warningAt(rec, rule,
					"Expenditure references unknown award %s", lookup))
			}
		case "awards":
			ref := rec.Content.Get("Project_Identification_Number__c").Text()
			if id := NormalizeIdentifier(ref); id != "" && projectIDs[id] == 0 {
				rule, _ := vctx.Catalog.Rule("awards", "Project_Identification_Number__c")
				items = append(items, warningAt(rec, rule,
					"Aggregate award references unknown project %s", ref))
			}
		}
	}

	for _, rec := range subRecords {
		uei := NormalizeIdentifier(rec.Content.Get("Unique_Entity_Identifier__c").Text())
		tin := NormalizeIdentifier(rec.Content.Get("EIN__c").Text())
		if uei == "" && tin == "" {
			rule, _ := vctx.Catalog.Rule("subrecipient", "Unique_Entity_Identifier__c")
			items = append(items, errorAt(rec, rule,
				"Subrecipient %s must carry a UEI or an EIN", rec.Content.Get("Name").Text()))
			continue
		}
		if referencedSubs[uei] || referencedSubs[tin] {
			continue
		}
		rule, _ := vctx.Catalog.Rule("subrecipient", "Name")
		items = append(items, warningAt(rec, rule,
			"Subrecipient %s is not referenced by any award", rec.Content.Get("Name").Text()))
	}

	return items
}

func checkAwardReferences(vctx *Context, rec records.Record, projectIDs, subIdentifiers map[string]int, referencedSubs map[string]bool) []Item {
	var items []Item

	ref := rec.Content.Get("Project_Identification_Number__c").Text()
	if id := NormalizeIdentifier(ref); id != "" && projectIDs[id] == 0 {
		rule, _ := vctx.Catalog.Rule("awards50k", "Project_Identification_Number__c")
		items = append(items, warningAt(rec, rule, "Award references unknown project %s", ref))
	}

	uei := NormalizeIdentifier(rec.Content.Get("Recipient_UEI__c").Text())
	tin := NormalizeIdentifier(rec.Content.Get("Recipient_EIN__c").Text())
	switch {
	case uei != "" && subIdentifiers[uei] > 0:
		referencedSubs[uei] = true
	case tin != "" && subIdentifiers[tin] > 0:
		referencedSubs[tin] = true
	case uei != "" || tin != "":
		rule, _ := vctx.Catalog.Rule("awards50k", "Recipient_UEI__c")
		items = append(items, warningAt(rec, rule,
			"Award %s references no subrecipient row", rec.Content.Get("Award_No__c").Text()))
	}

	return items
}
