package validation_test

import (
	"strings"
	"testing"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/internal/validation"
)

func newContext(ecCode string) *validation.Context {
	return &validation.Context{
		Catalog:    rules.MustDefault(),
		ECCode:     ecCode,
		ActiveTags: map[string]bool{},
	}
}

func record(recordType string, row int, content rules.Content) records.Record {
	return records.Record{Type: recordType, Row: row, Content: content}
}

func findingWith(items []validation.Item, severity validation.Severity, substr string) bool {
	for _, item := range items {
		if item.Severity == severity && strings.Contains(item.Message, substr) {
			return true
		}
	}
	return false
}

func validSubrecipient() rules.Content {
	return rules.Content{
		"Name":                        rules.String("Granite County Health"),
		"Unique_Entity_Identifier__c": rules.String("ABC123DEF456"),
		"Address__c":                  rules.String("100 Main St"),
		"City__c":                     rules.String("Helena"),
		"State_Abbreviated__c":        rules.String("MT"),
		"Zip__c":                      rules.String("59601"),
		"Country__c":                  rules.String("United States of America"),
		"Entity_Type_2__c":            rules.String("Subrecipient"),
	}
}

func TestValidateRecordSubrecipient(t *testing.T) {
	vctx := newContext("")

	t.Run("complete record passes", func(t *testing.T) {
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, validSubrecipient()))
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		content := validSubrecipient()
		delete(content, "Name")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "Value is required for Name") {
			t.Fatalf("missing required finding in %v", items)
		}
	})

	t.Run("whitespace only counts as absent", func(t *testing.T) {
		content := validSubrecipient()
		content["Name"] = rules.String("   ")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "Value is required for Name") {
			t.Fatalf("missing required finding in %v", items)
		}
	})

	t.Run("blank optional picklist produces no findings", func(t *testing.T) {
		content := validSubrecipient()
		delete(content, "Registered_in_Sam_gov__c")
		content["Federal_Funds_80_or_More_of_Revenue__c"] = rules.String("  ")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("max length", func(t *testing.T) {
		content := validSubrecipient()
		content["State_Abbreviated__c"] = rules.String("MONT")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "cannot be longer than 2 characters") {
			t.Fatalf("missing length finding in %v", items)
		}
	})

	t.Run("email pattern", func(t *testing.T) {
		content := validSubrecipient()
		content["POC_Email_Address__c"] = rules.String("not-an-email")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "must be a valid email address") {
			t.Fatalf("missing pattern finding in %v", items)
		}
	})

	t.Run("picklist rejects unknown", func(t *testing.T) {
		content := validSubrecipient()
		content["Country__c"] = rules.String("Canada")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "not one of the allowed values") {
			t.Fatalf("missing picklist finding in %v", items)
		}
	})

	t.Run("picklist matches case insensitively", func(t *testing.T) {
		content := validSubrecipient()
		content["Country__c"] = rules.String("UNITED STATES OF AMERICA")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("multiselect checks each option", func(t *testing.T) {
		content := validSubrecipient()
		content["Entity_Type_2__c"] = rules.String("Contractor; Vendor")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "not one of the allowed values") {
			t.Fatalf("missing multiselect finding in %v", items)
		}

		content["Entity_Type_2__c"] = rules.String("Contractor; Beneficiary")
		items = validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if len(items) != 0 {
			t.Fatalf("got %d findings, want 0: %v", len(items), items)
		}
	})

	t.Run("currency precision", func(t *testing.T) {
		content := validSubrecipient()
		content["Officer_1_Amount_Of_Compensation__c"] = rules.Number(100.125)
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "at most two decimal places") {
			t.Fatalf("missing precision finding in %v", items)
		}
	})

	t.Run("currency must be numeric", func(t *testing.T) {
		content := validSubrecipient()
		content["Officer_1_Amount_Of_Compensation__c"] = rules.String("lots")
		items := validation.ValidateRecord(vctx, record("subrecipient", 13, content))
		if !findingWith(items, validation.SeverityError, "must be a dollar amount") {
			t.Fatalf("missing currency finding in %v", items)
		}
	})
}

func TestValidateRecordDates(t *testing.T) {
	vctx := newContext("")
	content := rules.Content{
		"Agency_Code__c":                   rules.String("DPH"),
		"Detailed_Expenditure_Category__c": rules.String("1.1"),
		"Reporting_Period_Start_Date__c":   rules.String("soon"),
	}
	items := validation.ValidateRecord(vctx, record("cover", 13, content))
	if !findingWith(items, validation.SeverityError, "must be a date") {
		t.Fatalf("missing date finding in %v", items)
	}
}

func TestValidateRecordCategoryGating(t *testing.T) {
	content := rules.Content{
		"Industry_Experienced_8_Percent_Loss__c": rules.String("Maybe"),
	}

	items := validation.ValidateRecord(newContext("2.1"), record("ec2", 13, content))
	if findingWith(items, validation.SeverityError, "Industry_Experienced_8_Percent_Loss__c") {
		t.Fatalf("rule outside the upload category should be skipped: %v", items)
	}

	items = validation.ValidateRecord(newContext("2.36"), record("ec2", 13, content))
	if !findingWith(items, validation.SeverityError, "Industry_Experienced_8_Percent_Loss__c") {
		t.Fatalf("missing picklist finding for in-category rule: %v", items)
	}
}

func TestValidateRecordConditionalRequirement(t *testing.T) {
	vctx := newContext("")

	cancelled := rules.Content{"Completion_Status__c": rules.String("Cancelled")}
	items := validation.ValidateRecord(vctx, record("ec1", 13, cancelled))
	if !findingWith(items, validation.SeverityError, "Value is required for Cancellation_Reason__c") {
		t.Fatalf("missing conditional requirement finding in %v", items)
	}

	completed := rules.Content{"Completion_Status__c": rules.String("Completed")}
	items = validation.ValidateRecord(vctx, record("ec1", 13, completed))
	if findingWith(items, validation.SeverityError, "Value is required for Cancellation_Reason__c") {
		t.Fatalf("cancellation reason should not be required when completed: %v", items)
	}
}
