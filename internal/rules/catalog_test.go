package rules_test

import (
	"testing"

	"github.com/granite-reporting/granite/internal/rules"
)

func loadCatalog(t *testing.T) *rules.Catalog {
	t.Helper()
	c, err := rules.NewCatalog()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func TestCatalogCoversAllRecordTypes(t *testing.T) {
	c := loadCatalog(t)

	expected := []string{
		"certification", "cover", "logic", "subrecipient",
		"awards50k", "expenditures50k", "awards",
		"ec1", "ec2", "ec3", "ec4", "ec5", "ec7",
	}
	for _, recordType := range expected {
		if len(c.ForType(recordType)) == 0 {
			t.Errorf("no rules for record type %s", recordType)
		}
	}
}

func TestProjectTypesShareFieldSet(t *testing.T) {
	c := loadCatalog(t)

	base := c.ForType("ec1")
	for _, recordType := range []string{"ec2", "ec3", "ec4", "ec5", "ec7"} {
		other := c.ForType(recordType)
		if len(other) != len(base) {
			t.Fatalf("%s has %d rules, ec1 has %d", recordType, len(other), len(base))
		}
		for i := range base {
			if other[i].Key != base[i].Key {
				t.Errorf("%s rule %d is %s, ec1 has %s", recordType, i, other[i].Key, base[i].Key)
			}
		}
	}
}

func TestColumnNamesFollowTemplateLayout(t *testing.T) {
	c := loadCatalog(t)

	// data starts in column C; order matches the source document
	for i, r := range c.ForType("certification") {
		want := string(rune('C' + i))
		if r.ColumnName != want {
			t.Errorf("rule %s: column %s, want %s", r.Key, r.ColumnName, want)
		}
	}
}

func TestRequirementVariants(t *testing.T) {
	c := loadCatalog(t)

	name, ok := c.Rule("ec1", "Name")
	if !ok {
		t.Fatal("missing Name rule")
	}
	if name.Required.Kind != rules.Always {
		t.Error("Name should always be required")
	}

	income, ok := c.Rule("ec1", "Program_Income_Earned__c")
	if !ok {
		t.Fatal("missing Program_Income_Earned__c rule")
	}
	if income.Required.Kind != rules.Never {
		t.Error("Program_Income_Earned__c should never be required")
	}

	reason, ok := c.Rule("ec1", "Cancellation_Reason__c")
	if !ok {
		t.Fatal("missing Cancellation_Reason__c rule")
	}
	if reason.Required.Kind != rules.Conditional {
		t.Fatal("Cancellation_Reason__c should be conditionally required")
	}

	cancelled := rules.Content{"Completion_Status__c": rules.String("Cancelled")}
	active := rules.Content{"Completion_Status__c": rules.String("Completed")}
	if !c.IsRequired(reason.Required, cancelled) {
		t.Error("cancellation reason required for cancelled project")
	}
	if c.IsRequired(reason.Required, active) {
		t.Error("cancellation reason not required for active project")
	}
}

func TestConditionalChain(t *testing.T) {
	c := loadCatalog(t)

	justification, _ := c.Rule("ec2", "Capital_Expenditure_Justification__c")
	tests := []struct {
		name     string
		content  rules.Content
		required bool
	}{
		{
			"declared capital expenditure",
			rules.Content{"Does_Project_Include_Capital_Expenditure__c": rules.String("Yes")},
			true,
		},
		{
			"no capital expenditure",
			rules.Content{"Does_Project_Include_Capital_Expenditure__c": rules.String("No")},
			false,
		},
		{
			"question unanswered",
			rules.Content{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsRequired(justification.Required, tt.content); got != tt.required {
				t.Errorf("got %v, want %v", got, tt.required)
			}
		})
	}
}

func TestAppliesToFiltersByCategory(t *testing.T) {
	c := loadCatalog(t)

	workers, _ := c.Rule("ec4", "Workers_Served__c")
	if !workers.AppliesTo("4.1") {
		t.Error("Workers_Served__c applies to 4.1")
	}
	if workers.AppliesTo("2.1") {
		t.Error("Workers_Served__c does not apply to 2.1")
	}

	name, _ := c.Rule("ec4", "Name")
	if !name.AppliesTo("4.1") || !name.AppliesTo("2.1") {
		t.Error("unrestricted rules apply to every category")
	}
}

func TestTaggedRulesGateOnActiveSet(t *testing.T) {
	c := loadCatalog(t)

	total, _ := c.Rule("ec1", "Total_Obligations__c")
	if !total.Tagged(map[string]bool{"cumulative": true}) {
		t.Error("cumulative rule live when tag active")
	}
	if total.Tagged(map[string]bool{}) {
		t.Error("cumulative rule dormant when tag inactive")
	}

	name, _ := c.Rule("ec1", "Name")
	if !name.Tagged(map[string]bool{}) {
		t.Error("untagged rules are always live")
	}
}

func TestCumulativeSpecWiring(t *testing.T) {
	c := loadCatalog(t)

	total, _ := c.Rule("ec1", "Total_Obligations__c")
	if total.Cumulative == nil {
		t.Fatal("Total_Obligations__c carries a cumulative spec")
	}
	if total.Cumulative.IncrementField != "Current_Period_Obligations__c" {
		t.Errorf("increment field %s", total.Cumulative.IncrementField)
	}
	if total.Cumulative.AwardType != "project" {
		t.Errorf("award type %s", total.Cumulative.AwardType)
	}
}

func TestDropdownCorrectionRewritesListValues(t *testing.T) {
	c := loadCatalog(t)

	capType, _ := c.Rule("ec1", "Type_of_Capital_Expenditure__c")
	found := false
	for _, v := range capType.ListVals {
		if v == "Affordable housing, supportive housing, or recovery housing" {
			found = true
		}
		if v == "Affordable housing supportive housing or recovery housing" {
			t.Error("template spelling should be replaced by the corrected value")
		}
	}
	if !found {
		t.Error("corrected value missing from list values")
	}

	// the template's spelling is still accepted as input and coerced
	got, failures := capType.FormatForPersistence(rules.String("Affordable housing supportive housing or recovery housing"))
	if failures != 0 {
		t.Fatalf("%d formatter failures", failures)
	}
	if got.Str != "Affordable housing, supportive housing, or recovery housing" {
		t.Errorf("coerced to %q", got.Str)
	}
}

func TestLegacySpellingCoercion(t *testing.T) {
	c := loadCatalog(t)

	sectors, _ := c.Rule("ec4", "Sectors_Critical_to_Health_Well_Being__c")
	got, failures := sectors.FormatForPersistence(rules.String("Family or childcare"))
	if failures != 0 {
		t.Fatalf("%d formatter failures", failures)
	}
	if got.Str != "Family or child care" {
		t.Errorf("coerced to %q", got.Str)
	}
}

func TestValidationFormatterChains(t *testing.T) {
	c := loadCatalog(t)

	// string fields coerce to text and pick lists lowercase for comparison
	status, _ := c.Rule("ec1", "Completion_Status__c")
	got, _ := status.FormatForValidation(rules.String("Not Started"))
	if got.Str != "not started" {
		t.Errorf("pick list value lowercased for comparison, got %q", got.Str)
	}

	// multi-selects strip commas and separator dashes before splitting
	sectors, _ := c.Rule("ec4", "Sectors_Critical_to_Health_Well_Being__c")
	got, _ = sectors.FormatForValidation(rules.String("-Health care; -Public health work"))
	if got.Str != "health care;public health work" {
		t.Errorf("multi-select normalization got %q", got.Str)
	}

	// numbers typed into string fields become text
	name, _ := c.Rule("ec1", "Name")
	got, _ = name.FormatForValidation(rules.Number(42))
	if got.Kind != rules.KindString || got.Str != "42" {
		t.Errorf("numeric input not coerced: %+v", got)
	}
}

func TestPersistentTrimOnStringFields(t *testing.T) {
	c := loadCatalog(t)

	name, _ := c.Rule("subrecipient", "Name")
	got, _ := name.FormatForPersistence(rules.String("  Acme Corp  "))
	if got.Str != "Acme Corp" {
		t.Errorf("got %q", got.Str)
	}
}

func TestDefaultSharesOneInstance(t *testing.T) {
	a, err := rules.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	b, _ := rules.Default()
	if a != b {
		t.Error("Default should return a single shared catalog")
	}
	if rules.MustDefault() != a {
		t.Error("MustDefault should return the shared catalog")
	}
}
