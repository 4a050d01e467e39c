package rules

// ECCodes maps every detailed expenditure category code in the federal
// taxonomy to its official name. Regenerated alongside the rule source
// whenever the official template changes.
var ECCodes = map[string]string{
	"1.1":  "COVID-19 Vaccination",
	"1.2":  "COVID-19 Testing",
	"1.3":  "COVID-19 Contact Tracing",
	"1.4":  "Prevention in Congregate Settings (Nursing Homes Prisons/Jails Dense Work Sites Schools Child care facilities etc.)",
	"1.5":  "Personal Protective Equipment",
	"1.6":  "Medical Expenses (including Alternative Care Facilities)",
	"1.7":  "Other COVID-19 Public Health Expenses (including Communications Enforcement Isolation/Quarantine)",
	"1.8":  "COVID-19 Assistance to Small Businesses",
	"1.9":  "COVID-19 Assistance to Non-Profits",
	"1.10": "COVID-19 Aid to Impacted Industries",
	"1.11": "Community Violence Interventions",
	"1.12": "Mental Health Services",
	"1.13": "Substance Use Services",
	"1.14": "Other Public Health Services",
	"2.1":  "Household Assistance: Food Programs",
	"2.2":  "Household Assistance: Rent Mortgage and Utility Aid",
	"2.3":  "Household Assistance: Cash Transfers",
	"2.4":  "Household Assistance: Internet Access Programs",
	"2.5":  "Household Assistance: Paid Sick and Medical Leave",
	"2.6":  "Household Assistance: Health Insurance",
	"2.7":  "Household Assistance: Services for Un/Unbanked",
	"2.8":  "Household Assistance: Survivors Benefits",
	"2.9":  "Unemployment Benefits or Cash Assistance to Unemployed Workers",
	"2.10": "Assistance to Unemployed or Underemployed Workers (e.g. job training subsidized employment employment supports or incentives)",
	"2.11": "Healthy Childhood Environments: Child Care",
	"2.12": "Healthy Childhood Environments: Home Visiting",
	"2.13": "Healthy Childhood Environments: Services to Foster Youth or Families Involved in Child Welfare System",
	"2.14": "Healthy Childhood Environments: Early Learning",
	"2.15": "Long-term Housing Security: Affordable Housing",
	"2.16": "Long-term Housing Security: Services for Unhoused Persons",
	"2.17": "Housing Support: Housing Vouchers and Relocation Assistance for Disproportionately Impacted Communities",
	"2.18": "Housing Support: Other Housing Assistance",
	"2.19": "Social Determinants of Health: Community Health Workers or Benefits Navigation",
	"2.20": "Social Determinants of Health: Lead Remediation",
	"2.21": "Medical Facilities for Disproportionately Impacted Communities",
	"2.22": "Strong Healthy Communities: Neighborhood Features that Promote Health and Safety",
	"2.23": "Strong Healthy Communities: Demolition and Rehabilitation of Properties",
	"2.24": "Addressing Educational Disparities: Aid to High-Poverty Districts",
	"2.25": "Addressing Educational Disparities: Academic Social and Emotional Services",
	"2.26": "Addressing Educational Disparities: Mental Health Services",
	"2.27": "Addressing Impacts of Lost Instructional Time",
	"2.28": "Contributions to UI Trust Funds",
	"2.29": "Loans or Grants to Mitigate Financial Hardship",
	"2.30": "Technical Assistance Counseling or Business Planning",
	"2.31": "Rehabilitation of Commercial Properties or Other Improvements",
	"2.32": "Business Incubators and Start-Up or Expansion Assistance",
	"2.33": "Enhanced Support to Microbusinesses",
	"2.34": "Assistance to Impacted Nonprofit Organizations (Impacted or Disproportionately Impacted)",
	"2.35": "Aid to Tourism Travel or Hospitality",
	"2.36": "Aid to Other Impacted Industries",
	"2.37": "Economic Impact Assistance: Other",
	"3.1":  "Public Sector Workforce: Payroll and Benefits for Public Health Public Safety or Human Services Workers",
	"3.2":  "Public Sector Workforce: Rehiring Public Sector Staff",
	"3.3":  "Public Sector Workforce: Other",
	"3.4":  "Public Sector Capacity: Effective Service Delivery",
	"3.5":  "Public Sector Capacity: Administrative Needs",
	"4.1":  "Public Sector Employees",
	"4.2":  "Private Sector: Grants to other employers",
	"5.1":  "Clean Water: Centralized wastewater treatment",
	"5.2":  "Clean Water: Centralized wastewater collection and conveyance",
	"5.3":  "Clean Water: Decentralized wastewater",
	"5.4":  "Clean Water: Combined sewer overflows",
	"5.5":  "Clean Water: Other sewer infrastructure",
	"5.6":  "Clean Water: Stormwater",
	"5.7":  "Clean Water: Energy conservation",
	"5.8":  "Clean Water: Water conservation",
	"5.9":  "Clean Water: Nonpoint source",
	"5.10": "Drinking water: Treatment",
	"5.11": "Drinking water: Transmission & distribution",
	"5.12": "Drinking water: Lead Remediation including in Schools and Daycares",
	"5.13": "Drinking water: Source",
	"5.14": "Drinking water: Storage",
	"5.15": "Drinking water: Other water infrastructure",
	"5.16": "Water and Sewer: Private Wells",
	"5.17": "Water and Sewer: IIJA Bureau of Reclamation Match",
	"5.18": "Water and Sewer: Other",
	"5.19": "Broadband: Last Mile projects",
	"5.20": "Broadband: IIJA Match",
	"5.21": "Broadband: Other projects",
	"7.1":  "Administrative Expenses",
	"7.2":  "Transfers to Other Units of Government",
	"7.3":  "Costs Associated with Satisfying the Administrative and Other Legal Requirements of the SLFRF Program After the Obligation Deadline has Passed",
}

// TopLevelCategories maps a record type to the bulk-upload template's name
// for its top-level expenditure category.
var TopLevelCategories = map[string]string{
	"ec1": "1-Public Health",
	"ec2": "2-Negative Economic Impacts",
	"ec3": "3-Public Health-Negative Economic Impact: Public Sector Capacity",
	"ec4": "4-Premium Pay",
	"ec5": "5-Infrastructure",
	"ec7": "7-Administrative",
}
