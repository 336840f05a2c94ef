package data

// Schema describes which columns of the customer dataset feed the models.
// Column lists are ordered; the feature matrix follows Numeric and then one
// encoded column per entry of Categorical.
type Schema struct {
	LabelSource   string   `yaml:"labelSource"`   // textual status column
	RetainedValue string   `yaml:"retainedValue"` // status value mapped to label 0
	Label         string   `yaml:"label"`         // derived 0/1 column
	Categorical   []string `yaml:"categorical"`
	Numeric       []string `yaml:"numeric"`
}

// EncodedSuffix is appended to a categorical column name to form the name
// of its mean-churn column.
const EncodedSuffix = "_Churn"

// DefaultSchema returns the bank churn dataset layout.
func DefaultSchema() Schema {
	return Schema{
		LabelSource:   "Attrition_Flag",
		RetainedValue: "Existing Customer",
		Label:         "Churn",
		Categorical: []string{
			"Gender",
			"Education_Level",
			"Marital_Status",
			"Income_Category",
			"Card_Category",
		},
		Numeric: []string{
			"Customer_Age",
			"Dependent_count",
			"Months_on_book",
			"Total_Relationship_Count",
			"Months_Inactive_12_mon",
			"Contacts_Count_12_mon",
			"Credit_Limit",
			"Total_Revolving_Bal",
			"Avg_Open_To_Buy",
			"Total_Amt_Chng_Q4_Q1",
			"Total_Trans_Amt",
			"Total_Trans_Ct",
			"Total_Ct_Chng_Q4_Q1",
			"Avg_Utilization_Ratio",
		},
	}
}

// EncodedName returns the mean-churn column name for a categorical column.
func EncodedName(category string) string { return category + EncodedSuffix }

// FeatureNames returns the ordered feature column names.
func (s Schema) FeatureNames() []string {
	out := make([]string, 0, len(s.Numeric)+len(s.Categorical))
	out = append(out, s.Numeric...)
	for _, c := range s.Categorical {
		out = append(out, EncodedName(c))
	}
	return out
}
