package data

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"
)

// SampleHeader is the column layout of the bank churn CSV.
var SampleHeader = []string{
	"CLIENTNUM", "Attrition_Flag", "Customer_Age", "Gender", "Dependent_count",
	"Education_Level", "Marital_Status", "Income_Category", "Card_Category",
	"Months_on_book", "Total_Relationship_Count", "Months_Inactive_12_mon",
	"Contacts_Count_12_mon", "Credit_Limit", "Total_Revolving_Bal", "Avg_Open_To_Buy",
	"Total_Amt_Chng_Q4_Q1", "Total_Trans_Amt", "Total_Trans_Ct", "Total_Ct_Chng_Q4_Q1",
	"Avg_Utilization_Ratio",
}

var (
	sampleEducation = []string{"High School", "Graduate", "Uneducated", "Unknown", "College", "Post-Graduate", "Doctorate"}
	sampleMarital   = []string{"Married", "Single", "Divorced", "Unknown"}
	sampleIncome    = []string{"Less than $40K", "$40K - $60K", "$60K - $80K", "$80K - $120K", "$120K +", "Unknown"}
	sampleCard      = []string{"Blue", "Silver", "Gold", "Platinum"}
)

// GenerateSample writes n synthetic customers in the bank churn layout.
// Attrition is driven mostly by low transaction counts and revolving
// balance, so the models have signal to find. Output is reproducible for a
// given seed.
func GenerateSample(w io.Writer, n int, seed int64) error {
	rnd := rand.New(rand.NewSource(seed))
	cw := csv.NewWriter(w)
	if err := cw.Write(SampleHeader); err != nil {
		return err
	}

	itoa := strconv.Itoa
	ftoa := func(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }

	for i := 0; i < n; i++ {
		age := 26 + rnd.Intn(45)
		gender := "M"
		if rnd.Intn(2) == 0 {
			gender = "F"
		}
		monthsOnBook := 13 + rnd.Intn(44)
		relationships := 1 + rnd.Intn(6)
		inactive := rnd.Intn(7)
		contacts := rnd.Intn(7)
		creditLimit := 1438.3 + rnd.Float64()*33000
		revolving := float64(rnd.Intn(2518))
		openToBuy := math.Max(creditLimit-revolving, 0)
		transCt := 10 + rnd.Intn(130)
		transAmt := 510 + float64(transCt)*(30+rnd.Float64()*60)
		amtChng := 0.3 + rnd.Float64()*1.2
		ctChng := 0.2 + rnd.Float64()*1.1

		// logit of attrition
		z := -0.045*float64(transCt) - 0.0012*revolving + 0.35*float64(inactive) +
			0.25*float64(contacts) - 1.2*ctChng + 2.5 + rnd.NormFloat64()*0.5
		flag := "Existing Customer"
		if rnd.Float64() < 1/(1+math.Exp(-z)) {
			flag = "Attrited Customer"
		}

		rec := []string{
			itoa(700000000 + i),
			flag,
			itoa(age),
			gender,
			itoa(rnd.Intn(6)),
			sampleEducation[rnd.Intn(len(sampleEducation))],
			sampleMarital[rnd.Intn(len(sampleMarital))],
			sampleIncome[rnd.Intn(len(sampleIncome))],
			sampleCard[rnd.Intn(len(sampleCard))],
			itoa(monthsOnBook),
			itoa(relationships),
			itoa(inactive),
			itoa(contacts),
			ftoa(creditLimit, 1),
			itoa(int(revolving)),
			ftoa(openToBuy, 1),
			ftoa(amtChng, 3),
			itoa(int(transAmt)),
			itoa(transCt),
			ftoa(ctChng, 3),
			ftoa(revolving/creditLimit, 3),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
