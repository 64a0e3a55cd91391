package domain

const (
	MinAge            = 18
	MaxAge            = 75
	MinDurationMonths = 4
	MaxDurationMonths = 72
	MinAmount         = 250
	MaxAmount         = 20000
	AmountStep        = 50
)

var PurposeOptions = []string{
	"radio/tv",
	"education",
	"furniture/equipment",
	"new car",
	"used car",
	"business",
	"repairs",
	"domestic appliance",
	"other",
}

var HousingOptions = []string{"own", "for free", "rent"}

var JobOptions = []string{
	"skilled",
	"unskilled resident",
	"highly skilled",
	"unemployed/non-resident",
}

// CustomerProfile holds the attributes sent to the model for a single prediction.
type CustomerProfile struct {
	Age            int    `json:"age" validate:"min=18,max=75"`
	DurationMonths int    `json:"duration_months" validate:"min=4,max=72"`
	Amount         int    `json:"amount" validate:"min=250,max=20000,step=50"`
	Purpose        string `json:"purpose" validate:"required,purpose"`
	Housing        string `json:"housing" validate:"required,housing"`
	Job            string `json:"job" validate:"required,job"`
}

// DefaultProfile returns the values the form is pre-filled with.
func DefaultProfile() CustomerProfile {
	return CustomerProfile{
		Age:            30,
		DurationMonths: 24,
		Amount:         1500,
		Purpose:        "radio/tv",
		Housing:        "own",
		Job:            "skilled",
	}
}

type IntRange struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

type FormOptions struct {
	Age            IntRange        `json:"age"`
	DurationMonths IntRange        `json:"duration_months"`
	Amount         IntRange        `json:"amount"`
	Purpose        []string        `json:"purpose"`
	Housing        []string        `json:"housing"`
	Job            []string        `json:"job"`
	Defaults       CustomerProfile `json:"defaults"`
}

// Options describes the domain of every profile field.
func Options() FormOptions {
	return FormOptions{
		Age:            IntRange{Min: MinAge, Max: MaxAge, Step: 1},
		DurationMonths: IntRange{Min: MinDurationMonths, Max: MaxDurationMonths, Step: 1},
		Amount:         IntRange{Min: MinAmount, Max: MaxAmount, Step: AmountStep},
		Purpose:        append([]string(nil), PurposeOptions...),
		Housing:        append([]string(nil), HousingOptions...),
		Job:            append([]string(nil), JobOptions...),
		Defaults:       DefaultProfile(),
	}
}

func Contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
