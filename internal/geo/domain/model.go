package domain

// Department is one of El Salvador's 14 departamentos, keyed by the
// Hacienda catalog code.
type Department struct {
	Code string `json:"code" gorm:"type:varchar(4);primaryKey;column:code"`
	Name string `json:"name" gorm:"type:varchar(120);not null"`
}

func (Department) TableName() string { return "departments" }

// Municipality belongs to a department; codes repeat across
// departments, so the pair is the key.
type Municipality struct {
	Code           string `json:"code" gorm:"type:varchar(4);primaryKey;column:code"`
	DepartmentCode string `json:"department_code" gorm:"type:varchar(4);primaryKey;column:department_code"`
	Name           string `json:"name" gorm:"type:varchar(120);not null"`
}

func (Municipality) TableName() string { return "municipalities" }

// EconomicActivity is a Hacienda economic-activity catalog entry.
type EconomicActivity struct {
	Code        string `json:"code" gorm:"type:varchar(8);primaryKey;column:code"`
	Description string `json:"description" gorm:"type:varchar(255);not null"`
}

func (EconomicActivity) TableName() string { return "economic_activities" }
