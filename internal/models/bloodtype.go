package models

// BloodType группа крови по системе AB0 с резус-фактором.
type BloodType string

// Канонические группы крови.
const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// BloodTypeAll значение фильтра, отключающее отбор по группе крови.
const BloodTypeAll = "all"

// BloodTypes возвращает все канонические группы крови в порядке отображения.
func BloodTypes() []BloodType {
	return []BloodType{
		APositive, ANegative,
		BPositive, BNegative,
		ABPositive, ABNegative,
		OPositive, ONegative,
	}
}

// ParseBloodType проверяет, что строка является канонической группой крови.
func ParseBloodType(s string) (BloodType, bool) {
	for _, bt := range BloodTypes() {
		if string(bt) == s {
			return bt, true
		}
	}
	return "", false
}
