package salonservice

// Salon модель салона из справочника SalonService
type Salon struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"` // IANA имя, например "Europe/Moscow"

	EmployeeIDs []int64 `json:"employeeIds"`
}

// HasEmployee проверяет, что мастер числится в салоне
func (s *Salon) HasEmployee(employeeID int64) bool {
	for _, id := range s.EmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Service модель услуги салона
type Service struct {
	ID              int64    `json:"id"`
	SalonID         int64    `json:"salonId"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
}
