package record

// Weekdays lists the seven schedule keys in calendar order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Shift is one working interval in HH:MM.
type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule is the availability of one weekday.
type DaySchedule struct {
	Available bool    `json:"available"`
	Shifts    []Shift `json:"shifts"`
}

// WeeklySchedule maps each weekday to its availability. A normalized
// schedule always carries all seven days.
type WeeklySchedule map[string]DaySchedule

// EmptyWeeklySchedule returns a schedule with every day unavailable.
func EmptyWeeklySchedule() WeeklySchedule {
	s := make(WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		s[day] = DaySchedule{Available: false, Shifts: []Shift{}}
	}
	return s
}

// Clone returns a deep copy of the schedule.
func (s WeeklySchedule) Clone() WeeklySchedule {
	out := make(WeeklySchedule, len(s))
	for day, d := range s {
		out[day] = DaySchedule{Available: d.Available, Shifts: append([]Shift{}, d.Shifts...)}
	}
	return out
}

// OpeningHours is the open and close time of one weekday.
type OpeningHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BusinessHours maps each weekday to its opening hours.
type BusinessHours map[string]OpeningHours

// Clone returns a copy of the business hours.
func (h BusinessHours) Clone() BusinessHours {
	out := make(BusinessHours, len(h))
	for day, v := range h {
		out[day] = v
	}
	return out
}
