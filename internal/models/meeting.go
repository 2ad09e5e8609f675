package models

// MeetingDays is the day pattern a class meets on.
type MeetingDays string

const (
	MeetingDaysMonThu MeetingDays = "MON_THU"
	MeetingDaysTueFri MeetingDays = "TUE_FRI"
	MeetingDaysWedSat MeetingDays = "WED_SAT"
)

// AllMeetingDays lists day patterns in weekly order.
var AllMeetingDays = []MeetingDays{MeetingDaysMonThu, MeetingDaysTueFri, MeetingDaysWedSat}

// Index returns the weekly position of the pattern, or -1 when unknown.
func (d MeetingDays) Index() int {
	for i, days := range AllMeetingDays {
		if days == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is a known pattern.
func (d MeetingDays) Valid() bool { return d.Index() >= 0 }

// MeetingHours is one of the six two-hour blocks of a teaching day.
type MeetingHours string

const (
	MeetingHoursAM7To9  MeetingHours = "AM_7_9"
	MeetingHoursAM9To11 MeetingHours = "AM_9_11"
	MeetingHoursAM11To1 MeetingHours = "AM_11_1"
	MeetingHoursPM1To3  MeetingHours = "PM_1_3"
	MeetingHoursPM3To5  MeetingHours = "PM_3_5"
	MeetingHoursPM5To7  MeetingHours = "PM_5_7"
)

// AllMeetingHours lists the blocks from the first to the last of the day.
var AllMeetingHours = []MeetingHours{
	MeetingHoursAM7To9,
	MeetingHoursAM9To11,
	MeetingHoursAM11To1,
	MeetingHoursPM1To3,
	MeetingHoursPM3To5,
	MeetingHoursPM5To7,
}

var meetingHoursLabels = map[MeetingHours]string{
	MeetingHoursAM7To9:  "7:00 AM - 9:00 AM",
	MeetingHoursAM9To11: "9:00 AM - 11:00 AM",
	MeetingHoursAM11To1: "11:00 AM - 1:00 PM",
	MeetingHoursPM1To3:  "1:00 PM - 3:00 PM",
	MeetingHoursPM3To5:  "3:00 PM - 5:00 PM",
	MeetingHoursPM5To7:  "5:00 PM - 7:00 PM",
}

// Index returns the position of the block within the day, or -1 when unknown.
func (h MeetingHours) Index() int {
	for i, hours := range AllMeetingHours {
		if hours == h {
			return i
		}
	}
	return -1
}

// Valid reports whether h is a known block.
func (h MeetingHours) Valid() bool { return h.Index() >= 0 }

// Label renders the clock range of the block.
func (h MeetingHours) Label() string {
	if label, ok := meetingHoursLabels[h]; ok {
		return label
	}
	return string(h)
}

// PrecedingTwo returns the two blocks immediately before h, earliest first.
// Blocks in the first two positions of the day have none.
func (h MeetingHours) PrecedingTwo() []MeetingHours {
	idx := h.Index()
	if idx < 2 {
		return nil
	}
	return []MeetingHours{AllMeetingHours[idx-2], AllMeetingHours[idx-1]}
}

// CompareMeetingHours orders blocks by their position in the day.
func CompareMeetingHours(a, b MeetingHours) int {
	return a.Index() - b.Index()
}
