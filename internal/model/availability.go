package model

import "sort"

// Availability is a per-weekday working window with an internal break
// sub-range. The console treats (doctorId, day) as unique: the editor looks
// records up by day.
type Availability struct {
	ID             string `json:"id"`
	DoctorID       string `json:"doctorId"`
	Day            string `json:"day"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	BreakStartTime string `json:"breakStartTime"`
	BreakEndTime   string `json:"breakEndTime"`
}

// AvailabilityWindow is the time template applied across selected weekdays.
type AvailabilityWindow struct {
	StartTime      string `json:"startTime" binding:"required"`
	EndTime        string `json:"endTime" binding:"required"`
	BreakStartTime string `json:"breakStartTime" binding:"required"`
	BreakEndTime   string `json:"breakEndTime" binding:"required"`
}

type AddAvailabilityRequest struct {
	Days []string `json:"days" binding:"required,min=1,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	AvailabilityWindow
}

type DeleteAvailabilityRequest struct {
	AvailabilityIDs []string `json:"availabilityId" binding:"required,min=1,dive,required"`
}

// Weekdays in display order. Availability is always presented Monday→Sunday
// regardless of insertion order.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

var weekdayRank = func() map[string]int {
	m := make(map[string]int, len(Weekdays))
	for i, d := range Weekdays {
		m[d] = i
	}
	return m
}()

func IsWeekday(day string) bool {
	_, ok := weekdayRank[day]
	return ok
}

// SortAvailability orders records canonically Monday→Sunday in place.
func SortAvailability(records []Availability) {
	sort.SliceStable(records, func(i, j int) bool {
		return weekdayRank[records[i].Day] < weekdayRank[records[j].Day]
	})
}
