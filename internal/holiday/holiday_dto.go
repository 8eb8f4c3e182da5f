package holiday

type ListHolidayQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

type HolidayEntryRequest struct {
	Date     string `json:"date" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	AllDay   *bool  `json:"all_day"`
}

type ImportHolidayRequest struct {
	Source  string                `json:"source" binding:"required,oneof=ICS XLS API MANUAL"`
	Year    int                   `json:"year" binding:"required,min=1900,max=9999"`
	URL     string                `json:"url" binding:"omitempty,url"`
	Entries []HolidayEntryRequest `json:"entries" binding:"omitempty,dive"`
}

type HolidayResponse struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Name     string `json:"name"`
	Category string `json:"category"`
	AllDay   bool   `json:"all_day"`
	Source   string `json:"source"`
}

type ImportResult struct {
	Source   string `json:"source"`
	Year     int    `json:"year"`
	Version  string `json:"version"`
	Removed  int64  `json:"removed"`
	Inserted int    `json:"inserted"`
	Skipped  bool   `json:"skipped"`
}
