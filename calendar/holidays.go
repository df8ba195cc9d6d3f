package calendar

// Holiday data 2024-2028. US list covers federal holidays as observed;
// TARGET follows the ECB closing-day schedule; UK lists England & Wales
// bank holidays with substitute days.

var usHolidayList = []string{
	"2024-01-01", "2024-01-15", "2024-02-19", "2024-05-27", "2024-06-19",
	"2024-07-04", "2024-09-02", "2024-10-14", "2024-11-11", "2024-11-28",
	"2024-12-25",
	"2025-01-01", "2025-01-20", "2025-02-17", "2025-05-26", "2025-06-19",
	"2025-07-04", "2025-09-01", "2025-10-13", "2025-11-11", "2025-11-27",
	"2025-12-25",
	"2026-01-01", "2026-01-19", "2026-02-16", "2026-05-25", "2026-06-19",
	"2026-07-03", "2026-09-07", "2026-10-12", "2026-11-11", "2026-11-26",
	"2026-12-25",
	"2027-01-01", "2027-01-18", "2027-02-15", "2027-05-31", "2027-06-18",
	"2027-07-05", "2027-09-06", "2027-10-11", "2027-11-11", "2027-11-25",
	"2027-12-24", "2027-12-31",
	"2028-01-17", "2028-02-21", "2028-05-29", "2028-06-19", "2028-07-04",
	"2028-09-04", "2028-10-09", "2028-11-10", "2028-11-23", "2028-12-25",
}

var targetHolidayList = []string{
	"2024-01-01", "2024-03-29", "2024-04-01", "2024-05-01", "2024-12-25", "2024-12-26",
	"2025-01-01", "2025-04-18", "2025-04-21", "2025-05-01", "2025-12-25", "2025-12-26",
	"2026-01-01", "2026-04-03", "2026-04-06", "2026-05-01", "2026-12-25",
	"2027-01-01", "2027-03-26", "2027-03-29",
	"2028-04-14", "2028-04-17", "2028-05-01", "2028-12-25", "2028-12-26",
}

var ukHolidayList = []string{
	"2024-01-01", "2024-03-29", "2024-04-01", "2024-05-06", "2024-05-27",
	"2024-08-26", "2024-12-25", "2024-12-26",
	"2025-01-01", "2025-04-18", "2025-04-21", "2025-05-05", "2025-05-26",
	"2025-08-25", "2025-12-25", "2025-12-26",
	"2026-01-01", "2026-04-03", "2026-04-06", "2026-05-04", "2026-05-25",
	"2026-08-31", "2026-12-25", "2026-12-28",
	"2027-01-01", "2027-03-26", "2027-03-29", "2027-05-03", "2027-05-31",
	"2027-08-30", "2027-12-27", "2027-12-28",
	"2028-01-03", "2028-04-14", "2028-04-17", "2028-05-01", "2028-05-29",
	"2028-08-28", "2028-12-25", "2028-12-26",
}
