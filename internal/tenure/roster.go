package tenure

import "time"

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Default is the post-Ferguson roster, newest first. Each incoming manager's
// tenure starts where the predecessor's ends so the summer breaks between
// appointments stay covered.
func Default() Roster {
	return Roster{
		{Name: "Michael Carrick", Type: Interim, From: date("2026-01-12")},
		{Name: "Darren Fletcher", Type: Caretaker, From: date("2026-01-05"), To: date("2026-01-12")},
		{Name: "Ruben Amorim", Type: Permanent, From: date("2024-11-11"), To: date("2026-01-05")},
		{Name: "Ruud van Nistelrooy", Type: Caretaker, From: date("2024-10-28"), To: date("2024-11-11")},
		{Name: "Erik ten Hag", Type: Permanent, From: date("2022-05-31"), To: date("2024-10-28")},
		{Name: "Ralf Rangnick", Type: Interim, From: date("2021-12-03"), To: date("2022-05-31")},
		{Name: "Michael Carrick", Type: Caretaker, From: date("2021-11-21"), To: date("2021-12-03")},
		{Name: "Ole Gunnar Solskjaer", Type: Permanent, From: date("2019-03-28"), To: date("2021-11-21")},
		{Name: "Ole Gunnar Solskjaer", Type: Interim, From: date("2018-12-19"), To: date("2019-03-28")},
		{Name: "José Mourinho", Type: Permanent, From: date("2016-05-24"), To: date("2018-12-19")},
		{Name: "Louis van Gaal", Type: Permanent, From: date("2014-06-30"), To: date("2016-05-24")},
		{Name: "Ryan Giggs", Type: Caretaker, From: date("2014-04-23"), To: date("2014-06-30")},
		{Name: "David Moyes", Type: Permanent, From: date("2013-07-01"), To: date("2014-04-23")},
	}
}
