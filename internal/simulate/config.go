package simulate

import "time"

// Config holds configuration for the game simulation.
type Config struct {
	BaseURL string        // Base URL of the service
	Date    string        // Day key to play; empty means today
	Rounds  int           // Number of guessing rounds to play
	Workers int           // Number of concurrent players
	Timeout time.Duration // HTTP request timeout
	LogFile string        // Log file for simulation output
	Verbose bool          // Enable verbose logging
}

// Wire shapes mirroring the API JSON views.
type navOption struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	ID       int    `json:"id"`
}

type footerView struct {
	Text     string `json:"text"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type optionsView struct {
	Date    string      `json:"date"`
	DayName string      `json:"day_name"`
	Options []navOption `json:"options"`
	Footer  footerView  `json:"footer"`
}

type sliderView struct {
	Step    int `json:"step"`
	Lower   int `json:"lower"`
	Upper   int `json:"upper"`
	Initial int `json:"initial"`
}

type memberImage struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref"`
}

type gameView struct {
	Date    string        `json:"date"`
	Type    string        `json:"type"`
	ID      int           `json:"id"`
	Title   string        `json:"title"`
	Members []memberImage `json:"members"`
	Slider  sliderView    `json:"slider"`
}

type resultView struct {
	Date            string      `json:"date"`
	Type            string      `json:"type"`
	ID              int         `json:"id"`
	ActualMinor     int         `json:"actual_minor"`
	FormattedActual string      `json:"formatted_actual"`
	GuessMinor      int         `json:"guess_minor"`
	Delta           int         `json:"delta"`
	Verdict         string      `json:"verdict"`
	Message         string      `json:"message"`
	Options         []navOption `json:"options"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats holds simulation statistics.
type Stats struct {
	RoundsPlayed  int
	RoundsFailed  int
	VerdictsUnder int
	VerdictsOver  int
	VerdictsExact int
	Drags         int
	Clicks        int
	Swipes        int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
