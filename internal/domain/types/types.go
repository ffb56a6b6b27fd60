// Package types contains the view shapes returned by the HTTP API. They
// carry exactly what the presentation layer needs to render a page.
package types

// FooterView is the footer line shown on every page.
type FooterView struct {
	Text     string `json:"text"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// NavOption is one follow-up game suggestion.
type NavOption struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	ID       int    `json:"id"`
}

// OptionsView is the landing page: the day's playable games.
type OptionsView struct {
	Date    string      `json:"date"`
	DayName string      `json:"day_name"`
	Options []NavOption `json:"options"`
	Footer  FooterView  `json:"footer"`
}

// MemberImage is one carousel entry of a bundle game.
type MemberImage struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref"`
}

// SliderView is the derived price control range. All values are in
// minor currency units; Initial is the range midpoint.
type SliderView struct {
	Step    int `json:"step"`
	Lower   int `json:"lower"`
	Upper   int `json:"upper"`
	Initial int `json:"initial"`
}

// GameView is the guessing page for one resolved item. Subtitle is nil
// for a plain product and the first member's name for a bundle.
type GameView struct {
	Date     string        `json:"date"`
	Type     string        `json:"type"`
	ID       int           `json:"id"`
	Title    string        `json:"title"`
	Subtitle *string       `json:"subtitle"`
	Members  []MemberImage `json:"members"`
	Slider   SliderView    `json:"slider"`
	Footer   FooterView    `json:"footer"`
}

// BreakdownLine is one member's actual price within a bundle result.
type BreakdownLine struct {
	Name      string `json:"name"`
	Minor     int    `json:"minor"`
	Formatted string `json:"formatted"`
}

// ResultView is the outcome page for a confirmed guess.
type ResultView struct {
	Date            string          `json:"date"`
	Type            string          `json:"type"`
	ID              int             `json:"id"`
	ActualMinor     int             `json:"actual_minor"`
	FormattedActual string          `json:"formatted_actual"`
	ActualTitle     string          `json:"actual_title"`
	GuessMinor      int             `json:"guess_minor"`
	Delta           int             `json:"delta"`
	Verdict         string          `json:"verdict"`
	Message         string          `json:"message"`
	Breakdown       []BreakdownLine `json:"breakdown,omitempty"`
	Options         []NavOption     `json:"options"`
	NoYesterday     string          `json:"no_yesterday,omitempty"`
	Footer          FooterView      `json:"footer"`
}
