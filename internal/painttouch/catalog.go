package painttouch

// Teams is the OUA opponent list offered when creating a game.
var Teams = []string{
	"Guelph",
	"Queen's",
	"Carleton",
	"Ottawa",
	"Laurentian",
	"Nipissing",
	"Ontario Tech",
	"Windsor",
	"Western",
	"TMU",
	"Brock",
	"York",
	"Toronto",
	"Lakehead",
	"McMaster",
	"Laurier",
	"Algoma",
}

// Outcome is a selectable touch outcome.
type Outcome struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Outcomes is the outcome catalog offered by the entry form.
var Outcomes = []Outcome{
	{Value: "shot_at_rim_make", Label: "Shot at Rim - Make"},
	{Value: "shot_at_rim_miss", Label: "Shot at Rim - Miss"},
	{Value: "kick_out_3_make", Label: "Kick-out 3PT - Make"},
	{Value: "kick_out_3_miss", Label: "Kick-out 3PT - Miss"},
	{Value: "foul_drawn", Label: "Foul Drawn"},
	{Value: "turnover", Label: "Turnover"},
	{Value: "putback", Label: "Putback"},
	{Value: "reset", Label: "Reset (No Advantage)"},
}

// KeyOutcomes are the results highlighted in the outcome-share analytic.
var KeyOutcomes = []Outcome{
	{Value: "shot_at_rim_make", Label: "Rim Make"},
	{Value: "kick_out_3_make", Label: "Kick-out 3 Make"},
	{Value: "foul_drawn", Label: "Foul Drawn"},
}

// OutcomeLabel returns the display label for an outcome value, or the value
// itself when it is not in the catalog.
func OutcomeLabel(value string) string {
	for _, o := range Outcomes {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// OutcomeValues returns the values of Outcomes, suitable as a type catalog.
func OutcomeValues() []string {
	vals := make([]string, len(Outcomes))
	for i, o := range Outcomes {
		vals[i] = o.Value
	}
	return vals
}
