package challenge

// Participant is one member of the fixed challenge roster.
type Participant struct {
	Username string `toml:"username"`
	Name     string `toml:"name"`
	Icon     string `toml:"icon"`
}

// Roster is the ordered list of participants. Order is significant: it breaks
// ties on the leaderboard.
type Roster []Participant

// Find returns the participant with the exact username.
func (r Roster) Find(username string) (Participant, bool) {
	for _, p := range r {
		if p.Username == username {
			return p, true
		}
	}
	return Participant{}, false
}

func (r Roster) Usernames() []string {
	out := make([]string, len(r))
	for i, p := range r {
		out[i] = p.Username
	}
	return out
}

// DefaultRoster is the roster used when no config file overrides it.
func DefaultRoster() Roster {
	return Roster{
		{Username: "ben_woolston", Name: "Ben Woolston", Icon: "🧠"},
		{Username: "andre", Name: "Andre", Icon: "⚡"},
		{Username: "anna_woolston", Name: "Anna Woolston", Icon: "🌸"},
		{Username: "annette_mcgrath", Name: "Annette McGrath", Icon: "🎯"},
		{Username: "con_woolston", Name: "Con Woolston", Icon: "🦭"},
		{Username: "james_senanayake", Name: "James Senanayake", Icon: "🛰️"},
		{Username: "jo_woolston", Name: "Jo Woolston", Icon: "🐔"},
		{Username: "krista_woolston", Name: "Krista Woolston", Icon: "🌴"},
	}
}
