package club

// Club is a pickable side. Short is unique per season; Active gates
// whether the club may appear in new picks.
type Club struct {
	ID       string
	SeasonID string
	Name     string
	Short    string
	Active   bool
}
