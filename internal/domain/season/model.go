package season

// Season is one edition of the survivor pool. At most one season is
// active at a time; all round operations address a season explicitly.
type Season struct {
	ID     string
	Name   string
	Active bool
}
