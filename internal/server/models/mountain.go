package models

// Mountain is shared reference data. It has no owner: any authenticated
// user may create one, only staff may change or delete it.
type Mountain struct {
	ID         int64
	Name       string
	Prefecture string
	Elevation  int
}
