package domain

// Patch carries the optional fields of an address update. Nil fields are left unchanged.
type Patch struct {
	Type        *AddressType
	Name        *string
	Line        *string
	City        *string
	State       *string
	Pincode     *string
	Landmark    *string
	IsDefault   *bool
	Coordinates *Coordinates
}

// Apply copies the set fields of p onto a. The caller validates a afterwards.
func (p Patch) Apply(a *Address) {
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Line != nil {
		a.Line = *p.Line
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.Pincode != nil {
		a.Pincode = *p.Pincode
	}
	if p.Landmark != nil {
		l := *p.Landmark
		a.Landmark = &l
	}
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
	if p.Coordinates != nil {
		c := *p.Coordinates
		a.Coordinates = &c
	}
}
