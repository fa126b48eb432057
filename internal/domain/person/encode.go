package person

import "github.com/go-faster/jx"

// Encode writes the person as a JSON object.
func (p *Person) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("uni")
	e.Str(p.UNI)
	e.FieldStart("first_name")
	e.Str(p.FirstName)
	e.FieldStart("last_name")
	e.Str(p.LastName)
	e.FieldStart("email")
	e.Str(p.Email)
	e.FieldStart("phone")
	e.Str(p.Phone)
	if p.BirthDate != nil {
		e.FieldStart("birth_date")
		e.Str(p.BirthDate.String())
	}
	e.FieldStart("addresses")
	e.ArrStart()
	for i := range p.Addresses {
		p.Addresses[i].Encode(e)
	}
	e.ArrEnd()
	e.ObjEnd()
}

// Encode writes the address as a JSON object. A missing state is encoded
// as an explicit null, matching the upstream representation.
func (a *Address) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(a.ID.String())
	e.FieldStart("street")
	e.Str(a.Street)
	e.FieldStart("city")
	e.Str(a.City)
	e.FieldStart("state")
	if a.State != nil {
		e.Str(*a.State)
	} else {
		e.Null()
	}
	e.FieldStart("postal_code")
	e.Str(a.PostalCode)
	e.FieldStart("country")
	e.Str(a.Country)
	e.ObjEnd()
}
