package models

// AppointmentAddOn is an extra attached to a slot at booking time. Exactly
// one of the two representations must be populated: a catalog service
// reference, or the legacy free-text name with an explicit price.
type AppointmentAddOn struct {
	ID          string  `bson:"id" json:"id"`
	ServiceID   string  `bson:"serviceId,omitempty" json:"service_id,omitempty"`
	ServiceName string  `bson:"serviceName,omitempty" json:"service_name,omitempty"`
	Price       float64 `bson:"price,omitempty" json:"price,omitempty"`
}

// Valid reports whether the add-on carries exactly one usable representation.
func (a AppointmentAddOn) Valid() bool {
	if a.ServiceID != "" {
		return true
	}
	return a.ServiceName != "" && a.Price > 0
}

// FinalPrice resolves to the catalog price when a reference is present,
// otherwise to the legacy price field.
func (a AppointmentAddOn) FinalPrice(catalog map[string]Service) float64 {
	if a.ServiceID != "" {
		if svc, ok := catalog[a.ServiceID]; ok {
			return svc.Price()
		}
	}
	return a.Price
}

// FinalName resolves to the catalog name when a reference is present,
// otherwise to the legacy name field.
func (a AppointmentAddOn) FinalName(catalog map[string]Service) string {
	if a.ServiceID != "" {
		if svc, ok := catalog[a.ServiceID]; ok {
			return svc.Name
		}
	}
	return a.ServiceName
}
