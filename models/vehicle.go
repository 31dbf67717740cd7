package models

// Vehicle holds the structure for the vehicles collection in mongo. Vehicle ids
// are catalog slugs (e.g. "toyota-axio"), not ObjectIDs, so the fallback catalog
// and the remote collection share the same id space.
type Vehicle struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Type        string  `json:"type" bson:"type"`
	Capacity    int     `json:"capacity" bson:"capacity"`
	PricePerDay float64 `json:"pricePerDay" bson:"pricePerDay"`
	ImageURL    string  `json:"imageUrl" bson:"imageUrl"`
	Active      bool    `json:"active" bson:"active"`
}

// VehicleAvailability is a vehicle annotated with availability for a requested
// date range, used by the fleet listing.
type VehicleAvailability struct {
	Vehicle
	Available   bool   `json:"available"`
	BookedUntil string `json:"bookedUntil,omitempty"`
}
