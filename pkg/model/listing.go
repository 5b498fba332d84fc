package model

import "time"

const (
	RoomTypeSingle    = "single"
	RoomTypeDouble    = "double"
	RoomTypeDormitory = "dormitory"
	RoomTypeSuite     = "suite"
)

type Address struct {
	Street      string       `json:"street" bson:"street" validate:"required,min=2,max=200"`
	City        string       `json:"city" bson:"city" validate:"required,min=1,max=100"`
	State       string       `json:"state" bson:"state" validate:"required,min=1,max=100"`
	Country     string       `json:"country" bson:"country" validate:"required,min=2,max=100"`
	ZipCode     string       `json:"zip_code" bson:"zip_code" validate:"required,min=2,max=20"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"min=-180,max=180"`
}

type ContactInfo struct {
	Phone string `json:"phone" bson:"phone" validate:"required,min=5,max=20"`
	Email string `json:"email" bson:"email" validate:"required,email"`
}

// Room is a bookable unit owned by its Listing. It has no collection of its
// own; the ID is a uuid assigned when the room is first persisted.
type Room struct {
	ID          string   `json:"id" bson:"id" validate:"omitempty,uuid4"`
	Type        string   `json:"type" bson:"type" validate:"required,oneof=single double dormitory suite"`
	Capacity    int      `json:"capacity" bson:"capacity" validate:"required,min=1,max=50"`
	Price       float64  `json:"price" bson:"price" validate:"required,gt=0"`
	Amenities   []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Images      []string `json:"images,omitempty" bson:"images,omitempty"`
	IsAvailable bool     `json:"is_available" bson:"is_available"`
}

type Review struct {
	ID      string    `json:"id" bson:"id" validate:"omitempty,uuid4"`
	UserID  string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Rating  int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment string    `json:"comment" bson:"comment" validate:"required,min=1,max=2000"`
	Date    time.Time `json:"date" bson:"date"`
}

type Policies struct {
	CheckIn      string   `json:"check_in,omitempty" bson:"check_in,omitempty"`
	CheckOut     string   `json:"check_out,omitempty" bson:"check_out,omitempty"`
	Cancellation string   `json:"cancellation,omitempty" bson:"cancellation,omitempty"`
	HouseRules   []string `json:"house_rules,omitempty" bson:"house_rules,omitempty"`
}

type Listing struct {
	ID          string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string      `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Description string      `json:"description" bson:"description" validate:"required,min=2,max=5000"`
	Address     Address     `json:"address" bson:"address" validate:"required"`
	ContactInfo ContactInfo `json:"contact_info" bson:"contact_info" validate:"required"`
	Amenities   []string    `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Images      []string    `json:"images,omitempty" bson:"images,omitempty"`
	Rooms       []Room      `json:"rooms" bson:"rooms" validate:"required,min=1,dive"`
	Reviews     []Review    `json:"reviews,omitempty" bson:"reviews,omitempty" validate:"omitempty,dive"`
	Rating      float64     `json:"rating" bson:"rating" validate:"min=0,max=5"`
	Policies    *Policies   `json:"policies,omitempty" bson:"policies,omitempty"`
	IsActive    bool        `json:"is_active" bson:"is_active"`
	OwnerID     string      `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	CreatedAt   time.Time   `json:"created_at,omitempty" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty" bson:"updated_at"`
}

// ListingUpdate carries a partial-field merge. Nil / zero fields are left
// untouched; rooms replace the whole owned collection when present.
type ListingUpdate struct {
	Name        string       `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description string       `json:"description,omitempty" validate:"omitempty,min=2,max=5000"`
	Address     *Address     `json:"address,omitempty" validate:"omitempty"`
	ContactInfo *ContactInfo `json:"contact_info,omitempty" validate:"omitempty"`
	Amenities   *[]string    `json:"amenities,omitempty"`
	Images      *[]string    `json:"images,omitempty"`
	Rooms       *[]Room      `json:"rooms,omitempty" validate:"omitempty,min=1,dive"`
	Policies    *Policies    `json:"policies,omitempty"`
}

// ListingFilter narrows the public listing search. Zero fields are ignored;
// Text runs a full-text search across name, description and address fields.
type ListingFilter struct {
	Text      string   `json:"text,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Country   string   `json:"country,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}

// Room returns the embedded room with the given local ID, or nil.
func (l *Listing) Room(roomID string) *Room {
	for i := range l.Rooms {
		if l.Rooms[i].ID == roomID {
			return &l.Rooms[i]
		}
	}
	return nil
}

// RecomputeRating sets the aggregate rating to the mean of all review
// ratings, or 0 when there are no reviews.
func (l *Listing) RecomputeRating() {
	if len(l.Reviews) == 0 {
		l.Rating = 0
		return
	}
	sum := 0
	for _, r := range l.Reviews {
		sum += r.Rating
	}
	l.Rating = float64(sum) / float64(len(l.Reviews))
}
