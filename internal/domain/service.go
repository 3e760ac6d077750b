package domain

// Service is an immutable catalog entry. Rows are created by the seeder and
// never mutated at runtime.
type Service struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty" gorm:"type:json;serializer:json"`
	Duration    string   `json:"duration,omitempty"`
	Features    []string `json:"features,omitempty" gorm:"type:json;serializer:json"`
	Popular     bool     `json:"popular"`
}

func (Service) TableName() string { return "services" }
