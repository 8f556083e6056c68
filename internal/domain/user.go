package domain

// User is the directory view of an account: identity plus rating aggregates.
type User struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email,omitempty"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int32   `json:"total_reviews"`
}
