package models

// Credentials identify the caller of the API. An empty UserId means an anonymous caller.
type Credentials struct {
	UserId string
	Email  string
}
