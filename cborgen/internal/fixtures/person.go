// Package fixtures holds structs with checked-in cborgen output, used to
// exercise generated code end to end.
package fixtures

//go:generate go run ../.. gen -i person.go

// Address is embedded in Person by value, by pointer and in a slice.
type Address struct {
	Street string `cbor:"street"`
	City   string `cbor:"city"`
	Zip    uint32 `cbor:"zip,omitempty"`
}

// Person covers every field shape cborgen supports.
type Person struct {
	Name     string    `cbor:"name"`
	Age      uint8     `cbor:"age"`
	Balance  int64     `json:"balance"`
	Score    float64   `cbor:"score"`
	Active   bool      `cbor:"active"`
	Count    int       `cbor:"count"`
	Avatar   []byte    `cbor:"avatar,omitempty"`
	Email    *string   `cbor:"email"`
	Tags     []string  `cbor:"tags,omitempty"`
	Levels   []int     `cbor:"levels"`
	Home     Address   `cbor:"home"`
	Work     *Address  `cbor:"work"`
	Previous []Address `cbor:"previous,omitempty"`
	Secret   string    `cbor:"-"`
	Nick     string
}
