package example

import "time"

type (
	// Example is a row of the examples table.
	//
	//annogen:proxyType
	//annogen:table("examples")
	//annogen:testData([
	//	{exampleID: 1, name: "First", year: 1990},
	//	{exampleID: 2, name: O'Brien, year: 2001, "note": "a (tricky) one"},
	//])
	Example struct {
		//annogen:primaryKey
		//annogen:required
		ExampleID int64  `json:"exampleID" db:"example_id"`
		Name      string `json:"name"` //annogen:required
		Year      int    `json:"year"` //annogen:range(1989, 2017)
		Rating    float64 `json:"rating,omitempty"`
		Status    Status  `json:"status"`
		Tags      []string
		Owner     *Owner `json:"owner"`
		Created   time.Time `json:"created"`
		Payload   interface{}
		Meta      map[string]string `json:"meta"`
		Loop      Loop
		Ignored   string `db:"-"`
		Hash      string `json:"-" db:"hash"`
		secret    string
		Base
	}
)

// Owner owns examples.
//
//annogen:primarykey
type Owner struct {
	A, B int
}

type Base struct {
	ID int
}

type Status string

type Loop Loop2

type Loop2 Loop

type unexported struct{}

type Handler interface {
	Handle()
}
