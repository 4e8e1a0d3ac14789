package example

import "context"

// ExampleApi serves the example records.
//
//annogen:generateProxy("/api/example/")
type ExampleApi struct {
	store map[int64]Example
}

// GetExamples lists every example.
//
//annogen:proxyMethod
func (a *ExampleApi) GetExamples(ctx context.Context) ([]Example, error) {
	return nil, nil
}

// GetExample looks a single example up.
//
//annogen:proxyMethod
func (a *ExampleApi) GetExample(ctx context.Context, id int64) (*Example, error) {
	return nil, nil
}

//annogen:proxyMethod
func (a ExampleApi) Ping() error {
	return nil
}

func (a *ExampleApi) Stats() (int, int) {
	return 0, 0
}

func (a *ExampleApi) reset() {}
