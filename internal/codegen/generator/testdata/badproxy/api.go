package badproxy

//annogen:generateProxy("/api/bad/")
type BadApi struct{}

//annogen:proxyMethod
func (b *BadApi) Lookup() (map[string]int, error) {
	return nil, nil
}

//annogen:table("things")
type Thing struct {
	//annogen:primaryKey
	ID int `json:"id"`
}
