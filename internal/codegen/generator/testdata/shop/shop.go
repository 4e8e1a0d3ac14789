package shop

import "context"

// ProductApi serves the product catalogue.
//
//annogen:generateProxy("/api/product/")
type ProductApi struct{}

//annogen:proxyMethod
func (p *ProductApi) GetProducts(ctx context.Context) ([]Product, error) {
	return nil, nil
}

//annogen:proxyMethod
func (p *ProductApi) SaveProduct(ctx context.Context, product Product) (bool, error) {
	return true, nil
}

// Product is a catalogue entry.
//
//annogen:proxyType
//annogen:table("products")
//annogen:testData({productID: 1, title: "Lamp", price: 19.5})
//annogen:testData({productID: 2, title: "Desk", price: 120})
type Product struct {
	//annogen:primaryKey
	ProductID int64   `json:"productID" db:"product_id"`
	Title     string  `json:"title"` //annogen:required
	Price     float64 `json:"price"` //annogen:range(0, 10000)
}

// Review belongs to a product.
//
//annogen:table("reviews")
type Review struct {
	//annogen:primaryKey
	ReviewID  int64 `json:"reviewID" db:"review_id"`
	ProductID int64 `json:"productID" db:"product_id"` //annogen:foreignKey("products", "product_id")
	Body      string `json:"body"`
}
