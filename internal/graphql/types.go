package graphql

import (
	"github.com/graphql-go/graphql"

	"storefront-api/internal/domain"
)

// typeRegistry holds exactly one instance of every schema type. It is built
// once at startup and shared by all requests; the types are stateless
// translators, so sharing is safe.
type typeRegistry struct {
	currency       *graphql.Object
	price          *graphql.Object
	attributeItem  *graphql.Object
	attribute      *graphql.Object
	category       *graphql.Object
	product        *graphql.Object
	orderedProduct *graphql.Object
	order          *graphql.Object
	productInput   *graphql.InputObject
}

// newTypeRegistry constructs the schema types leaf-first, so nested types
// are composed by reference rather than rebuilt per parent.
func newTypeRegistry() *typeRegistry {
	t := &typeRegistry{}

	t.currency = graphql.NewObject(graphql.ObjectConfig{
		Name: "Currency",
		Fields: graphql.Fields{
			"label":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"symbol": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	t.price = graphql.NewObject(graphql.ObjectConfig{
		Name: "Price",
		Fields: graphql.Fields{
			"amount": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					price, ok := priceFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return price.Amount.String(), nil
				},
			},
			"currency": &graphql.Field{Type: t.currency},
		},
	})

	t.attributeItem = graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeItem",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"value":        &graphql.Field{Type: graphql.String},
			"displayValue": &graphql.Field{Type: graphql.String},
		},
	})

	t.attribute = graphql.NewObject(graphql.ObjectConfig{
		Name: "Attribute",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.ID},
			"name":  &graphql.Field{Type: graphql.String},
			"type":  &graphql.Field{Type: graphql.String},
			"items": &graphql.Field{Type: graphql.NewList(t.attributeItem)},
		},
	})

	t.category = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	t.product = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"brand":       &graphql.Field{Type: graphql.String},
			"inStock":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"description": &graphql.Field{Type: graphql.String},
			"gallery":     &graphql.Field{Type: graphql.NewList(graphql.String)},
			"category":    &graphql.Field{Type: t.category},
			"price": &graphql.Field{
				Type: t.price,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, ok := productFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					price := product.PrimaryPrice()
					if price == nil {
						return nil, nil
					}
					return *price, nil
				},
			},
			"currency": &graphql.Field{
				Type: t.currency,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, ok := productFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					price := product.PrimaryPrice()
					if price == nil {
						return nil, nil
					}
					return price.Currency, nil
				},
			},
			"attributes": &graphql.Field{Type: graphql.NewList(t.attribute)},
		},
	})

	t.orderedProduct = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderedProduct",
		Fields: graphql.Fields{
			"product_id": &graphql.Field{Type: graphql.String},
			"quantity":   &graphql.Field{Type: graphql.Int},
			"unit_price": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, ok := p.Source.(domain.OrderItem)
					if !ok {
						return nil, nil
					}
					return item.UnitPrice.Float64(), nil
				},
			},
			"total": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, ok := p.Source.(domain.OrderItem)
					if !ok {
						return nil, nil
					}
					return item.Total().Float64(), nil
				},
			},
			"selected_attributes": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, ok := p.Source.(domain.OrderItem)
					if !ok {
						return nil, nil
					}
					return item.AttributeIDStrings(), nil
				},
			},
		},
	})

	t.order = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"orderedProducts": &graphql.Field{
				Type: graphql.NewList(t.orderedProduct),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, ok := orderFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return order.Items, nil
				},
			},
			"total": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, ok := orderFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return order.Total.Float64(), nil
				},
			},
			"currency": &graphql.Field{Type: t.currency},
			"created_at": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, ok := orderFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return order.FormatCreatedAt(), nil
				},
			},
		},
	})

	t.productInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":                 &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"quantity":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"selectedAttributes": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	return t
}

func productFromSource(src interface{}) (*domain.Product, bool) {
	switch v := src.(type) {
	case domain.Product:
		return &v, true
	case *domain.Product:
		return v, v != nil
	}
	return nil, false
}

func priceFromSource(src interface{}) (*domain.Price, bool) {
	switch v := src.(type) {
	case domain.Price:
		return &v, true
	case *domain.Price:
		return v, v != nil
	}
	return nil, false
}

func orderFromSource(src interface{}) (*domain.Order, bool) {
	switch v := src.(type) {
	case domain.Order:
		return &v, true
	case *domain.Order:
		return v, v != nil
	}
	return nil, false
}
