package graphql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"storefront-api/internal/domain"
	ordersvc "storefront-api/internal/service/order"
)

// CatalogService is the read side the schema resolves against.
type CatalogService interface {
	Products(ctx context.Context, categoryID *int64, limit int) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id int64) (*domain.Category, error)
}

// OrderService is the write side plus order read-back.
type OrderService interface {
	Create(ctx context.Context, inputs []ordersvc.ProductInput, currencyID int64) (*domain.Order, error)
	Update(ctx context.Context, id int64, inputs []ordersvc.ProductInput, currencyID *int64) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

type Config struct {
	Catalog CatalogService
	Orders  OrderService
	Logger  *zap.Logger
}

type resolver struct {
	catalog CatalogService
	orders  OrderService
	logger  *zap.Logger
}

// NewSchema builds the executable schema. Call it once per process; the
// returned schema and its type registry are shared by all requests.
func NewSchema(cfg Config) (graphql.Schema, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &resolver{catalog: cfg.Catalog, orders: cfg.Orders, logger: logger}
	types := newTypeRegistry()

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(types),
		Mutation: r.mutationType(types),
	})
}

func (r *resolver) queryType(types *typeRegistry) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(types.product),
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{
						Type:        graphql.Int,
						Description: "Optional category ID to filter products",
					},
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						Description:  "Maximum number of products to return",
						DefaultValue: 10,
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var categoryID *int64
					if raw, ok := p.Args["categoryId"].(int); ok {
						id := int64(raw)
						categoryID = &id
					}
					limit, _ := p.Args["limit"].(int)
					products, err := r.catalog.Products(p.Context, categoryID, limit)
					if err != nil {
						return nil, r.internalError("products", err)
					}
					return products, nil
				},
			},
			"product": &graphql.Field{
				Type: types.product,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "Product ID",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					product, err := r.catalog.Product(p.Context, id)
					if err != nil {
						if domain.IsNotFound(err) {
							return nil, nil
						}
						return nil, r.internalError("product", err)
					}
					return product, nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(types.category),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					categories, err := r.catalog.Categories(p.Context)
					if err != nil {
						return nil, r.internalError("categories", err)
					}
					return categories, nil
				},
			},
			"category": &graphql.Field{
				Type: types.category,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Category ID",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					category, err := r.catalog.Category(p.Context, int64(id))
					if err != nil {
						if domain.IsNotFound(err) {
							return nil, nil
						}
						return nil, r.internalError("category", err)
					}
					return category, nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(types.order),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					orders, err := r.orders.List(p.Context)
					if err != nil {
						return nil, r.internalError("orders", err)
					}
					return orders, nil
				},
			},
			"order": &graphql.Field{
				Type: types.order,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Order ID",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					order, err := r.orders.Get(p.Context, int64(id))
					if err != nil {
						if domain.IsNotFound(err) {
							return nil, nil
						}
						return nil, r.internalError("order", err)
					}
					return order, nil
				},
			},
		},
	})
}

func (r *resolver) mutationType(types *typeRegistry) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createOrder": &graphql.Field{
				Type: types.order,
				Args: graphql.FieldConfigArgument{
					"products": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(types.productInput))),
						Description: "List of products with id, quantity, and selected attributes",
					},
					"currency_id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Currency ID",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					inputs := decodeProductInputs(p.Args["products"])
					currencyID, _ := p.Args["currency_id"].(int)
					order, err := r.orders.Create(p.Context, inputs, int64(currencyID))
					if err != nil {
						return nil, r.mutationError("createOrder", err)
					}
					return order, nil
				},
			},
			"updateOrder": &graphql.Field{
				Type: types.order,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Order ID",
					},
					"products": &graphql.ArgumentConfig{
						Type:        graphql.NewList(types.productInput),
						Description: "List of products with id, quantity, and selected attributes",
					},
					"currency_id": &graphql.ArgumentConfig{
						Type:        graphql.Int,
						Description: "Currency ID",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)

					var inputs []ordersvc.ProductInput
					if raw, ok := p.Args["products"]; ok && raw != nil {
						inputs = decodeProductInputs(raw)
					}
					var currencyID *int64
					if raw, ok := p.Args["currency_id"].(int); ok {
						cid := int64(raw)
						currencyID = &cid
					}

					order, err := r.orders.Update(p.Context, int64(id), inputs, currencyID)
					if err != nil {
						return nil, r.mutationError("updateOrder", err)
					}
					return order, nil
				},
			},
			"deleteOrder": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Order ID",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					deleted, err := r.orders.Delete(p.Context, int64(id))
					if err != nil {
						return nil, r.mutationError("deleteOrder", err)
					}
					return deleted, nil
				},
			},
		},
	})
}

// decodeProductInputs converts the ProductInput argument list into service
// inputs. Shape checks are already done by graphql argument coercion.
func decodeProductInputs(raw interface{}) []ordersvc.ProductInput {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	inputs := make([]ordersvc.ProductInput, 0, len(list))
	for _, entry := range list {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		var in ordersvc.ProductInput
		in.ID, _ = fields["id"].(string)
		if qty, ok := fields["quantity"].(int); ok {
			in.Quantity = qty
		}
		in.SelectedAttributes, _ = fields["selectedAttributes"].(string)
		inputs = append(inputs, in)
	}
	return inputs
}

var errInternal = errors.New("internal server error")

// mutationError keeps validation and not-found messages for the client and
// masks everything else, logging the real cause.
func (r *resolver) mutationError(op string, err error) error {
	if domain.IsNotFound(err) || domain.IsValidation(err) {
		return err
	}
	r.logger.Error("graphql: mutation failed", zap.String("op", op), zap.Error(err))
	return errInternal
}

func (r *resolver) internalError(op string, err error) error {
	r.logger.Error("graphql: query failed", zap.String("op", op), zap.Error(err))
	return errInternal
}
