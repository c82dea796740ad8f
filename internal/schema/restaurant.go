package schema

import "github.com/comandalabs/comanda/internal/query"

// Default returns the catalog for the restaurant schema.
//
// Alias conventions are fixed per subject and every qualified field and
// join clause below must agree on them:
//
//	sales:    base "sales"; st=stores, ch=channels, c=customers,
//	          da=delivery_addresses
//	products: base "product_sales"; p=products, s=sales
//	items:    base "item_product_sales"; ps=product_sales, s=sales,
//	          i=items, p=products
func Default() *Catalog {
	return New(salesSchema(), deliveriesSchema(), productsSchema(), customersSchema(), itemsSchema())
}

func salesSchema() SubjectSchema {
	return SubjectSchema{
		Subject:    query.SubjectSales,
		BaseTable:  "sales",
		TimeColumn: "sales.created_at",
		Qualified: map[string]string{
			// Financial and identity columns collide with joined tables.
			"id":                 "sales.id",
			"created_at":         "sales.created_at",
			"total_amount":       "sales.total_amount",
			"total_amount_items": "sales.total_amount_items",
			"total_discount":     "sales.total_discount",
			"total_increase":     "sales.total_increase",
			"delivery_fee":       "sales.delivery_fee",
			"service_tax_fee":    "sales.service_tax_fee",
			"value_paid":         "sales.value_paid",
			"store_id":           "sales.store_id",
			"channel_id":         "sales.channel_id",
			"customer_id":        "sales.customer_id",
			// Destination region lives on delivery_addresses.
			"city":         "da.city",
			"state":        "da.state",
			"neighborhood": "da.neighborhood",
		},
		Joins: []JoinRule{
			{
				Clause:          "LEFT JOIN stores st ON sales.store_id = st.id",
				DimensionFields: []string{"store_id"},
			},
			{
				Clause:          "LEFT JOIN delivery_addresses da ON sales.id = da.sale_id",
				DimensionFields: []string{"city", "state", "neighborhood"},
			},
			{
				Clause:          "LEFT JOIN channels ch ON sales.channel_id = ch.id",
				DimensionFields: []string{"channel_id"},
			},
			{
				Clause:          "LEFT JOIN customers c ON sales.customer_id = c.id",
				DimensionFields: []string{"customer_id"},
			},
		},
		Display: []DisplayColumn{
			{Dimension: "store_id", Expr: "st.name", Alias: "store_name"},
			{
				Dimension: "channel_id",
				Expr:      "ch.description",
				Alias:     "channel_name",
				// Duplicate channel descriptions exist across ids; group
				// by both so equal names stay distinct rows.
				GroupBy: []string{"ch.description", "ch.id"},
			},
			{Dimension: "customer_id", Expr: "c.customer_name", Alias: "customer_name"},
		},
	}
}

func deliveriesSchema() SubjectSchema {
	return SubjectSchema{
		Subject:    query.SubjectDeliveries,
		BaseTable:  "delivery_sales",
		TimeColumn: "created_at",
	}
}

func productsSchema() SubjectSchema {
	return SubjectSchema{
		Subject:    query.SubjectProducts,
		BaseTable:  "product_sales",
		TimeColumn: "s.created_at", // temporal context comes from the sale
		Qualified: map[string]string{
			"channel_id": "s.channel_id",
			"created_at": "s.created_at",
		},
		Joins: []JoinRule{
			{
				Clause:          "LEFT JOIN products p ON product_sales.product_id = p.id",
				DimensionFields: []string{"product_id"},
			},
			{
				// Temporal context and the channel both live on the sale.
				Clause:          "LEFT JOIN sales s ON product_sales.sale_id = s.id",
				DimensionFields: []string{"created_at", "day_of_week", "hour_of_day"},
				FilterFields:    []string{"channel_id", "created_at", "day_of_week", "hour_from", "hour_to"},
			},
		},
		Display: []DisplayColumn{
			{Dimension: "product_id", Expr: "p.name", Alias: "product_name"},
		},
	}
}

func customersSchema() SubjectSchema {
	return SubjectSchema{
		Subject:    query.SubjectCustomers,
		BaseTable:  "customers",
		TimeColumn: "created_at",
	}
}

func itemsSchema() SubjectSchema {
	return SubjectSchema{
		Subject:    query.SubjectItems,
		BaseTable:  "item_product_sales",
		TimeColumn: "s.created_at",
		Qualified: map[string]string{
			"id":               "item_product_sales.id",
			"quantity":         "item_product_sales.quantity",
			"price":            "item_product_sales.price",
			"additional_price": "item_product_sales.additional_price",
			"amount":           "item_product_sales.amount",
			"item_id":          "item_product_sales.item_id",
			"product_id":       "ps.product_id",
			"total_amount":     "s.total_amount",
			"created_at":       "s.created_at",
		},
		Joins: []JoinRule{
			// Items have no temporal or channel context of their own:
			// always reach the sale through product_sales.
			{Clause: "LEFT JOIN product_sales ps ON item_product_sales.product_sale_id = ps.id", Always: true},
			{Clause: "LEFT JOIN sales s ON ps.sale_id = s.id", Always: true},
			{
				Clause:          "LEFT JOIN items i ON item_product_sales.item_id = i.id",
				DimensionFields: []string{"item_id"},
			},
			{
				Clause:          "LEFT JOIN products p ON ps.product_id = p.id",
				DimensionFields: []string{"product_id"},
			},
		},
		Display: []DisplayColumn{
			{Dimension: "item_id", Expr: "i.name", Alias: "item_name"},
			{Dimension: "product_id", Expr: "p.name", Alias: "product_name"},
		},
	}
}
