package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store is a physical warehouse grouping items. It has no behavior of its own.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	SalePrice         decimal.Decimal `json:"salePrice"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice"`
	Quantity          int             `json:"quantity"`
	StoreID           string          `json:"storeId"`
	LowStockThreshold int             `json:"lowStockThreshold"`
}

// LowStock reports whether the item is at or below its alert boundary.
func (i Item) LowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// Customer carries a signed running balance: positive means the customer
// owes the business (accounts receivable). Only credit sales and direct
// administrative edits may change it.
type Customer struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}

// SaleItem is one line of a sale. Price is a snapshot of the item's sale
// price at transaction time; later catalog edits never alter it.
type SaleItem struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

const (
	PaymentCash   = "cash"
	PaymentCredit = "credit"
)

// Sale is immutable once committed. The ledger is append-only: there is no
// update or delete operation for sales.
type Sale struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Items         []SaleItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Change        decimal.Decimal `json:"change"`
	CustomerID    string          `json:"customerId,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
}

type Settings struct {
	CompanyName string `json:"companyName"`
	Currency    string `json:"currency"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// DBState is the whole-state snapshot, the sole unit of persistence. Every
// mutation produces a new complete DBState; nothing persists partial diffs.
type DBState struct {
	Items     []Item     `json:"items"`
	Customers []Customer `json:"customers"`
	Stores    []Store    `json:"stores"`
	Sales     []Sale     `json:"sales"`
	Settings  Settings   `json:"settings"`
}

// Clone deep-copies the state so callers can build a new snapshot without
// aliasing the slices of the one currently visible to readers.
func (s DBState) Clone() DBState {
	out := DBState{
		Items:     make([]Item, len(s.Items)),
		Customers: make([]Customer, len(s.Customers)),
		Stores:    make([]Store, len(s.Stores)),
		Sales:     make([]Sale, len(s.Sales)),
		Settings:  s.Settings,
	}
	copy(out.Items, s.Items)
	copy(out.Customers, s.Customers)
	copy(out.Stores, s.Stores)
	for i, sale := range s.Sales {
		items := make([]SaleItem, len(sale.Items))
		copy(items, sale.Items)
		sale.Items = items
		out.Sales[i] = sale
	}
	return out
}

// FindItem returns the item with the given id, or false.
func (s DBState) FindItem(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// FindCustomer returns the customer with the given id, or false.
func (s DBState) FindCustomer(id string) (Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// FindStore returns the store with the given id, or false. Items may carry a
// storeId with no matching store; callers render those as unassigned.
func (s DBState) FindStore(id string) (Store, bool) {
	for _, st := range s.Stores {
		if st.ID == id {
			return st, true
		}
	}
	return Store{}, false
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	ExpiresAt   string `json:"expires_at"`
}

// Actor identifies the logged-in operator for audit logging.
type Actor struct {
	Username string
}

type PaymentBreakdown struct {
	PaymentMethod string          `json:"payment_method"`
	Invoices      int             `json:"invoices"`
	Total         decimal.Decimal `json:"total"`
}

// SalesReport summarizes committed sales in an inclusive date range.
// EstimatedProfit values each line at its snapshot price minus the item's
// current purchase price; items with no purchase price, or deleted since the
// sale, count as zero cost.
type SalesReport struct {
	From            string             `json:"from"`
	To              string             `json:"to"`
	GrossSales      decimal.Decimal    `json:"gross_sales"`
	EstimatedProfit decimal.Decimal    `json:"estimated_profit"`
	InvoiceCount    int                `json:"invoice_count"`
	ByPayment       []PaymentBreakdown `json:"by_payment"`
}
