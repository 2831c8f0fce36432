// Package ledger turns a cart into a committed, immutable sale and applies
// its inventory and balance effects as one atomic state transition.
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dukanpos/internal/domain"
	"dukanpos/internal/xid"
)

// Cart is the building stage of a sale: an ordered list of lines whose
// prices were snapshotted from the catalog when each line was first added.
type Cart []domain.SaleItem

// AddLine puts qty units of the item into the cart. A line already holding
// the same item is merged by summing quantities at the line's original
// snapshot price; otherwise a new line is appended at the item's current
// sale price. A missing item or non-positive quantity is rejected without
// touching the cart.
func AddLine(cart Cart, item domain.Item, qty int) (Cart, error) {
	if item.ID == "" || qty <= 0 {
		return cart, domain.ErrValidation
	}

	for i, line := range cart {
		if line.ItemID == item.ID {
			next := make(Cart, len(cart))
			copy(next, cart)
			next[i].Quantity += qty
			next[i].Total = next[i].Price.Mul(decimal.NewFromInt(int64(next[i].Quantity)))
			return next, nil
		}
	}

	next := make(Cart, len(cart), len(cart)+1)
	copy(next, cart)
	return append(next, domain.SaleItem{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.SalePrice,
		Quantity: qty,
		Total:    item.SalePrice.Mul(decimal.NewFromInt(int64(qty))),
	}), nil
}

// RemoveLine drops the line at index; an out-of-range index is a no-op.
func RemoveLine(cart Cart, index int) Cart {
	if index < 0 || index >= len(cart) {
		return cart
	}
	next := make(Cart, 0, len(cart)-1)
	next = append(next, cart[:index]...)
	return append(next, cart[index+1:]...)
}

// ComputeTotal sums the line totals. An empty cart totals zero.
func ComputeTotal(cart Cart) decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart {
		total = total.Add(line.Total)
	}
	return total
}

// ComputeChange is max(0, paid - total).
func ComputeChange(paid, total decimal.Decimal) decimal.Decimal {
	change := paid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// CommitSale converts the cart into a committed sale and returns it together
// with the new whole-state snapshot: sold items decremented, the customer's
// balance increased for credit sales with a customer, and the sale appended.
// The three effects land in one returned value, so readers of the input
// state never observe a partial commit.
//
// Cash sales record paid as given and change clamped at zero; underpayment
// is an accepted outcome, not an error. Credit sales force paid and change
// to zero and, when customerID names an existing customer, add the total to
// that customer's balance; without a customerID no balance moves. Inventory
// has no floor: quantities may go negative on oversell.
func CommitSale(state domain.DBState, cart Cart, paymentMethod string, paid decimal.Decimal, customerID string) (domain.Sale, domain.DBState, error) {
	if len(cart) == 0 {
		return domain.Sale{}, state, domain.ErrEmptyCart
	}
	if paymentMethod != domain.PaymentCash && paymentMethod != domain.PaymentCredit {
		return domain.Sale{}, state, domain.ErrValidation
	}

	total := ComputeTotal(cart)

	items := make([]domain.SaleItem, len(cart))
	copy(items, cart)

	sale := domain.Sale{
		ID:            xid.New("sale"),
		Date:          time.Now().UTC(),
		Items:         items,
		Total:         total,
		Paid:          decimal.Zero,
		Change:        decimal.Zero,
		CustomerID:    strings.TrimSpace(customerID),
		PaymentMethod: paymentMethod,
	}
	if paymentMethod == domain.PaymentCash {
		// Cash sales may still reference a customer for reporting; the
		// balance only moves on credit.
		sale.Paid = paid
		sale.Change = ComputeChange(paid, total)
	}

	next := state.Clone()

	sold := make(map[string]int, len(cart))
	for _, line := range cart {
		sold[line.ItemID] += line.Quantity
	}
	for i, item := range next.Items {
		if qty, ok := sold[item.ID]; ok {
			next.Items[i].Quantity -= qty
		}
	}

	if paymentMethod == domain.PaymentCredit && sale.CustomerID != "" {
		for i, c := range next.Customers {
			if c.ID == sale.CustomerID {
				next.Customers[i].Balance = c.Balance.Add(total)
				break
			}
		}
	}

	next.Sales = append(next.Sales, sale)
	return sale, next, nil
}

// SaveCustomer creates or replaces a customer by id. Name is required;
// balance edits pass through as given, since administrative corrections are
// allowed and ledger effects are applied only at commit time.
func SaveCustomer(state domain.DBState, customer domain.Customer) (domain.DBState, domain.Customer, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return state, domain.Customer{}, domain.ErrValidation
	}

	next := state.Clone()
	if customer.ID == "" {
		customer.ID = xid.New("cust")
		next.Customers = append(next.Customers, customer)
		return next, customer, nil
	}

	for i, existing := range next.Customers {
		if existing.ID == customer.ID {
			next.Customers[i] = customer
			return next, customer, nil
		}
	}
	next.Customers = append(next.Customers, customer)
	return next, customer, nil
}

// DeleteCustomer removes a customer by id; absent ids are a no-op. Historical
// credit sales keep their customerId and render the name as unknown.
func DeleteCustomer(state domain.DBState, id string) domain.DBState {
	next := state.Clone()
	customers := next.Customers[:0]
	for _, c := range next.Customers {
		if c.ID != id {
			customers = append(customers, c)
		}
	}
	next.Customers = customers
	return next
}
