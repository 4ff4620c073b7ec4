package pages

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/webshop-qa/storefront-e2e/session"
)

// Cart page locators.
const (
	selCartContainer          = `#cart_contents_container`
	selCartItem               = `.cart_item`
	selCartItemName           = `.inventory_item_name`
	selCheckoutButton         = `[data-test="checkout"]`
	selContinueShoppingButton = `[data-test="continue-shopping"]`
)

// CartURLPart identifies the cart page in the browser URL.
const CartURLPart = "cart.html"

// CartPage drives the shopping cart screen.
type CartPage struct {
	base
}

// NewCartPage ...
func NewCartPage(sess *session.Session, logger log.Logger) *CartPage {
	return &CartPage{base: newBase(sess, logger)}
}

// Name ...
func (p *CartPage) Name() string {
	return "cart"
}

// WaitUntilReady ...
func (p *CartPage) WaitUntilReady() error {
	return p.waitVisible(selCartContainer)
}

// ItemCount returns the number of line items in the cart.
func (p *CartPage) ItemCount() (int, error) {
	return p.count(selCartItem)
}

// ItemNames returns the product names currently in the cart.
func (p *CartPage) ItemNames() ([]string, error) {
	count, err := p.ItemCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return p.allTexts(selCartItemName)
}

// RemoveItem removes the product identified by slug from the cart.
func (p *CartPage) RemoveItem(slug string) error {
	return p.click(fmt.Sprintf(`[data-test="remove-%s"]`, slug))
}

// Checkout starts the checkout flow and returns its first step.
func (p *CartPage) Checkout() (*CheckoutInfoPage, error) {
	if err := p.click(selCheckoutButton); err != nil {
		return nil, err
	}

	info := NewCheckoutInfoPage(p.session, p.logger)
	if err := info.WaitUntilReady(); err != nil {
		return nil, err
	}
	return info, nil
}

// ContinueShopping navigates back to the catalog.
func (p *CartPage) ContinueShopping() (*InventoryPage, error) {
	if err := p.click(selContinueShoppingButton); err != nil {
		return nil, err
	}

	inventory := NewInventoryPage(p.session, p.logger)
	if err := inventory.WaitUntilReady(); err != nil {
		return nil, err
	}
	return inventory, nil
}

// IsDisplayed probes whether the cart is still on screen.
func (p *CartPage) IsDisplayed() bool {
	return p.isVisible(selCartContainer)
}

// CurrentURL ...
func (p *CartPage) CurrentURL() string {
	return p.currentURL()
}
