package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/webshop-qa/storefront-e2e/session"
)

// Inventory page locators.
const (
	selInventoryContainer = `[data-test="inventory-container"]`
	selInventoryItem      = `.inventory_item`
	selInventoryItemName  = `.inventory_item_name`
	selInventoryItemPrice = `.inventory_item_price`
	selProductSortSelect  = `[data-test="product-sort-container"]`
	selShoppingCartLink   = `[data-test="shopping-cart-link"]`
	selShoppingCartBadge  = `[data-test="shopping-cart-badge"]`
)

// InventoryURLPart identifies the catalog page in the browser URL.
const InventoryURLPart = "inventory.html"

// Product slugs used by the add-to-cart/remove controls.
const (
	ItemBackpack     = "sauce-labs-backpack"
	ItemBikeLight    = "sauce-labs-bike-light"
	ItemBoltTShirt   = "sauce-labs-bolt-t-shirt"
	ItemFleeceJacket = "sauce-labs-fleece-jacket"
	ItemOnesie       = "sauce-labs-onesie"
)

// Sort dropdown values of the catalog page.
const (
	SortNameAscending   = "az"
	SortNameDescending  = "za"
	SortPriceAscending  = "lohi"
	SortPriceDescending = "hilo"
)

// InventoryPage drives the product catalog screen: sorting, the
// per-item add/remove controls and the cart badge.
type InventoryPage struct {
	base
}

// NewInventoryPage ...
func NewInventoryPage(sess *session.Session, logger log.Logger) *InventoryPage {
	return &InventoryPage{base: newBase(sess, logger)}
}

// Name ...
func (p *InventoryPage) Name() string {
	return "inventory"
}

// WaitUntilReady ...
func (p *InventoryPage) WaitUntilReady() error {
	if err := p.waitVisible(selInventoryContainer); err != nil {
		return err
	}
	return p.waitVisible(selInventoryItem)
}

// AddItem puts the product identified by slug into the cart.
func (p *InventoryPage) AddItem(slug string) error {
	return p.click(fmt.Sprintf(`[data-test="add-to-cart-%s"]`, slug))
}

// RemoveItem removes the product identified by slug from the cart.
func (p *InventoryPage) RemoveItem(slug string) error {
	return p.click(fmt.Sprintf(`[data-test="remove-%s"]`, slug))
}

// CartBadgeCount reads the cart badge. An absent badge reads as 0,
// which is how the application renders an empty cart.
func (p *InventoryPage) CartBadgeCount() (int, error) {
	if !p.isVisible(selShoppingCartBadge) {
		return 0, nil
	}
	badge, err := p.text(selShoppingCartBadge)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(badge)
	if err != nil {
		return 0, fmt.Errorf("unexpected cart badge content (%s): %w", badge, err)
	}
	return count, nil
}

// SortBy selects a sort order on the catalog.
func (p *InventoryPage) SortBy(value string) error {
	return p.selectByValue(selProductSortSelect, value)
}

// ItemNames returns the product names in their current display order.
func (p *InventoryPage) ItemNames() ([]string, error) {
	return p.allTexts(selInventoryItemName)
}

// ItemPrices returns the product prices in their current display order.
func (p *InventoryPage) ItemPrices() ([]float64, error) {
	labels, err := p.allTexts(selInventoryItemPrice)
	if err != nil {
		return nil, err
	}

	prices := make([]float64, 0, len(labels))
	for _, label := range labels {
		price, err := parsePriceLabel(label)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, nil
}

// OpenCart navigates to the cart and returns its page object.
func (p *InventoryPage) OpenCart() (*CartPage, error) {
	if err := p.click(selShoppingCartLink); err != nil {
		return nil, err
	}

	cart := NewCartPage(p.session, p.logger)
	if err := cart.WaitUntilReady(); err != nil {
		return nil, err
	}
	return cart, nil
}

// CurrentURL ...
func (p *InventoryPage) CurrentURL() string {
	return p.currentURL()
}

func parsePriceLabel(label string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimPrefix(label, "$"), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected price label (%s): %w", label, err)
	}
	return price, nil
}
