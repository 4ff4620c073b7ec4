package pages

import (
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/webshop-qa/storefront-e2e/session"
)

// Checkout flow locators.
const (
	selCheckoutInfoContainer    = `.checkout_info_container`
	selFirstNameInput           = `[data-test="firstName"]`
	selLastNameInput            = `[data-test="lastName"]`
	selPostalCodeInput          = `[data-test="postalCode"]`
	selContinueButton           = `[data-test="continue"]`
	selCheckoutError            = `[data-test="error"]`
	selCheckoutSummaryContainer = `.checkout_summary_container`
	selSummaryTotal             = `.summary_total_label`
	selFinishButton             = `[data-test="finish"]`
	selCancelButton             = `[data-test="cancel"]`
	selCompleteContainer        = `.checkout_complete_container`
	selCompleteHeader           = `.complete-header`
	selBackHomeButton           = `[data-test="back-to-products"]`
)

// URL fragments of the three checkout steps.
const (
	CheckoutInfoURLPart     = "checkout-step-one.html"
	CheckoutOverviewURLPart = "checkout-step-two.html"
	CheckoutCompleteURLPart = "checkout-complete.html"
)

// Field validation messages of the customer info step.
const (
	FirstNameRequiredMessage  = "First Name is required"
	LastNameRequiredMessage   = "Last Name is required"
	PostalCodeRequiredMessage = "Postal Code is required"
)

// OrderCompleteHeader is shown on the confirmation page.
const OrderCompleteHeader = "Thank you for your order!"

// CheckoutInfoPage drives step one of checkout: the customer info form.
type CheckoutInfoPage struct {
	base
}

// NewCheckoutInfoPage ...
func NewCheckoutInfoPage(sess *session.Session, logger log.Logger) *CheckoutInfoPage {
	return &CheckoutInfoPage{base: newBase(sess, logger)}
}

// Name ...
func (p *CheckoutInfoPage) Name() string {
	return "checkout-info"
}

// WaitUntilReady ...
func (p *CheckoutInfoPage) WaitUntilReady() error {
	if err := p.waitVisible(selCheckoutInfoContainer); err != nil {
		return err
	}
	return p.waitVisible(selFirstNameInput)
}

// FillInfo fills the customer info form. Empty values clear the field,
// which is how the validation scenarios provoke field errors.
func (p *CheckoutInfoPage) FillInfo(firstName, lastName, postalCode string) error {
	if err := p.fill(selFirstNameInput, firstName); err != nil {
		return err
	}
	if err := p.fill(selLastNameInput, lastName); err != nil {
		return err
	}
	return p.fill(selPostalCodeInput, postalCode)
}

// SubmitContinue clicks continue without expecting the next step.
// Negative scenarios use it to stay on the info step.
func (p *CheckoutInfoPage) SubmitContinue() error {
	return p.click(selContinueButton)
}

// Continue submits the form and returns the order overview step.
func (p *CheckoutInfoPage) Continue() (*CheckoutOverviewPage, error) {
	if err := p.SubmitContinue(); err != nil {
		return nil, err
	}

	overview := NewCheckoutOverviewPage(p.session, p.logger)
	if err := overview.WaitUntilReady(); err != nil {
		return nil, err
	}
	return overview, nil
}

// ErrorMessage returns the text of the validation error box.
func (p *CheckoutInfoPage) ErrorMessage() (string, error) {
	return p.text(selCheckoutError)
}

// IsErrorDisplayed probes for the validation error box.
func (p *CheckoutInfoPage) IsErrorDisplayed() bool {
	return p.isVisible(selCheckoutError)
}

// Cancel aborts checkout and returns to the cart.
func (p *CheckoutInfoPage) Cancel() (*CartPage, error) {
	if err := p.click(selCancelButton); err != nil {
		return nil, err
	}

	cart := NewCartPage(p.session, p.logger)
	if err := cart.WaitUntilReady(); err != nil {
		return nil, err
	}
	return cart, nil
}

// CurrentURL ...
func (p *CheckoutInfoPage) CurrentURL() string {
	return p.currentURL()
}

// CheckoutOverviewPage drives step two of checkout: the order summary.
type CheckoutOverviewPage struct {
	base
}

// NewCheckoutOverviewPage ...
func NewCheckoutOverviewPage(sess *session.Session, logger log.Logger) *CheckoutOverviewPage {
	return &CheckoutOverviewPage{base: newBase(sess, logger)}
}

// Name ...
func (p *CheckoutOverviewPage) Name() string {
	return "checkout-overview"
}

// WaitUntilReady ...
func (p *CheckoutOverviewPage) WaitUntilReady() error {
	return p.waitVisible(selCheckoutSummaryContainer)
}

// ItemNames returns the product names listed on the order summary.
func (p *CheckoutOverviewPage) ItemNames() ([]string, error) {
	return p.allTexts(selCartItemName)
}

// TotalLabel returns the order total line, e.g. "Total: $43.18".
func (p *CheckoutOverviewPage) TotalLabel() (string, error) {
	return p.text(selSummaryTotal)
}

// Finish places the order and returns the confirmation page.
func (p *CheckoutOverviewPage) Finish() (*CheckoutCompletePage, error) {
	if err := p.click(selFinishButton); err != nil {
		return nil, err
	}

	complete := NewCheckoutCompletePage(p.session, p.logger)
	if err := complete.WaitUntilReady(); err != nil {
		return nil, err
	}
	return complete, nil
}

// Cancel aborts checkout from the overview and returns to the catalog.
func (p *CheckoutOverviewPage) Cancel() (*InventoryPage, error) {
	if err := p.click(selCancelButton); err != nil {
		return nil, err
	}

	inventory := NewInventoryPage(p.session, p.logger)
	if err := inventory.WaitUntilReady(); err != nil {
		return nil, err
	}
	return inventory, nil
}

// CheckoutCompletePage drives the order confirmation screen.
type CheckoutCompletePage struct {
	base
}

// NewCheckoutCompletePage ...
func NewCheckoutCompletePage(sess *session.Session, logger log.Logger) *CheckoutCompletePage {
	return &CheckoutCompletePage{base: newBase(sess, logger)}
}

// Name ...
func (p *CheckoutCompletePage) Name() string {
	return "checkout-complete"
}

// WaitUntilReady ...
func (p *CheckoutCompletePage) WaitUntilReady() error {
	return p.waitVisible(selCompleteContainer)
}

// CompleteHeader returns the confirmation headline.
func (p *CheckoutCompletePage) CompleteHeader() (string, error) {
	return p.text(selCompleteHeader)
}

// BackHome returns to the catalog from the confirmation page.
func (p *CheckoutCompletePage) BackHome() (*InventoryPage, error) {
	if err := p.click(selBackHomeButton); err != nil {
		return nil, err
	}

	inventory := NewInventoryPage(p.session, p.logger)
	if err := inventory.WaitUntilReady(); err != nil {
		return nil, err
	}
	return inventory, nil
}

// CurrentURL ...
func (p *CheckoutCompletePage) CurrentURL() string {
	return p.currentURL()
}
